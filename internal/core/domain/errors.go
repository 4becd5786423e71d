package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrLastRoot           = errors.New("cannot remove the last root account")
	ErrForbidden          = errors.New("access forbidden")
	ErrSyncInFlight       = errors.New("refresh already in progress")
	ErrKeyNotFound        = errors.New("key not found")
)
