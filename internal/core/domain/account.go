package domain

import "time"

// Account is a credential record in the registry. Username is the unique key.
type Account struct {
	Username   string    `json:"username"`
	SecretHash string    `json:"-"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the authenticated principal held by the session store and
// embedded in tokens. It carries no secret material.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
