package handler

import (
	"strings"
	"testing"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&addAccountRequest{Username: "u", Secret: "s", Role: "wizard"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if got := err.Error(); !strings.Contains(got, "role must be one of: root admin user") {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestValidator_RequiredAndEmailMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&applyRequest{Email: "not-an-email"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "name is required") {
		t.Fatalf("missing required message: %q", msg)
	}
	if !strings.Contains(msg, "email must be a valid email address") {
		t.Fatalf("missing email message: %q", msg)
	}
}
