package domain

import "time"

// Audit action names. One per significant administrative action.
const (
	AuditLogin         = "login"
	AuditLogout        = "logout"
	AuditAccountAdd    = "account_add"
	AuditAccountRemove = "account_remove"
	AuditConfigChange  = "config_change"
	AuditEntityAdd     = "entity_add"
	AuditEntityRemove  = "entity_remove"
	AuditRefresh       = "refresh"
	AuditApply         = "apply"
)

// AuditEvent is an outbound record of an administrative action. Delivery is
// fire-and-forget; losing one is logged, never surfaced to the user.
type AuditEvent struct {
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Detail    map[string]string `json:"detail,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
