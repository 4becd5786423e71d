package domain

// Role is the closed set of account roles. It is the sole determinant of
// capability flags; never compare raw strings outside this package.
type Role string

const (
	RoleRoot  Role = "root"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// ParseRole converts a raw string (persisted snapshot, JWT claim, request
// payload) into a Role. Unknown values are rejected rather than defaulted.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Capabilities are the boolean gates derived from the current identity.
// They are never stored; recompute from the session on every check.
type Capabilities struct {
	IsAuthenticated bool `json:"is_authenticated"`
	IsAdmin         bool `json:"is_admin"`
	IsRoot          bool `json:"is_root"`
}

// CapabilitiesFor derives capability flags from an identity. A nil identity
// yields all-false flags.
func CapabilitiesFor(id *Identity) Capabilities {
	if id == nil {
		return Capabilities{}
	}
	switch id.Role {
	case RoleRoot:
		return Capabilities{IsAuthenticated: true, IsAdmin: true, IsRoot: true}
	case RoleAdmin:
		return Capabilities{IsAuthenticated: true, IsAdmin: true}
	case RoleUser:
		return Capabilities{IsAuthenticated: true}
	}
	return Capabilities{}
}
