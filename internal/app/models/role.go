package models

import "fmt"

// Role is the closed set of roles a profile can hold
type Role int

const (
	// RoleSubmitter creates events ("rep")
	RoleSubmitter Role = iota + 1
	// RoleReviewer approves, rejects and resets events ("hod")
	RoleReviewer
)

// ParseRole maps the stored role name onto a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "rep":
		return RoleSubmitter, nil
	case "hod":
		return RoleReviewer, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the stored role name
func (r Role) String() string {
	switch r {
	case RoleSubmitter:
		return "rep"
	case RoleReviewer:
		return "hod"
	default:
		return "unknown"
	}
}

// CanReview reports whether the role may change an event's status
func (r Role) CanReview() bool {
	switch r {
	case RoleReviewer:
		return true
	case RoleSubmitter:
		return false
	default:
		return false
	}
}

// CanSubmit reports whether the role may create events
func (r Role) CanSubmit() bool {
	switch r {
	case RoleReviewer, RoleSubmitter:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
