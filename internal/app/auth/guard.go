package auth

import "github.com/aarjjun/EventSync/internal/app/models"

// Identity is what the guard knows about the caller of a request
type Identity struct {
	UserID        string
	Role          models.Role
	Authenticated bool
	// Loading is set while the profile lookup could not be completed yet
	Loading bool
}

// Decision is the outcome of evaluating the guard
type Decision int

const (
	// DecisionPending means identity resolution has not finished; the caller should retry
	DecisionPending Decision = iota
	// DecisionRedirect sends the caller back to the entry point
	DecisionRedirect
	// DecisionAllow lets the wrapped handler run unchanged
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionRedirect:
		return "redirect"
	case DecisionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// EntryPoint is where redirected callers are sent
const EntryPoint = "/"

// Evaluate applies the access rules: pending while loading, redirect when
// unauthenticated or when a required role does not match, allow otherwise.
func Evaluate(id Identity, required *models.Role) Decision {
	if id.Loading {
		return DecisionPending
	}
	if !id.Authenticated || id.UserID == "" {
		return DecisionRedirect
	}
	if required != nil && id.Role != *required {
		return DecisionRedirect
	}
	return DecisionAllow
}
