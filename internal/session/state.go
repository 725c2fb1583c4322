package session

import "github.com/reciplore/reciplore/internal/api"

// Status is the coarse lifecycle position of a session.
type Status int

const (
	// StatusUnknown means the startup restore has not finished.
	StatusUnknown Status = iota
	// StatusAuthenticated means a profile was fetched with a live token.
	StatusAuthenticated
	// StatusUnauthenticated means there is known to be no session.
	StatusUnauthenticated
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is a point-in-time view of the session.
//
// IsAuthenticated implies User != nil in every published State.
type State struct {
	User            *api.User `json:"user" yaml:"user"`
	IsAuthenticated bool      `json:"isAuthenticated" yaml:"isAuthenticated"`
	IsCheckingAuth  bool      `json:"isCheckingAuth" yaml:"isCheckingAuth"`
	IsLoading       bool      `json:"isLoading" yaml:"isLoading"`
	Error           string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Status derives the lifecycle status.
func (s State) Status() Status {
	switch {
	case s.IsCheckingAuth:
		return StatusUnknown
	case s.IsAuthenticated:
		return StatusAuthenticated
	default:
		return StatusUnauthenticated
	}
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

func (s *State) clearSession() {
	s.User = nil
	s.IsAuthenticated = false
}
