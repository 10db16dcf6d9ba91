// Package session holds the client-side session and access-control core:
// credential decoding, role derivation, expiry and the login/logout lifecycle.
//
// Credentials are decoded, never verified. The records API re-validates the
// bearer token on every call, so the checks here only decide what to render.
package session

import "time"

// Role is the coarse authorisation tag carried by a credential.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleNone    Role = "none"
)

// Session is the in-memory view derived from the stored credential.
type Session struct {
	Role      Role
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Anonymous is the session of a visitor with no usable credential.
func Anonymous() Session {
	return Session{Role: RoleNone}
}

// FromClaims builds the session for a decoded credential.
func FromClaims(token string, claims Claims) Session {
	s := Session{
		Role:   claims.Role(),
		Token:  token,
		UserID: claims.UserID,
	}
	if s.UserID == "" {
		s.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s Session) IsStudent() bool {
	return s.Role == RoleStudent
}

// HasRole reports whether the session is authenticated with role r.
func (s Session) HasRole(r Role) bool {
	return s.Authenticated() && s.Role == r
}

// Remaining returns how long the credential stays valid after now.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
