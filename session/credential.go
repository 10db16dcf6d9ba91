package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/studentdesk/internal/errors"
)

// Claims are the payload fields the front-end reads from a credential.
// Only exp and roles drive behaviour; the rest is informational.
type Claims struct {
	jwtlib.RegisteredClaims

	UserID string              `json:"id,omitempty"`    // User id assigned by the records API
	Roles  jwtlib.ClaimStrings `json:"roles,omitempty"` // "admin" or "student", a single string or a list
}

// Role derives the single role carried by the claims. Admin wins over student.
func (c Claims) Role() Role {
	switch {
	case slices.Contains(c.Roles, string(RoleAdmin)):
		return RoleAdmin
	case slices.Contains(c.Roles, string(RoleStudent)):
		return RoleStudent
	default:
		return RoleNone
	}
}

// Expired reports whether the credential is no longer usable at now.
// A credential without exp never counts as live.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// maxExpiry is the latest expiry a session carries. Later exp values are
// clamped to it so they survive int64 conversion and JSON time encoding.
var maxExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// clampExpiry replaces an exp outside [0, maxExpiry] with the nearest bound.
func clampExpiry(payload []byte, claims *Claims) {
	var raw struct {
		Exp json.Number `json:"exp"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil || raw.Exp == "" {
		return
	}
	seconds, err := raw.Exp.Float64()
	if err != nil {
		return
	}
	switch {
	case seconds >= float64(maxExpiry.Unix()):
		claims.ExpiresAt = jwtlib.NewNumericDate(maxExpiry)
	case seconds < 0:
		claims.ExpiresAt = jwtlib.NewNumericDate(time.Unix(0, 0))
	}
}

// segmentParser decodes base64url segments, tolerating padding.
var segmentParser = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// Decode reads the payload segment of a credential without verifying its
// signature. Any structural problem is reported as ErrMalformedCredential.
func Decode(raw string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "expected 3 segments, got %d", len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "payload is not base64: %v", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "payload is not JSON: %v", err)
	}
	clampExpiry(payload, &claims)
	return claims, nil
}

// decodeSegment accepts the base64url alphabet used by JWTs and falls back to
// the standard alphabet some issuers emit.
func decodeSegment(seg string) ([]byte, error) {
	if seg == "" {
		return nil, fmt.Errorf("empty segment")
	}
	data, err := segmentParser.DecodeSegment(seg)
	if err == nil {
		return data, nil
	}
	if l := len(seg) % 4; l > 0 {
		seg += strings.Repeat("=", 4-l)
	}
	if data, stdErr := base64.StdEncoding.DecodeString(seg); stdErr == nil {
		return data, nil
	}
	return nil, err
}
