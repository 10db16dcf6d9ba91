// Package sessiontest mints credentials for tests.
package sessiontest

import (
	"encoding/base64"
	"encoding/json"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token builds an unsigned three-segment credential with payload claims.
func Token(claims map[string]any) string {
	payload, err := json.Marshal(claims)
	if err != nil {
		panic(err)
	}
	return "header." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// Signed builds an HS256 credential the way the records API issues them.
func Signed(claims map[string]any, secret string) string {
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims(claims)).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}

// Admin returns an admin credential expiring at exp.
func Admin(exp time.Time) string {
	return Token(map[string]any{"id": "admin-1", "roles": "admin", "exp": exp.Unix()})
}

// Student returns a student credential expiring at exp.
func Student(exp time.Time) string {
	return Token(map[string]any{"id": "student-1", "roles": "student", "exp": exp.Unix()})
}
