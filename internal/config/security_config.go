package config

import (
	"strings"
	"time"
)

const (
	sessionBackendVar = "SESSION_BACKEND"
	sessionCookieVar  = "SESSION_COOKIE_NAME"
	sessionMaxAgeVar  = "SESSION_MAX_AGE"
	cookieSecureVar   = "COOKIE_SECURE"

	redisAddrVar      = "REDIS_ADDR"
	redisPasswordVar  = "REDIS_PASSWORD"
	redisDBVar        = "REDIS_DB"
	redisKeyPrefixVar = "REDIS_KEY_PREFIX"
)

// Session backends
const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

type SecurityConfig interface {
	GetSessionBackend() string
	GetSessionCookieName() string
	GetSessionMaxAge() time.Duration
	GetCookieSecure() bool
}

type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type Security struct {
	source
}

var _ SecurityConfig = Security{}

// GetSessionBackend reports where browser credentials are kept: "cookie" or "redis".
func (s Security) GetSessionBackend() string {
	backend := strings.ToLower(s.get(sessionBackendVar, SessionBackendCookie))
	if backend != SessionBackendRedis {
		return SessionBackendCookie
	}
	return backend
}

func (s Security) GetSessionCookieName() string {
	return s.get(sessionCookieVar, "token")
}

// GetSessionMaxAge caps how long a stored credential is kept, whatever its exp claim says.
func (s Security) GetSessionMaxAge() time.Duration {
	return s.getDuration(sessionMaxAgeVar, 24*time.Hour)
}

func (s Security) GetCookieSecure() bool {
	return s.getBool(cookieSecureVar, false)
}

type Redis struct {
	source
}

var _ RedisConfig = Redis{}

func (r Redis) GetRedisAddr() string {
	return r.get(redisAddrVar, "localhost:6379")
}

func (r Redis) GetRedisPassword() string {
	return r.get(redisPasswordVar, "")
}

func (r Redis) GetRedisDB() int {
	return r.getInt(redisDBVar, 0)
}

func (r Redis) GetRedisKeyPrefix() string {
	return r.get(redisKeyPrefixVar, "studentdesk:credential:")
}
