package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileValues maps environment variable names to values read from the config file.
type fileValues map[string]string

// fileConfig is the studentdesk.toml key mapping.
type fileConfig struct {
	Port              string   `toml:"port"`
	AppName           string   `toml:"app_name"`
	Env               string   `toml:"env"`
	LogLevel          string   `toml:"log_level"`
	APIBaseURL        string   `toml:"api_base_url"`
	APITimeout        string   `toml:"api_timeout"`
	SessionBackend    string   `toml:"session_backend"`
	SessionCookieName string   `toml:"session_cookie_name"`
	SessionMaxAge     string   `toml:"session_max_age"`
	CookieSecure      bool     `toml:"cookie_secure"`
	RedisAddr         string   `toml:"redis_addr"`
	RedisPassword     string   `toml:"redis_password"`
	RedisDB           int      `toml:"redis_db"`
	RedisKeyPrefix    string   `toml:"redis_key_prefix"`
	AllowedOrigins    []string `toml:"allowed_origins"`
}

func loadFile(path string) (fileValues, error) {
	values := fileValues{}
	if strings.TrimSpace(path) == "" {
		return values, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load config file (%s): %w", path, err)
	}

	set := func(key, name, value string) {
		if meta.IsDefined(key) {
			values[name] = strings.TrimSpace(value)
		}
	}
	set("port", portEnvVar, raw.Port)
	set("app_name", appNameVar, raw.AppName)
	set("env", envVar, raw.Env)
	set("log_level", logLevelVar, raw.LogLevel)
	set("api_base_url", apiBaseURLVar, raw.APIBaseURL)
	set("api_timeout", apiTimeoutVar, raw.APITimeout)
	set("session_backend", sessionBackendVar, raw.SessionBackend)
	set("session_cookie_name", sessionCookieVar, raw.SessionCookieName)
	set("session_max_age", sessionMaxAgeVar, raw.SessionMaxAge)
	set("cookie_secure", cookieSecureVar, strconv.FormatBool(raw.CookieSecure))
	set("redis_addr", redisAddrVar, raw.RedisAddr)
	set("redis_password", redisPasswordVar, raw.RedisPassword)
	set("redis_db", redisDBVar, strconv.Itoa(raw.RedisDB))
	set("redis_key_prefix", redisKeyPrefixVar, raw.RedisKeyPrefix)
	set("allowed_origins", allowedOriginsVar, strings.Join(raw.AllowedOrigins, ","))

	return values, nil
}
