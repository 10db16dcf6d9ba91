package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	configFileVar = "CONFIG_FILE"
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	logLevelVar   = "LOG_LEVEL"
)

// source resolves a variable from the environment first, then the config file.
type source struct {
	file fileValues
}

func (s source) get(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	if value, ok := s.file[name]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) getDuration(name string, defaultValue time.Duration) time.Duration {
	raw := s.get(name, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func (s source) getInt(name string, defaultValue int) int {
	raw := s.get(name, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func (s source) getBool(name string, defaultValue bool) bool {
	raw := s.get(name, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

type EnvVars struct {
	source
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.get(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.get(appNameVar, "Student Desk")
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.get(envVar, "DEV"))
}

func (e EnvVars) GetLogLevel() string {
	return e.get(logLevelVar, "info")
}

// GetEnv returns the environment variable or defaultValue when it is unset.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
