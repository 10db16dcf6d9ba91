package config

import (
	"os"
	"time"
)

type Config interface {
	EnvConfig
	CorsConfig
	APIConfig
	SecurityConfig
	RedisConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Cors
	API
	Security
	Redis
}

// New builds the configuration from environment variables, overlaid on the
// TOML file named by CONFIG_FILE when it is set.
func New() (Config, error) {
	return Load(os.Getenv(configFileVar))
}

// Load builds the configuration using the TOML file at path as the fallback
// for any variable missing from the environment. An empty path skips the file.
func Load(path string) (Config, error) {
	file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	src := source{file: file}
	return mainConfig{
		EnvVars:  EnvVars{src},
		Cors:     Cors{src},
		API:      API{src},
		Security: Security{src},
		Redis:    Redis{src},
	}, nil
}
