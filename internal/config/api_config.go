package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar = "API_BASE_URL"
	apiTimeoutVar = "API_TIMEOUT"
)

type API struct {
	source
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the student records API root without a trailing slash.
func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.get(apiBaseURLVar, "http://localhost:5000"), "/")
}

func (a API) GetAPITimeout() time.Duration {
	return a.getDuration(apiTimeoutVar, 10*time.Second)
}
