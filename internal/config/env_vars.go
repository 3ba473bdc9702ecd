package config

import (
	"os"
	"strings"
)

const (
	appNameVar      = "APP_NAME"
	envVar          = "ENV"
	baseURLVar      = "BASE_URL"
	logLevelVar     = "LOG_LEVEL"
	redisAddrVar    = "REDIS_ADDR"
	redisChannelVar = "REDIS_CHANNEL"
)

// overrides holds file-provided values keyed by their environment variable name
type overrides map[string]string

func (o overrides) get(name, defaultValue string) string {
	if v, ok := o[name]; ok && v != "" {
		return v
	}
	return GetEnv(name, defaultValue)
}

type EnvVars struct {
	values overrides
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.values.get(appNameVar, "Warehouse Console")
}

func (e EnvVars) GetEnv() string {
	return e.values.get(envVar, "DEV")
}

// GetBaseURL returns the backend root (e.g. "https://wms.example.com").
// Trailing slashes are trimmed so paths can be appended directly.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimRight(e.values.get(baseURLVar, "http://localhost:8080"), "/")
}

func (e EnvVars) GetLogLevel() string {
	return e.values.get(logLevelVar, "info")
}

// GetRedisAddr is empty unless session events should be broadcast
func (e EnvVars) GetRedisAddr() string {
	return e.values.get(redisAddrVar, "")
}

func (e EnvVars) GetRedisChannel() string {
	return e.values.get(redisChannelVar, "warehouse-console:session")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
