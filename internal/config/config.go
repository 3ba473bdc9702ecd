package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	ClientConfig
	ViewConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
	GetRedisAddr() string
	GetRedisChannel() string
}

type mainConfig struct {
	EnvVars
	Client
	Views
}

func New() Config {
	return newFromValues(nil)
}

func newFromValues(values overrides) Config {
	return mainConfig{
		EnvVars: EnvVars{values: values},
		Client:  Client{values: values},
		Views:   Views{values: values},
	}
}

// fileConfig is the on-disk shape of the optional YAML config file.
// Any value set here takes precedence over the matching environment variable.
type fileConfig struct {
	AppName string `yaml:"app_name"`
	Env     string `yaml:"env"`
	BaseURL string `yaml:"base_url"`
	Log     struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Redis struct {
		Address string `yaml:"address"`
		Channel string `yaml:"channel"`
	} `yaml:"redis"`
	Timeouts struct {
		Auth    string `yaml:"auth"`
		Request string `yaml:"request"`
	} `yaml:"timeouts"`
	Views struct {
		Login   string `yaml:"login"`
		Default string `yaml:"default"`
	} `yaml:"views"`
}

// Load reads the YAML file at path and layers it over the environment.
// An empty path returns the environment-only config.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config Load] read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes
func Parse(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("[config Parse] unmarshal: %w", err)
	}
	return newFromValues(overrides{
		appNameVar:        fc.AppName,
		envVar:            fc.Env,
		baseURLVar:        fc.BaseURL,
		logLevelVar:       fc.Log.Level,
		redisAddrVar:      fc.Redis.Address,
		redisChannelVar:   fc.Redis.Channel,
		authTimeoutVar:    fc.Timeouts.Auth,
		requestTimeoutVar: fc.Timeouts.Request,
		loginViewVar:      fc.Views.Login,
		defaultViewVar:    fc.Views.Default,
	}), nil
}
