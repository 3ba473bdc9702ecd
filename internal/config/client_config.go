package config

import "time"

const (
	authTimeoutVar    = "AUTH_TIMEOUT"
	requestTimeoutVar = "REQUEST_TIMEOUT"
)

type ClientConfig interface {
	GetAuthTimeout() time.Duration
	GetRequestTimeout() time.Duration
}

type Client struct {
	values overrides
}

var _ ClientConfig = Client{}

// GetAuthTimeout bounds login, refresh and logout round trips
func (c Client) GetAuthTimeout() time.Duration {
	return c.duration(authTimeoutVar, 10*time.Second)
}

func (c Client) GetRequestTimeout() time.Duration {
	return c.duration(requestTimeoutVar, 30*time.Second)
}

func (c Client) duration(name string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(c.values.get(name, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
