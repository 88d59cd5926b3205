package config

import (
	"strconv"
	"time"
)

type HTTPConfig interface {
	GetRequestTimeout() time.Duration
}

type HTTP struct{}

var _ HTTPConfig = HTTP{}

func (HTTP) GetRequestTimeout() time.Duration {
	if v := GetEnv("REQUEST_TIMEOUT_SECONDS", ""); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 10 * time.Second
}
