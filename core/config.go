package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultServiceName          = "remote"
	defaultTransportKind        = "rest"
	defaultTransportTimeoutMS   = 30000
	defaultResponseBodyLimit    = int64(10 << 20)
	defaultContentType          = "application/json"
	headerContentType           = "Content-Type"
	notificationTypeAsync       = "async"
	defaultDispatcherLoggerName = "remote"
)

type TransportConfig struct {
	Kind                 string `koanf:"kind" mapstructure:"kind"`
	TimeoutMS            int    `koanf:"timeout_ms" mapstructure:"timeout_ms"`
	MaxResponseBodyBytes int64  `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
}

func (c TransportConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

type Config struct {
	ServiceName    string            `koanf:"service_name" mapstructure:"service_name"`
	BaseURL        string            `koanf:"base_url" mapstructure:"base_url"`
	DefaultHeaders map[string]string `koanf:"default_headers" mapstructure:"default_headers"`
	Transport      TransportConfig   `koanf:"transport" mapstructure:"transport"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    defaultServiceName,
		DefaultHeaders: map[string]string{},
		Transport: TransportConfig{
			Kind:                 defaultTransportKind,
			TimeoutMS:            defaultTransportTimeoutMS,
			MaxResponseBodyBytes: defaultResponseBodyLimit,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Transport.Kind) == "" {
		return fmt.Errorf("core: transport.kind is required")
	}
	if c.Transport.TimeoutMS < 0 {
		return fmt.Errorf("core: transport.timeout_ms must not be negative")
	}
	if c.Transport.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: transport.max_response_body_bytes must not be negative")
	}
	if baseURL := strings.TrimSpace(c.BaseURL); baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("core: base_url is invalid: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("core: base_url must be an absolute url, got %q", baseURL)
		}
	}
	for key := range c.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("core: default_headers contains an empty header name")
		}
	}
	return nil
}
