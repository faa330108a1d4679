package transport

import (
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-remote/core"
)

// RESTConfig is the factory configuration accepted by the rest kind. Keys
// follow the dispatcher transport config. Default headers belong to the
// dispatcher, which composes them before the adapter runs.
type RESTConfig struct {
	TimeoutMS            int   `mapstructure:"timeout_ms"`
	MaxResponseBodyBytes int64 `mapstructure:"max_response_body_bytes"`
}

func (c *RESTConfig) Decode(value any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(value)
}

// NewRESTAdapterFromConfig builds a REST adapter with its own http client.
func NewRESTAdapterFromConfig(config map[string]any) (core.TransportAdapter, error) {
	cfg := RESTConfig{}
	if err := cfg.Decode(config); err != nil {
		return nil, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: decode rest adapter config",
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST},
		)
	}
	if cfg.TimeoutMS < 0 || cfg.MaxResponseBodyBytes < 0 {
		return nil, transportError(
			"transport: rest adapter limits must not be negative",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"adapter": KindREST},
		)
	}

	timeout := defaultRESTClientTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	adapter := NewRESTAdapter(&http.Client{Timeout: timeout})
	if cfg.MaxResponseBodyBytes > 0 {
		adapter.MaxResponseBodyBytes = cfg.MaxResponseBodyBytes
	}
	return adapter, nil
}
