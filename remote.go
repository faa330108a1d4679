package remote

import (
	"github.com/goliatone/go-remote/core"
	"github.com/goliatone/go-remote/transport"
)

type Config = core.Config

type TransportConfig = core.TransportConfig

type Option = core.Option

type Dispatcher = core.Dispatcher

type DispatcherDependencies = core.DispatcherDependencies

type Configuration = core.Configuration

type Verb = core.Verb
type VerbSpec = core.VerbSpec
type Object = core.Object
type Request = core.Request
type Result = core.Result
type Notification = core.Notification
type Observer = core.Observer
type ObserverFunc = core.ObserverFunc
type BuildOption = core.BuildOption

const (
	VerbSaveNew    = core.VerbSaveNew
	VerbSaveUpdate = core.VerbSaveUpdate
	VerbBulkUpdate = core.VerbBulkUpdate
	VerbSearch     = core.VerbSearch
	VerbFetch      = core.VerbFetch
	VerbDelete     = core.VerbDelete
	VerbLogin      = core.VerbLogin
	VerbLogout     = core.VerbLogout
	VerbHydrate    = core.VerbHydrate
)

var (
	WithLogger           = core.WithLogger
	WithLoggerProvider   = core.WithLoggerProvider
	WithMetricsRecorder  = core.WithMetricsRecorder
	WithConfigProvider   = core.WithConfigProvider
	WithOptionsResolver  = core.WithOptionsResolver
	WithConfiguration    = core.WithConfiguration
	WithTransport        = core.WithTransport
	WithTransportFactory = core.WithTransportFactory
	WithObserver         = core.WithObserver
	WithIDGenerator      = core.WithIDGenerator
	WithClock            = core.WithClock
	WithBody             = core.WithBody
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewConfiguration() *Configuration {
	return core.NewConfiguration()
}

// NewDispatcher builds a dispatcher whose transport comes from the default
// registry keyed by transport.kind, unless an option supplies one.
func NewDispatcher(cfg Config, opts ...Option) (*Dispatcher, error) {
	base := []Option{core.WithTransportFactory(transport.NewDefaultRegistry().Factory())}
	return core.NewDispatcher(cfg, append(base, opts...)...)
}

// Setup applies the extension hooks to a fresh configuration and transport
// registry, then builds the dispatcher and its facade. Options run after the
// hook wiring and may replace it.
func Setup(cfg Config, hooks *ExtensionHooks, opts ...Option) (*Facade, error) {
	configuration := core.NewConfiguration()
	if err := hooks.ApplyVerbPacks(configuration); err != nil {
		return nil, err
	}
	registry := transport.NewDefaultRegistry()
	if err := hooks.ApplyTransportPacks(registry); err != nil {
		return nil, err
	}

	base := []Option{
		core.WithConfiguration(configuration),
		core.WithTransportFactory(registry.Factory()),
	}
	dispatcher, err := core.NewDispatcher(cfg, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return NewFacade(dispatcher)
}
