package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Dispatcher turns a verb applied to an object into one outbound call and a
// start/success/error notification sequence.
type Dispatcher struct {
	config          Config
	configuration   *Configuration
	builder         *Builder
	transport       TransportAdapter
	observer        Observer
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	idGenerator     IDGenerator
	clock           Clock
}

type DispatcherDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Configuration   *Configuration
	Transport       TransportAdapter
	Observer        Observer
}

func NewDispatcher(cfg Config, opts ...Option) (*Dispatcher, error) {
	builder := defaultDispatcherBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve(defaultDispatcherLoggerName, builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(defaultDispatcherLoggerName); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.idGenerator == nil {
		builder.idGenerator = newDispatchID
	}
	if builder.clock == nil {
		builder.clock = time.Now
	}
	if builder.observer == nil {
		builder.observer = ObserverFunc(func(context.Context, Notification) {})
	}
	if builder.configuration == nil {
		builder.configuration = NewConfiguration()
	}
	if builder.transport == nil && builder.transportFactory == nil {
		return nil, newInternalError("core: transport adapter is required")
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, configurationLoadError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, configurationLoadError(err)
	}

	if builder.transport == nil {
		adapter, err := builder.transportFactory(finalConfig)
		if err != nil {
			return nil, err
		}
		if adapter == nil {
			return nil, newInternalError("core: transport factory returned no adapter")
		}
		builder.transport = adapter
	}

	builder.configuration.Seal()

	return &Dispatcher{
		config:          finalConfig,
		configuration:   builder.configuration,
		builder:         NewBuilder(builder.configuration, finalConfig.BaseURL),
		transport:       builder.transport,
		observer:        builder.observer,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		idGenerator:     builder.idGenerator,
		clock:           builder.clock,
	}, nil
}

func configurationLoadError(err error) error {
	return remoteError(
		fmt.Sprintf("core: resolve configuration: %s", err.Error()),
		goerrors.CategoryBadInput,
		ErrorBadInput,
		http.StatusBadRequest,
		err,
		nil,
	)
}

func (d *Dispatcher) Config() Config {
	if d == nil {
		return Config{}
	}
	return d.config
}

func (d *Dispatcher) Configuration() *Configuration {
	if d == nil {
		return nil
	}
	return d.configuration
}

func (d *Dispatcher) Dependencies() DispatcherDependencies {
	if d == nil {
		return DispatcherDependencies{}
	}
	return DispatcherDependencies{
		Logger:          d.logger,
		LoggerProvider:  d.loggerProvider,
		MetricsRecorder: d.metricsRecorder,
		ConfigProvider:  d.configProvider,
		OptionsResolver: d.optionsResolver,
		Configuration:   d.configuration,
		Transport:       d.transport,
		Observer:        d.observer,
	}
}

// Preview builds the request descriptor without dispatching it.
func (d *Dispatcher) Preview(obj Object, method string, verb Verb, options ...BuildOption) (Request, error) {
	if d == nil {
		return Request{}, newInternalError("core: dispatcher is nil")
	}
	return d.builder.Build(obj, method, verb, options...)
}

// Execute builds and dispatches a request. Validation and malformed request
// errors are returned before any notification; every later failure is
// delivered as an error notification and reported in the Result.
func (d *Dispatcher) Execute(
	ctx context.Context,
	obj Object,
	method string,
	verb Verb,
	options ...BuildOption,
) (Result, error) {
	if d == nil {
		return Result{}, newInternalError("core: dispatcher is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := d.builder.Build(obj, method, verb, options...)
	if err != nil && isBuildError(err) {
		d.logWithLevel(ctx, "warn", "request build failed", map[string]any{
			"verb":   string(verb),
			"method": method,
			"error":  err.Error(),
		})
		return Result{}, err
	}
	return d.run(ctx, req, err, d.observer), nil
}

// Dispatch runs the pipeline for a request produced by Preview or Builder.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	if d == nil {
		return Result{}, newInternalError("core: dispatcher is nil")
	}
	if isNilObject(req.Object) {
		return Result{}, newBadInputError("core: request target object is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return d.run(ctx, req, nil, d.observer), nil
}

// Stream dispatches in a new goroutine. The returned channel receives the
// notifications of this dispatch and is closed after the terminal one, or
// right away when the object is already in flight.
func (d *Dispatcher) Stream(ctx context.Context, req Request) <-chan Notification {
	out := make(chan Notification, 2)
	if d == nil || isNilObject(req.Object) {
		close(out)
		return out
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		defer close(out)
		sink := ObserverFunc(func(ctx context.Context, notification Notification) {
			d.observer.Notify(ctx, notification)
			out <- notification
		})
		d.run(ctx, req, nil, sink)
	}()
	return out
}

// run drives one request through guard, start, call and terminal
// notification. pending carries an address failure from the build step.
func (d *Dispatcher) run(ctx context.Context, req Request, pending error, observer Observer) Result {
	if req.DispatchID == "" {
		req.DispatchID = d.idGenerator()
	}
	fields := requestFields(req)

	if req.Object.IsFetching() {
		d.logWithLevel(ctx, "debug", "dispatch skipped, request already in flight", fields)
		d.recordCounter(ctx, MetricDispatchTotal, 1, dispatchTags(req, string(ResultSkipped)))
		return Result{DispatchID: req.DispatchID, Status: ResultSkipped}
	}

	startedAt := d.clock()
	if pending == nil && strings.TrimSpace(req.URL) == "" {
		pending = hookFailureError("address", fmt.Errorf("request has no address"))
	}

	var headers http.Header
	if pending == nil {
		headers, pending = d.composeHeaders(req.Verb)
	}

	observer.Notify(ctx, d.notification(req, NotificationStart))

	if pending != nil {
		return d.fail(ctx, req, observer, startedAt, 0, pending)
	}

	response, err := d.transport.Do(ctx, TransportRequest{
		Method:               req.Method,
		URL:                  req.URL,
		Headers:              headers.Clone(),
		Body:                 req.Body,
		Timeout:              d.config.Transport.Timeout(),
		MaxResponseBodyBytes: d.config.Transport.MaxResponseBodyBytes,
		Metadata: map[string]any{
			"dispatch_id": req.DispatchID,
			"verb":        string(req.Verb),
		},
	})
	if err != nil {
		return d.fail(ctx, req, observer, startedAt, 0, transportFailureError(req.Method, req.URL, err))
	}

	processed, err := d.preProcess(response)
	if err != nil {
		return d.fail(ctx, req, observer, startedAt, response.StatusCode, err)
	}
	response = processed

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return d.fail(ctx, req, observer, startedAt, response.StatusCode, responseFailureError(response, req.Method, req.URL))
	}

	data, err := decodeResponse(req.Method, response)
	if err != nil {
		return d.fail(ctx, req, observer, startedAt, response.StatusCode, decodeFailureError(response, err))
	}

	notification := d.notification(req, NotificationSuccess)
	notification.Data = data
	notification.StatusCode = response.StatusCode
	observer.Notify(ctx, notification)

	result := Result{
		DispatchID: req.DispatchID,
		Status:     ResultSucceeded,
		StatusCode: response.StatusCode,
		Data:       data,
	}
	d.observeDispatch(ctx, req, startedAt, result)
	return result
}

func (d *Dispatcher) fail(
	ctx context.Context,
	req Request,
	observer Observer,
	startedAt time.Time,
	statusCode int,
	err error,
) Result {
	notification := d.notification(req, NotificationError)
	notification.Err = err
	notification.StatusCode = statusCode
	observer.Notify(ctx, notification)

	result := Result{
		DispatchID: req.DispatchID,
		Status:     ResultFailed,
		StatusCode: statusCode,
		Err:        err,
	}
	d.observeDispatch(ctx, req, startedAt, result)
	return result
}

func (d *Dispatcher) notification(req Request, status NotificationStatus) Notification {
	return Notification{
		Type:       notificationTypeAsync,
		Status:     status,
		DispatchID: req.DispatchID,
		Verb:       req.Verb,
		Method:     req.Method,
		URL:        req.URL,
		Object:     req.Object,
		At:         d.clock(),
	}
}

// composeHeaders applies the header hook to the JSON base header set.
func (d *Dispatcher) composeHeaders(verb Verb) (headers http.Header, err error) {
	defer recoverHook("apply headers", &err)

	base := http.Header{}
	base.Set(headerContentType, defaultContentType)
	for key, value := range d.config.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		base.Set(strings.TrimSpace(key), value)
	}

	headers, err = d.configuration.applyHeaders(verb, base)
	if err != nil {
		return nil, hookFailureError("apply headers", err)
	}
	if headers == nil {
		return nil, hookFailureError("apply headers", fmt.Errorf("hook returned no headers"))
	}
	return headers, nil
}

func (d *Dispatcher) preProcess(response TransportResponse) (processed TransportResponse, err error) {
	defer recoverHook("pre-process response", &err)

	processed, err = d.configuration.preProcessResponse(response)
	if err != nil {
		return response, hookFailureError("pre-process response", err)
	}
	return processed, nil
}

// decodeResponse skips DELETE responses, which carry no body by convention.
func decodeResponse(method string, response TransportResponse) (any, error) {
	if method == http.MethodDelete {
		return nil, nil
	}
	if len(bytes.TrimSpace(response.Body)) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(response.Body, &data); err != nil {
		return nil, err
	}
	return data, nil
}
