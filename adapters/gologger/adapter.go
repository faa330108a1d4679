package gologger

import (
	"strings"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-remote/core"
)

const DefaultLoggerName = "remote"

// Loggers is one resolved logger shared by a dispatcher and the go-job
// workers that run queued remote commands.
type Loggers struct {
	Provider    glog.LoggerProvider
	Logger      glog.Logger
	JobProvider job.LoggerProvider
	JobLogger   job.Logger
}

// Resolve uses deterministic precedence provider > logger > nop. A blank name
// falls back to DefaultLoggerName.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) Loggers {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultLoggerName
	}
	resolvedProvider, resolvedLogger := glog.Resolve(name, provider, logger)
	return Loggers{
		Provider:    resolvedProvider,
		Logger:      resolvedLogger,
		JobProvider: toJobProvider(resolvedProvider),
		JobLogger:   toJobLogger(resolvedLogger),
	}
}

// DispatcherOptions wires the resolved logger into a dispatcher.
func (l Loggers) DispatcherOptions() []core.Option {
	var opts []core.Option
	if l.Provider != nil {
		opts = append(opts, core.WithLoggerProvider(l.Provider))
	}
	if l.Logger != nil {
		opts = append(opts, core.WithLogger(l.Logger))
	}
	return opts
}

func toJobProvider(provider glog.LoggerProvider) job.LoggerProvider {
	if provider == nil {
		return nil
	}
	return job.GoLoggerProvider(provider)
}

func toJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}
