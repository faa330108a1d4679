package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

func (d *Dispatcher) observeDispatch(ctx context.Context, req Request, startedAt time.Time, result Result) {
	if d == nil {
		return
	}
	elapsed := d.clock().Sub(startedAt)
	fields := requestFields(req)
	fields["status"] = string(result.Status)
	fields["duration_ms"] = elapsed.Milliseconds()
	if result.StatusCode != 0 {
		fields["status_code"] = result.StatusCode
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
		fields["error_code"] = ErrorKindOf(result.Err)
	}

	tags := dispatchTags(req, string(result.Status))
	d.recordCounter(ctx, MetricDispatchTotal, 1, tags)
	d.recordHistogram(ctx, MetricDispatchDurationMS, float64(elapsed.Milliseconds()), tags)

	if result.Err != nil {
		d.logWithLevel(ctx, "error", "dispatch failed", fields)
		return
	}
	d.logWithLevel(ctx, "info", "dispatch succeeded", fields)
}

func (d *Dispatcher) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if d == nil || d.logger == nil {
		return
	}
	logger := d.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (d *Dispatcher) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if d == nil || d.metricsRecorder == nil {
		return
	}
	d.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (d *Dispatcher) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if d == nil || d.metricsRecorder == nil {
		return
	}
	d.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func requestFields(req Request) map[string]any {
	fields := map[string]any{
		"dispatch_id": req.DispatchID,
		"verb":        string(req.Verb),
		"method":      req.Method,
	}
	if req.URL != "" {
		fields["url"] = req.URL
	}
	if !isNilObject(req.Object) {
		fields["entity"] = entityName(req.Object)
	}
	return fields
}

func dispatchTags(req Request, status string) map[string]string {
	return map[string]string{
		"verb":   string(req.Verb),
		"method": req.Method,
		"status": status,
	}
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
