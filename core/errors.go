package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorValidationFailed    = "REMOTE_VALIDATION_FAILED"
	ErrorMalformedRequest    = "REMOTE_MALFORMED_REQUEST"
	ErrorTransportFailure    = "REMOTE_TRANSPORT_FAILURE"
	ErrorResponseFailure     = "REMOTE_RESPONSE_FAILURE"
	ErrorHookFailure         = "REMOTE_HOOK_FAILURE"
	ErrorConfigurationSealed = "REMOTE_CONFIGURATION_SEALED"
	ErrorBadInput            = "REMOTE_BAD_INPUT"
	ErrorInternal            = "REMOTE_INTERNAL_ERROR"
)

var ErrConfigurationSealed = errors.New("core: configuration is sealed")

func remoteError(
	message string,
	category goerrors.Category,
	textCode string,
	code int,
	cause error,
	metadata map[string]any,
) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if cause != nil {
		err.Source = cause
	}
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func newBadInputError(message string) error {
	return remoteError(message, goerrors.CategoryBadInput, ErrorBadInput, http.StatusBadRequest, nil, nil)
}

func newInternalError(message string) error {
	return remoteError(message, goerrors.CategoryInternal, ErrorInternal, http.StatusInternalServerError, nil, nil)
}

func sealedConfigurationError(setting string) error {
	return remoteError(
		fmt.Sprintf("core: cannot change %s after the configuration is sealed", setting),
		goerrors.CategoryConflict,
		ErrorConfigurationSealed,
		http.StatusConflict,
		ErrConfigurationSealed,
		map[string]any{"setting": setting},
	)
}

func validationFailedError(verb Verb, entity string) error {
	return goerrors.NewValidation("core: validation failed", goerrors.FieldError{
		Field:   "verb",
		Message: fmt.Sprintf("%s rejected verb %s", entity, verb),
		Value:   string(verb),
	}).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(ErrorValidationFailed).
		WithMetadata(map[string]any{"verb": string(verb), "entity": entity})
}

func malformedRequestError(message string, cause error, metadata map[string]any) error {
	return remoteError(message, goerrors.CategoryBadInput, ErrorMalformedRequest, http.StatusBadRequest, cause, metadata)
}

// missingResourceIDError reports a resource-scoped verb on an object without
// an id. No caller hook ran, so the metadata names the address step and
// carries hook_invoked=false.
func missingResourceIDError(entity string, verb Verb) error {
	return remoteError(
		fmt.Sprintf("core: resolve address: %s has no id for verb %s", entity, verb),
		goerrors.CategoryOperation,
		ErrorHookFailure,
		http.StatusInternalServerError,
		nil,
		map[string]any{
			"hook":         "resource id",
			"hook_invoked": false,
			"entity":       entity,
			"verb":         string(verb),
		},
	)
}

func hookFailureError(hook string, cause error) error {
	message := fmt.Sprintf("core: %s hook failed", hook)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return remoteError(
		message,
		goerrors.CategoryOperation,
		ErrorHookFailure,
		http.StatusInternalServerError,
		cause,
		map[string]any{"hook": hook},
	)
}

func transportFailureError(method string, url string, cause error) error {
	message := "core: transport request failed"
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return remoteError(
		message,
		goerrors.CategoryExternal,
		ErrorTransportFailure,
		http.StatusBadGateway,
		cause,
		map[string]any{"method": method, "url": url},
	)
}

// responseFailureError carries the response text as its message.
func responseFailureError(response TransportResponse, method string, url string) error {
	text := strings.TrimSpace(string(response.Body))
	if text == "" {
		text = http.StatusText(response.StatusCode)
	}
	if text == "" {
		text = fmt.Sprintf("unexpected status %d", response.StatusCode)
	}
	return remoteError(
		text,
		responseCategory(response.StatusCode),
		ErrorResponseFailure,
		response.StatusCode,
		nil,
		map[string]any{"status_code": response.StatusCode, "method": method, "url": url},
	)
}

func decodeFailureError(response TransportResponse, cause error) error {
	return remoteError(
		"core: decode response body",
		goerrors.CategoryExternal,
		ErrorResponseFailure,
		http.StatusBadGateway,
		cause,
		map[string]any{"status_code": response.StatusCode},
	)
}

func responseCategory(statusCode int) goerrors.Category {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return goerrors.CategoryBadInput
	case http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case http.StatusForbidden:
		return goerrors.CategoryAuthz
	case http.StatusNotFound:
		return goerrors.CategoryNotFound
	case http.StatusConflict:
		return goerrors.CategoryConflict
	case http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	default:
		return goerrors.CategoryExternal
	}
}

// ErrorKindOf returns the text code of a pipeline error, or "" when err does
// not carry a go-errors envelope.
func ErrorKindOf(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ""
	}
	return rich.TextCode
}

func IsValidationFailed(err error) bool { return ErrorKindOf(err) == ErrorValidationFailed }

func IsMalformedRequest(err error) bool { return ErrorKindOf(err) == ErrorMalformedRequest }

func IsTransportFailure(err error) bool { return ErrorKindOf(err) == ErrorTransportFailure }

func IsResponseFailure(err error) bool { return ErrorKindOf(err) == ErrorResponseFailure }

func IsHookFailure(err error) bool { return ErrorKindOf(err) == ErrorHookFailure }

// isBuildError reports errors that must reach the caller synchronously.
func isBuildError(err error) bool {
	switch ErrorKindOf(err) {
	case ErrorHookFailure:
		return false
	default:
		return err != nil
	}
}

func recoverHook(hook string, err *error) {
	if recovered := recover(); recovered != nil {
		cause, ok := recovered.(error)
		if !ok {
			cause = fmt.Errorf("%v", recovered)
		}
		*err = hookFailureError(hook, cause)
	}
}
