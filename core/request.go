package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

// Request is the descriptor of a single outbound call. It is built fresh for
// every invocation and consumed by the dispatcher.
type Request struct {
	DispatchID string
	URL        string
	Method     string
	Verb       Verb
	Object     Object
	Payload    any
	Body       []byte
}

func (r Request) HasBody() bool {
	return r.Body != nil
}

type buildOptions struct {
	payload    any
	payloadSet bool
}

type BuildOption func(*buildOptions)

// WithBody replaces the payload the object would produce for the verb.
func WithBody(payload any) BuildOption {
	return func(o *buildOptions) {
		o.payload = payload
		o.payloadSet = true
	}
}

type Builder struct {
	configuration *Configuration
	baseURL       string
}

// NewBuilder uses baseURL when the configuration has no fetch url hook.
func NewBuilder(configuration *Configuration, baseURL string) *Builder {
	if configuration == nil {
		configuration = NewConfiguration()
	}
	return &Builder{
		configuration: configuration,
		baseURL:       strings.TrimSpace(baseURL),
	}
}

func (b *Builder) Configuration() *Configuration {
	if b == nil {
		return nil
	}
	return b.configuration
}

// Build validates the object, attaches the JSON body for mutating methods and
// resolves the target address. Address hook failures are returned together
// with the partially built request so the dispatcher can report them.
func (b *Builder) Build(obj Object, method string, verb Verb, options ...BuildOption) (Request, error) {
	if b == nil || b.configuration == nil {
		return Request{}, newInternalError("core: request builder is not configured")
	}
	if isNilObject(obj) {
		return Request{}, newBadInputError("core: target object is required")
	}
	method = strings.TrimSpace(strings.ToUpper(method))
	if method == "" {
		return Request{}, newBadInputError("core: http method is required")
	}
	verb = normalizeVerb(verb)
	if verb == "" {
		return Request{}, newBadInputError("core: verb is required")
	}

	if validator, ok := obj.(ActionValidator); ok && !validator.ValidateAction(verb) {
		return Request{}, validationFailedError(verb, entityName(obj))
	}

	opts := buildOptions{}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}

	req := Request{
		Method: method,
		Verb:   verb,
		Object: obj,
	}

	payload, err := b.resolvePayload(obj, method, verb, opts)
	if err != nil {
		return Request{}, err
	}
	if payload != nil {
		if isReadMethod(method) {
			return Request{}, malformedRequestError(
				fmt.Sprintf("core: %s request must not carry a body", method),
				nil,
				map[string]any{"method": method, "verb": string(verb)},
			)
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return Request{}, malformedRequestError(
				"core: encode request body",
				err,
				map[string]any{"method": method, "verb": string(verb)},
			)
		}
		req.Payload = payload
		req.Body = body
	}

	address, err := b.resolveAddress(obj, verb)
	if err != nil {
		return req, err
	}
	req.URL = address
	return req, nil
}

func (b *Builder) resolvePayload(obj Object, method string, verb Verb, opts buildOptions) (any, error) {
	if opts.payloadSet {
		return opts.payload, nil
	}
	if isReadMethod(method) {
		return nil, nil
	}
	payload, err := obj.FetchPayload(verb)
	if err != nil {
		return nil, malformedRequestError(
			"core: object payload failed",
			err,
			map[string]any{"method": method, "verb": string(verb)},
		)
	}
	return payload, nil
}

func (b *Builder) resolveAddress(obj Object, verb Verb) (address string, err error) {
	defer recoverHook("address", &err)

	base := b.fetchURL()
	if hook := b.configuration.apiPath; hook != nil {
		path, hookErr := hook(verb, obj)
		if hookErr != nil {
			return "", hookFailureError("api path", hookErr)
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return "", hookFailureError("api path", fmt.Errorf("empty address for verb %s", verb))
		}
		if isAbsoluteURL(path) {
			return path, nil
		}
		if base == "" {
			return "", hookFailureError("fetch url", fmt.Errorf("base address is empty"))
		}
		return joinURL(base, path), nil
	}

	if base == "" {
		return "", hookFailureError("fetch url", fmt.Errorf("base address is empty"))
	}
	collection := strings.Trim(b.collectionPath(obj), "/")
	if collection == "" {
		return "", hookFailureError("collection api path", fmt.Errorf("empty collection path for %s", entityName(obj)))
	}
	if b.configuration.IsCollectionVerb(verb) {
		return joinURL(base, collection), nil
	}
	id := strings.TrimSpace(obj.ID())
	if id == "" {
		return "", missingResourceIDError(entityName(obj), verb)
	}
	return joinURL(base, collection, url.PathEscape(id)), nil
}

func (b *Builder) fetchURL() string {
	if hook := b.configuration.fetchURL; hook != nil {
		return strings.TrimSpace(hook())
	}
	if b.baseURL != "" {
		return b.baseURL
	}
	return EnvFetchURL()
}

func (b *Builder) collectionPath(obj Object) string {
	if pather, ok := obj.(APIBasePather); ok {
		if path := strings.TrimSpace(pather.APIBasePath()); path != "" {
			return path
		}
	}
	return b.configuration.collectionAPIPath(entityName(obj))
}

// EntityName is the class name of an object: EntityName when implemented,
// otherwise the lower-cased Go type name.
func EntityName(obj Object) string {
	if isNilObject(obj) {
		return ""
	}
	return entityName(obj)
}

// ObjectKey identifies an object across dispatches as <entity>/<id>.
func ObjectKey(obj Object) string {
	if isNilObject(obj) {
		return ""
	}
	return entityName(obj) + "/" + strings.TrimSpace(obj.ID())
}

func entityName(obj Object) string {
	if namer, ok := obj.(Namer); ok {
		if name := strings.TrimSpace(namer.EntityName()); name != "" {
			return name
		}
	}
	typ := reflect.TypeOf(obj)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil {
		return ""
	}
	return strings.ToLower(typ.Name())
}

func isNilObject(obj Object) bool {
	if obj == nil {
		return true
	}
	value := reflect.ValueOf(obj)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func joinURL(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, segment := range segments {
		segment = strings.Trim(segment, "/")
		if segment == "" {
			continue
		}
		out += "/" + segment
	}
	return out
}
