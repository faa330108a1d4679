package core

import (
	"net/http"
	"os"
	"strings"
	"sync/atomic"
)

type FetchURLFunc func() string

type HeadersFunc func(verb Verb, headers http.Header) (http.Header, error)

type ResponseFunc func(response TransportResponse) (TransportResponse, error)

type CollectionPathFunc func(className string) string

type APIPathFunc func(verb Verb, obj Object) (string, error)

// Configuration holds the hooks and verb table read by every dispatch. It is
// mutable until the first dispatcher is built with it; after that every
// setter fails with ErrConfigurationSealed.
type Configuration struct {
	fetchURL           FetchURLFunc
	applyHeaders       HeadersFunc
	preProcessResponse ResponseFunc
	collectionAPIPath  CollectionPathFunc
	apiPath            APIPathFunc
	verbs              map[Verb]VerbSpec
	sealed             atomic.Bool
}

func NewConfiguration() *Configuration {
	return &Configuration{
		applyHeaders:       identityHeaders,
		preProcessResponse: identityResponse,
		collectionAPIPath:  pluralCollectionPath,
		verbs:              DefaultVerbs(),
	}
}

// SetFetchURL overrides the base address. Passing nil restores the default,
// which is the dispatcher base_url or, read at build time, the API_PATH
// environment variable.
func (c *Configuration) SetFetchURL(fn FetchURLFunc) error {
	if err := c.checkMutable("fetch url"); err != nil {
		return err
	}
	c.fetchURL = fn
	return nil
}

// SetApplyHeaders installs the header composition hook, typically used for
// authentication headers. The hook must return the final header set.
func (c *Configuration) SetApplyHeaders(fn HeadersFunc) error {
	if err := c.checkMutable("apply headers"); err != nil {
		return err
	}
	if fn == nil {
		fn = identityHeaders
	}
	c.applyHeaders = fn
	return nil
}

// SetPreProcessResponse installs a hook that sees every response before it is
// classified. Returning an error aborts the dispatch with a hook failure.
func (c *Configuration) SetPreProcessResponse(fn ResponseFunc) error {
	if err := c.checkMutable("pre-process response"); err != nil {
		return err
	}
	if fn == nil {
		fn = identityResponse
	}
	c.preProcessResponse = fn
	return nil
}

func (c *Configuration) SetCollectionAPIPath(fn CollectionPathFunc) error {
	if err := c.checkMutable("collection api path"); err != nil {
		return err
	}
	if fn == nil {
		fn = pluralCollectionPath
	}
	c.collectionAPIPath = fn
	return nil
}

// SetAPIPath installs a per verb and object address override. When set it
// takes precedence over collection and resource addressing.
func (c *Configuration) SetAPIPath(fn APIPathFunc) error {
	if err := c.checkMutable("api path"); err != nil {
		return err
	}
	c.apiPath = fn
	return nil
}

func (c *Configuration) AddVerb(verb Verb, spec VerbSpec) error {
	if err := c.checkMutable("verb table"); err != nil {
		return err
	}
	verb = normalizeVerb(verb)
	if verb == "" {
		return newBadInputError("core: verb is required")
	}
	c.verbs[verb] = normalizeVerbSpec(spec)
	return nil
}

func (c *Configuration) VerbSpec(verb Verb) (VerbSpec, bool) {
	if c == nil {
		return VerbSpec{}, false
	}
	spec, ok := c.verbs[normalizeVerb(verb)]
	return spec, ok
}

func (c *Configuration) HasVerb(verb Verb) bool {
	_, ok := c.VerbSpec(verb)
	return ok
}

func (c *Configuration) IsGlobalVerb(verb Verb) bool {
	spec, _ := c.VerbSpec(verb)
	return spec.Global
}

func (c *Configuration) IsCollectionVerb(verb Verb) bool {
	spec, _ := c.VerbSpec(verb)
	return spec.Scope == VerbScopeCollection
}

func (c *Configuration) Verbs() []Verb {
	if c == nil {
		return []Verb{}
	}
	return sortedVerbs(c.verbs)
}

// ValidOperation rejects SAVE_NEW and SAVE_UPDATE for objects that report
// themselves invalid. Objects can call it from ValidateAction.
func (c *Configuration) ValidOperation(verb Verb, obj Object) bool {
	if obj == nil {
		return false
	}
	switch normalizeVerb(verb) {
	case VerbSaveNew, VerbSaveUpdate:
		if validatable, ok := obj.(Validatable); ok && !validatable.IsValid() {
			return false
		}
	}
	return true
}

func (c *Configuration) Seal() {
	if c == nil {
		return
	}
	c.sealed.Store(true)
}

func (c *Configuration) Sealed() bool {
	return c != nil && c.sealed.Load()
}

func (c *Configuration) checkMutable(setting string) error {
	if c == nil {
		return newInternalError("core: configuration is nil")
	}
	if c.sealed.Load() {
		return sealedConfigurationError(setting)
	}
	return nil
}

func identityHeaders(_ Verb, headers http.Header) (http.Header, error) {
	return headers, nil
}

func identityResponse(response TransportResponse) (TransportResponse, error) {
	return response, nil
}

func pluralCollectionPath(className string) string {
	return className + "s"
}

// EnvFetchURL reads the default base address from API_PATH, falling back to
// REACT_APP_API_PATH for deployments sharing an environment with a web client.
func EnvFetchURL() string {
	if value := strings.TrimSpace(os.Getenv("API_PATH")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("REACT_APP_API_PATH"))
}
