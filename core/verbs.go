package core

import (
	"sort"
	"strings"
)

// Verb names the semantic intent of a call, independent of the HTTP method.
type Verb string

const (
	VerbSaveNew    Verb = "SAVE_NEW"
	VerbSaveUpdate Verb = "SAVE_UPDATE"
	VerbBulkUpdate Verb = "BULK_UPDATE"
	VerbSearch     Verb = "SEARCH"
	VerbFetch      Verb = "FETCH"
	VerbDelete     Verb = "DELETE"
	VerbLogin      Verb = "LOGIN"
	VerbLogout     Verb = "LOGOUT"
	VerbHydrate    Verb = "HYDRATE"
)

func (v Verb) String() string { return string(v) }

type VerbScope string

const (
	// VerbScopeResource addresses <base>/<collection>/<id>.
	VerbScopeResource VerbScope = "resource"
	// VerbScopeCollection addresses <base>/<collection>.
	VerbScopeCollection VerbScope = "collection"
)

type VerbSpec struct {
	Scope VerbScope
	// Global verbs apply to application state rather than a single entity.
	Global bool
}

func DefaultVerbs() map[Verb]VerbSpec {
	return map[Verb]VerbSpec{
		VerbSaveNew:    {Scope: VerbScopeCollection},
		VerbSaveUpdate: {Scope: VerbScopeResource},
		VerbBulkUpdate: {Scope: VerbScopeCollection},
		VerbSearch:     {Scope: VerbScopeCollection},
		VerbFetch:      {Scope: VerbScopeResource},
		VerbDelete:     {Scope: VerbScopeResource},
		VerbLogin:      {Scope: VerbScopeResource, Global: true},
		VerbLogout:     {Scope: VerbScopeResource, Global: true},
		VerbHydrate:    {Scope: VerbScopeResource, Global: true},
	}
}

func normalizeVerb(verb Verb) Verb {
	return Verb(strings.TrimSpace(string(verb)))
}

func normalizeVerbSpec(spec VerbSpec) VerbSpec {
	switch VerbScope(strings.TrimSpace(strings.ToLower(string(spec.Scope)))) {
	case VerbScopeCollection:
		spec.Scope = VerbScopeCollection
	default:
		spec.Scope = VerbScopeResource
	}
	return spec
}

func sortedVerbs(table map[Verb]VerbSpec) []Verb {
	verbs := make([]Verb, 0, len(table))
	for verb := range table {
		verbs = append(verbs, verb)
	}
	sort.Slice(verbs, func(i, j int) bool { return verbs[i] < verbs[j] })
	return verbs
}
