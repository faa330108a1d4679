package observer

import "github.com/goliatone/go-remote/core"

// Tracked wraps an object so that IsFetching consults a tracker instead of
// the object itself. Optional object capabilities are forwarded.
type Tracked struct {
	core.Object
	tracker *InFlightTracker
}

func Track(obj core.Object, tracker *InFlightTracker) *Tracked {
	return &Tracked{Object: obj, tracker: tracker}
}

func (t *Tracked) Unwrap() core.Object {
	if t == nil {
		return nil
	}
	return t.Object
}

func (t *Tracked) IsFetching() bool {
	if t.tracker != nil && t.tracker.IsFetching(t.Object) {
		return true
	}
	return t.Object.IsFetching()
}

func (t *Tracked) EntityName() string {
	return core.EntityName(t.Object)
}

func (t *Tracked) ValidateAction(verb core.Verb) bool {
	if validator, ok := t.Object.(core.ActionValidator); ok {
		return validator.ValidateAction(verb)
	}
	return true
}

func (t *Tracked) APIBasePath() string {
	if pather, ok := t.Object.(core.APIBasePather); ok {
		return pather.APIBasePath()
	}
	return ""
}

func (t *Tracked) IsValid() bool {
	if validatable, ok := t.Object.(core.Validatable); ok {
		return validatable.IsValid()
	}
	return true
}

var (
	_ core.Object          = (*Tracked)(nil)
	_ core.Namer           = (*Tracked)(nil)
	_ core.ActionValidator = (*Tracked)(nil)
	_ core.APIBasePather   = (*Tracked)(nil)
)
