package core

import "time"

type NotificationStatus string

const (
	NotificationStart   NotificationStatus = "start"
	NotificationSuccess NotificationStatus = "success"
	NotificationError   NotificationStatus = "error"
)

// Notification is the only externally observable output of a dispatch. Status
// discriminates the three shapes: start carries no payload, success carries
// Data and error carries Err.
type Notification struct {
	Type       string
	Status     NotificationStatus
	DispatchID string
	Verb       Verb
	Method     string
	URL        string
	Object     Object
	Data       any
	Err        error
	StatusCode int
	At         time.Time
}

func (n Notification) IsTerminal() bool {
	return n.Status == NotificationSuccess || n.Status == NotificationError
}

type ResultStatus string

const (
	ResultSkipped   ResultStatus = "skipped"
	ResultSucceeded ResultStatus = "succeeded"
	ResultFailed    ResultStatus = "failed"
)

// Result summarises a dispatch for the caller. Observers receive the same
// information through notifications.
type Result struct {
	DispatchID string
	Status     ResultStatus
	StatusCode int
	Data       any
	Err        error
}

func (r Result) Skipped() bool {
	return r.Status == ResultSkipped
}
