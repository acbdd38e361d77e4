package testutil

import (
	"fmt"

	"github.com/arthur-debert/envsync/pkg/errors"
)

// Event is one recorded reporter call.
type Event struct {
	Kind   string
	Name   string
	Dest   string
	Reason string
	Err    error
}

func (e Event) String() string {
	switch e.Kind {
	case "failed":
		return fmt.Sprintf("failed: %s", errors.Describe(e.Err))
	case "skipped":
		return fmt.Sprintf("skipped %s: %s", e.Name, e.Reason)
	default:
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.Name, e.Dest)
	}
}

// Recorder implements report.Reporter and keeps every event in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Creating(name, dest string) {
	r.Events = append(r.Events, Event{Kind: "creating", Name: name, Dest: dest})
}

func (r *Recorder) Overwriting(name, dest string) {
	r.Events = append(r.Events, Event{Kind: "overwriting", Name: name, Dest: dest})
}

func (r *Recorder) Skipped(name, dest, reason string) {
	r.Events = append(r.Events, Event{Kind: "skipped", Name: name, Dest: dest, Reason: reason})
}

func (r *Recorder) Failed(err error) {
	r.Events = append(r.Events, Event{Kind: "failed", Err: err})
}

func (r *Recorder) Setting(key, value string) {
	r.Events = append(r.Events, Event{Kind: "setting", Name: key, Dest: value})
}

// Kinds lists the recorded event kinds in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Failures returns the errors passed to Failed.
func (r *Recorder) Failures() []error {
	var errs []error
	for _, e := range r.Events {
		if e.Kind == "failed" {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
