package synchronizer

import "fmt"

// Outcome is what happened to a single link.
type Outcome int

const (
	// Created means dest did not exist and now links to src.
	Created Outcome = iota
	// Replaced means an existing dest was removed by force and relinked.
	Replaced
	// Skipped means dest existed and was left alone.
	Skipped
	// Failed means the link could not be applied.
	Failed
	// Disabled means the spec was not enabled; nothing was touched.
	Disabled
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Replaced:
		return "replaced"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Created  int
	Replaced int
	Skipped  int
	Failed   int
	Disabled int
}

// Add counts one outcome.
func (s *Summary) Add(o Outcome) {
	switch o {
	case Created:
		s.Created++
	case Replaced:
		s.Replaced++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	case Disabled:
		s.Disabled++
	}
}

// Merge adds other's counters to s.
func (s *Summary) Merge(other Summary) {
	s.Created += other.Created
	s.Replaced += other.Replaced
	s.Skipped += other.Skipped
	s.Failed += other.Failed
	s.Disabled += other.Disabled
}

// Total is the number of entries counted.
func (s Summary) Total() int {
	return s.Created + s.Replaced + s.Skipped + s.Failed + s.Disabled
}

// Changed is the number of entries that modified the filesystem.
func (s Summary) Changed() int {
	return s.Created + s.Replaced
}

func (s Summary) String() string {
	return fmt.Sprintf("%d created, %d replaced, %d skipped, %d failed, %d disabled",
		s.Created, s.Replaced, s.Skipped, s.Failed, s.Disabled)
}

// Fields returns the counters keyed by outcome name, the shape scripts see.
func (s Summary) Fields() map[string]int {
	return map[string]int{
		Created.String():  s.Created,
		Replaced.String(): s.Replaced,
		Skipped.String():  s.Skipped,
		Failed.String():   s.Failed,
		Disabled.String(): s.Disabled,
	}
}
