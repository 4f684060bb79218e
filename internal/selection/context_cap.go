package selection

import (
	"context"
	"strconv"
)

// DefaultContextRecords is how many records are sent to the model by default.
const DefaultContextRecords = 3

type contextCapStep struct {
	limit    int
	disabled bool
	reason   string
}

// NewContextCap keeps only the first limit records. A non-positive limit
// falls back to DefaultContextRecords.
func NewContextCap(limit int) Step {
	if limit <= 0 {
		limit = DefaultContextRecords
	}
	return &contextCapStep{limit: limit}
}

func (f *contextCapStep) Name() string { return "context_cap" }

func (f *contextCapStep) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *contextCapStep) IsEnabled() bool { return !f.disabled }

func (f *contextCapStep) Apply(_ context.Context, _ Deps, s *Selection) (Stats, error) {
	initial := s.Len()
	if initial > f.limit {
		s.Records = s.Records[:f.limit]
		s.Scores = s.Scores[:f.limit]
	}
	return Stats{Initial: initial, Dropped: initial - s.Len(), Left: s.Len()}, nil
}

func (f *contextCapStep) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}
