package selection

import (
	"context"

	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/query"
)

type salaryFirstStep struct {
	disabled bool
	reason   string
}

// NewSalaryFirst moves records that carry salary figures ahead of those that
// do not when the question is about pay. Relative order is otherwise kept.
func NewSalaryFirst() Step {
	return &salaryFirstStep{}
}

func (f *salaryFirstStep) Name() string { return "salary_first" }

func (f *salaryFirstStep) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *salaryFirstStep) IsEnabled() bool { return !f.disabled }

func (f *salaryFirstStep) Apply(_ context.Context, _ Deps, s *Selection) (Stats, error) {
	initial := s.Len()
	if s.Query.Intent != query.IntentSalary {
		return Stats{Initial: initial, Left: initial}, nil
	}

	records := make([]catalog.Record, 0, initial)
	scores := make([]float64, 0, initial)
	for _, withSalary := range []bool{true, false} {
		for i := range s.Records {
			if s.Records[i].HasSalaryInfo() == withSalary {
				records = append(records, s.Records[i])
				scores = append(scores, s.Scores[i])
			}
		}
	}
	s.Records, s.Scores = records, scores

	return Stats{Initial: initial, Left: s.Len()}, nil
}

func (f *salaryFirstStep) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
