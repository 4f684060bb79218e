// Package selection narrows a ranked search result down to what is worth
// sending to the model.
package selection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/query"
	"github.com/spigell/govjobs/internal/relevance"
)

// Step represents a single narrowing step applied to the selection.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, s *Selection) (Stats, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger *zap.Logger
}

// Selection is the working set: ranked records with their scores.
type Selection struct {
	Query   query.Query
	Records []catalog.Record
	Scores  []float64
	// Matched is the engine's match count before any step ran.
	Matched int
}

// FromResult copies a search result into a new selection.
func FromResult(r relevance.SearchResult) *Selection {
	return &Selection{
		Query:   r.Query,
		Records: append([]catalog.Record(nil), r.Records...),
		Scores:  append([]float64(nil), r.Scores...),
		Matched: r.Count,
	}
}

func (s *Selection) Len() int {
	return len(s.Records)
}

// Stats describes the result of executing a step.
type Stats struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Run executes the supplied steps sequentially.
func Run(ctx context.Context, deps Deps, steps []Step, s *Selection) (*Selection, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("selection step disabled", zap.String("name", step.Name()))
			continue
		}

		info, err := step.Apply(ctx, deps, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("selection step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}

	return s, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
