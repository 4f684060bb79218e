package relevance

import (
	"strings"

	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/query"
)

const (
	// ExactCodeBonus outweighs every combination of similarity contributions.
	ExactCodeBonus = 10.0
	// JurisdictionGate is the minimum jurisdiction similarity a record needs to stay eligible.
	JurisdictionGate = 0.5

	titleWeight          = 1.5
	roleDefinitionWeight = 1.0
	exampleDutiesWeight  = 0.8
)

// Score computes the relevance of rec for q. When ok is false the record is
// excluded outright because its jurisdiction does not match the requested one.
func Score(rec *catalog.Record, q query.Query) (score float64, ok bool) {
	if q.JobCode != nil && *q.JobCode == rec.JobCode {
		score += ExactCodeBonus
	}

	if q.Jurisdiction != nil {
		sim := Similarity(rec.Jurisdiction, *q.Jurisdiction)
		if sim < JurisdictionGate {
			return 0, false
		}
		score += sim
	}

	if q.JobTitle != nil {
		title := *q.JobTitle
		if rec.Title != nil {
			score += Similarity(*rec.Title, title) * titleWeight
		}
		if rec.RoleDefinition != nil {
			score += Similarity(*rec.RoleDefinition, title) * roleDefinitionWeight
		}
		if rec.ExampleDuties != nil {
			score += Similarity(strings.Join(rec.ExampleDuties, " "), title) * exampleDutiesWeight
		}
	}

	return score, true
}
