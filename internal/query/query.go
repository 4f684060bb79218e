// Package query describes what a user asked for and extracts it from free text.
package query

import "strconv"

// Intent is the kind of information a question is after. It is metadata only
// and never filters records.
type Intent string

const (
	IntentSalary         Intent = "salary"
	IntentDuties         Intent = "duties"
	IntentQualifications Intent = "qualifications"
	IntentRequirements   Intent = "requirements"
	IntentGeneral        Intent = "general"
)

// ParseIntent maps s onto a known intent, defaulting to IntentGeneral.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentSalary, IntentDuties, IntentQualifications, IntentRequirements:
		return Intent(s)
	default:
		return IntentGeneral
	}
}

// Query is the structured form of one user turn. Nil fields were not asked for.
type Query struct {
	// Jurisdiction is free text or a canonical code.
	Jurisdiction *string
	JobTitle     *string
	JobCode      *int
	Intent       Intent
}

// IsEmpty reports whether the query carries nothing the scorer can use.
func (q Query) IsEmpty() bool {
	return q.Jurisdiction == nil && q.JobTitle == nil && q.JobCode == nil
}

func (q Query) JurisdictionText() string {
	if q.Jurisdiction == nil {
		return ""
	}
	return *q.Jurisdiction
}

func (q Query) JobTitleText() string {
	if q.JobTitle == nil {
		return ""
	}
	return *q.JobTitle
}

func (q Query) JobCodeText() string {
	if q.JobCode == nil {
		return ""
	}
	return strconv.Itoa(*q.JobCode)
}

// Text and Code build optional query fields.
func Text(s string) *string { return &s }

func Code(c int) *int { return &c }
