// Package catalog holds the job record catalog and the jurisdiction table and
// knows how to load both from their wire documents.
package catalog

import "strings"

// NumSalaryGrades is the number of salary grade columns a record may carry.
const NumSalaryGrades = 14

// Record is one job posting. Records are immutable once loaded; a nil pointer
// or nil slice means the field was absent in the source.
type Record struct {
	Jurisdiction string
	JobCode      int
	Title        *string

	SalaryGrades [NumSalaryGrades]*float64

	RoleDefinition *string
	ReportsTo      *string
	SupportedBy    *string
	ExampleDuties  []string

	EducationLevel            *string
	DegreeType                *string
	Certifications            []string
	RequiredExperience        *string
	YearsOfExperience         *int
	OtherRequirements         []string
	SpecialRequirements       []string
	CombinationOfRequirements []string

	WorkingConditions []string
	IsTravelRequired  *bool
	AuthorizingBody   *string
	LegalReferences   []string

	ExemptionStatus    *string
	ProbationaryPeriod *string

	IsDriverLicenseRequired       *bool
	IsBackgroundChecked           *bool
	IsPolygraphRequired           *bool
	IsMedicalExaminationRequired  *bool
	IsDrugTestRequired            *bool
	IsPhysicalExaminationRequired *bool
	IsMentalExaminationRequired   *bool
	HasDisqualifyingFactors       *bool
	DisqualifyingFactors          []string
	HasAccommodations             *bool
	Accommodations                []string
}

// SalaryRange returns the smallest and largest of the present salary grades.
// Both bounds are nil when no grade is present.
func (r *Record) SalaryRange() (lo, hi *float64) {
	for _, grade := range r.SalaryGrades {
		if grade == nil {
			continue
		}
		if lo == nil || *grade < *lo {
			v := *grade
			lo = &v
		}
		if hi == nil || *grade > *hi {
			v := *grade
			hi = &v
		}
	}
	return lo, hi
}

// HasSalaryInfo reports whether both salary bounds are present.
func (r *Record) HasSalaryInfo() bool {
	lo, hi := r.SalaryRange()
	return lo != nil && hi != nil
}

type check struct {
	label string
	flag  func(r *Record) *bool
}

var checks = []check{
	{"Driver License", func(r *Record) *bool { return r.IsDriverLicenseRequired }},
	{"Background Check", func(r *Record) *bool { return r.IsBackgroundChecked }},
	{"Polygraph", func(r *Record) *bool { return r.IsPolygraphRequired }},
	{"Medical Examination", func(r *Record) *bool { return r.IsMedicalExaminationRequired }},
	{"Drug Test", func(r *Record) *bool { return r.IsDrugTestRequired }},
	{"Physical Examination", func(r *Record) *bool { return r.IsPhysicalExaminationRequired }},
	{"Mental Examination", func(r *Record) *bool { return r.IsMentalExaminationRequired }},
}

// RequiredChecks lists the screening checks flagged as required, in a fixed order.
func (r *Record) RequiredChecks() []string {
	var out []string
	for _, c := range checks {
		if v := c.flag(r); v != nil && *v {
			out = append(out, c.label)
		}
	}
	return out
}

// TitleOr returns the title or fallback when the record has none.
func (r *Record) TitleOr(fallback string) string {
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return fallback
	}
	return *r.Title
}

// Records is the loaded catalog in source order.
type Records struct {
	Items []Record
}

func (c *Records) Len() int {
	return len(c.Items)
}

// Find returns the record identified by (jurisdiction, jobCode) or nil.
func (c *Records) Find(jurisdiction string, jobCode int) *Record {
	for i := range c.Items {
		if c.Items[i].JobCode == jobCode && strings.EqualFold(c.Items[i].Jurisdiction, jurisdiction) {
			return &c.Items[i]
		}
	}
	return nil
}

// Jurisdictions returns the distinct jurisdiction codes in first-seen order.
func (c *Records) Jurisdictions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range c.Items {
		if seen[rec.Jurisdiction] {
			continue
		}
		seen[rec.Jurisdiction] = true
		out = append(out, rec.Jurisdiction)
	}
	return out
}

// ReportByJurisdiction counts records per jurisdiction code.
func (c *Records) ReportByJurisdiction() map[string]int {
	report := make(map[string]int)
	for _, rec := range c.Items {
		report[rec.Jurisdiction]++
	}
	return report
}
