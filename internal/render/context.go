// Package render turns ranked records into the plain-text grounding block
// handed to the language model.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/spigell/govjobs/internal/catalog"
)

// NoMatches is returned by Context for an empty record list.
const NoMatches = "No matching job records were found in the catalog."

// NameFunc returns the display name of a jurisdiction code.
type NameFunc func(code string) string

// Context renders records in rank order. Absent fields are left out.
func Context(records []catalog.Record, name NameFunc) string {
	if len(records) == 0 {
		return NoMatches
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching job record(s):\n", len(records))

	for i := range records {
		b.WriteString("\n")
		writeRecord(&b, i+1, &records[i], name)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Money formats a salary figure as dollars with cents.
func Money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// SalaryRange renders the record's salary bounds, or "" when it has none.
func SalaryRange(rec *catalog.Record) string {
	lo, hi := rec.SalaryRange()
	if lo == nil || hi == nil {
		return ""
	}
	if *lo == *hi {
		return Money(*lo)
	}
	return Money(*lo) + " - " + Money(*hi)
}

func writeRecord(b *strings.Builder, n int, rec *catalog.Record, name NameFunc) {
	fmt.Fprintf(b, "### Record %d\n", n)

	line(b, "Title", rec.Title)
	jurisdiction := rec.Jurisdiction
	if name != nil {
		if display := name(rec.Jurisdiction); display != "" && display != rec.Jurisdiction {
			jurisdiction = fmt.Sprintf("%s (%s)", display, rec.Jurisdiction)
		}
	}
	fmt.Fprintf(b, "Jurisdiction: %s\n", jurisdiction)
	fmt.Fprintf(b, "Job Code: %d\n", rec.JobCode)

	if salary := SalaryRange(rec); salary != "" {
		fmt.Fprintf(b, "Salary Range: %s\n", salary)
		for i, grade := range rec.SalaryGrades {
			if grade != nil {
				fmt.Fprintf(b, "Grade %d: %s\n", i+1, Money(*grade))
			}
		}
	}

	line(b, "Role Definition", rec.RoleDefinition)
	line(b, "Reports To", rec.ReportsTo)
	line(b, "Supported By", rec.SupportedBy)
	bullets(b, "Example Duties", rec.ExampleDuties)

	line(b, "Education Level", rec.EducationLevel)
	line(b, "Degree Type", rec.DegreeType)
	line(b, "Required Experience", rec.RequiredExperience)
	if rec.YearsOfExperience != nil {
		fmt.Fprintf(b, "Years of Experience: %s\n", strconv.Itoa(*rec.YearsOfExperience))
	}
	joined(b, "Certifications", rec.Certifications, ", ")
	bullets(b, "Special Requirements", rec.SpecialRequirements)
	bullets(b, "Other Requirements", rec.OtherRequirements)

	joined(b, "Working Conditions", rec.WorkingConditions, "; ")
	if rec.IsTravelRequired != nil {
		fmt.Fprintf(b, "Travel Required: %s\n", yesNo(*rec.IsTravelRequired))
	}
	line(b, "Exemption Status", rec.ExemptionStatus)
	line(b, "Probationary Period", rec.ProbationaryPeriod)
	joined(b, "Legal References", rec.LegalReferences, "; ")
	bullets(b, "Disqualifying Factors", rec.DisqualifyingFactors)

	if checks := rec.RequiredChecks(); len(checks) > 0 {
		fmt.Fprintf(b, "Required Checks: %s\n", strings.Join(checks, ", "))
	}
}

func line(b *strings.Builder, label string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.TrimSpace(*value))
}

func bullets(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func joined(b *strings.Builder, label string, items []string, sep string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, sep))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
