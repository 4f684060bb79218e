package catalog

import "fmt"

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindMoney
	kindList
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindInt:
		return "integer"
	case kindBool:
		return "boolean"
	case kindMoney:
		return "currency amount"
	case kindList:
		return "list of strings"
	default:
		return "unknown"
	}
}

// fieldSpec maps one wire key onto a Record field.
type fieldSpec struct {
	Wire     string
	Field    string
	Kind     fieldKind
	Required bool
	// Index is the element position for array fields; -1 otherwise.
	Index int
}

// recordFields is the projection from the snake_case wire schema to Record.
var recordFields = append([]fieldSpec{
	{Wire: "jurisdiction", Field: "Jurisdiction", Kind: kindString, Required: true, Index: -1},
	{Wire: "job_code", Field: "JobCode", Kind: kindInt, Required: true, Index: -1},
	{Wire: "title", Field: "Title", Kind: kindString, Index: -1},

	{Wire: "role_definition", Field: "RoleDefinition", Kind: kindString, Index: -1},
	{Wire: "reports_to", Field: "ReportsTo", Kind: kindString, Index: -1},
	{Wire: "supported_by", Field: "SupportedBy", Kind: kindString, Index: -1},
	{Wire: "example_duties", Field: "ExampleDuties", Kind: kindList, Index: -1},

	{Wire: "education_level", Field: "EducationLevel", Kind: kindString, Index: -1},
	{Wire: "degree_type", Field: "DegreeType", Kind: kindString, Index: -1},
	{Wire: "certifications", Field: "Certifications", Kind: kindList, Index: -1},
	{Wire: "required_experience", Field: "RequiredExperience", Kind: kindString, Index: -1},
	{Wire: "years_of_experience", Field: "YearsOfExperience", Kind: kindInt, Index: -1},
	{Wire: "other_requirements", Field: "OtherRequirements", Kind: kindList, Index: -1},
	{Wire: "special_requirements", Field: "SpecialRequirements", Kind: kindList, Index: -1},
	{Wire: "combination_of_requirements", Field: "CombinationOfRequirements", Kind: kindList, Index: -1},

	{Wire: "working_conditions", Field: "WorkingConditions", Kind: kindList, Index: -1},
	{Wire: "is_travel_required", Field: "IsTravelRequired", Kind: kindBool, Index: -1},
	{Wire: "authorizing_body", Field: "AuthorizingBody", Kind: kindString, Index: -1},
	{Wire: "legal_references", Field: "LegalReferences", Kind: kindList, Index: -1},

	{Wire: "exemption_status", Field: "ExemptionStatus", Kind: kindString, Index: -1},
	{Wire: "probationary_period", Field: "ProbationaryPeriod", Kind: kindString, Index: -1},

	{Wire: "is_driver_license_required", Field: "IsDriverLicenseRequired", Kind: kindBool, Index: -1},
	{Wire: "is_background_checked", Field: "IsBackgroundChecked", Kind: kindBool, Index: -1},
	{Wire: "is_polygraph_required", Field: "IsPolygraphRequired", Kind: kindBool, Index: -1},
	{Wire: "is_medical_examination_required", Field: "IsMedicalExaminationRequired", Kind: kindBool, Index: -1},
	{Wire: "is_drug_test_required", Field: "IsDrugTestRequired", Kind: kindBool, Index: -1},
	{Wire: "is_physical_examination_required", Field: "IsPhysicalExaminationRequired", Kind: kindBool, Index: -1},
	{Wire: "is_mental_examination_required", Field: "IsMentalExaminationRequired", Kind: kindBool, Index: -1},
	{Wire: "has_disqualifying_factors", Field: "HasDisqualifyingFactors", Kind: kindBool, Index: -1},
	{Wire: "disqualifying_factors", Field: "DisqualifyingFactors", Kind: kindList, Index: -1},
	{Wire: "has_accommodations", Field: "HasAccommodations", Kind: kindBool, Index: -1},
	{Wire: "accommodations", Field: "Accommodations", Kind: kindList, Index: -1},
}, salaryGradeFields()...)

// salaryGradeFields maps salary_grade_1..salary_grade_14 onto SalaryGrades.
func salaryGradeFields() []fieldSpec {
	out := make([]fieldSpec, 0, NumSalaryGrades)
	for i := 0; i < NumSalaryGrades; i++ {
		out = append(out, fieldSpec{
			Wire:  fmt.Sprintf("salary_grade_%d", i+1),
			Field: "SalaryGrades",
			Kind:  kindMoney,
			Index: i,
		})
	}
	return out
}

var recordFieldsByWire = func() map[string]fieldSpec {
	m := make(map[string]fieldSpec, len(recordFields))
	for _, f := range recordFields {
		m[f.Wire] = f
	}
	return m
}()
