package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grade(v float64) *float64 { return &v }

func TestSalaryRange(t *testing.T) {
	var rec Record
	rec.SalaryGrades[0] = grade(75)
	rec.SalaryGrades[4] = grade(50)
	rec.SalaryGrades[13] = grade(100)

	lo, hi := rec.SalaryRange()
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 50.0, *lo)
	assert.Equal(t, 100.0, *hi)
	assert.True(t, rec.HasSalaryInfo())
}

func TestSalaryRangeAllAbsent(t *testing.T) {
	var rec Record

	lo, hi := rec.SalaryRange()
	assert.Nil(t, lo)
	assert.Nil(t, hi)
	assert.False(t, rec.HasSalaryInfo())
}

func TestSalaryRangeDoesNotAliasGrades(t *testing.T) {
	var rec Record
	rec.SalaryGrades[0] = grade(10)

	lo, _ := rec.SalaryRange()
	*lo = 99
	assert.Equal(t, 10.0, *rec.SalaryGrades[0])
}

func TestRequiredChecksOrder(t *testing.T) {
	yes, no := true, false
	rec := Record{
		IsMentalExaminationRequired: &yes,
		IsDriverLicenseRequired:     &yes,
		IsPolygraphRequired:         &no,
		IsDrugTestRequired:          &yes,
	}

	assert.Equal(t, []string{"Driver License", "Drug Test", "Mental Examination"}, rec.RequiredChecks())
	assert.Nil(t, (&Record{}).RequiredChecks())
}

func TestRecordsLookups(t *testing.T) {
	records := &Records{Items: []Record{
		{Jurisdiction: "sandiego", JobCode: 1},
		{Jurisdiction: "kern", JobCode: 1},
		{Jurisdiction: "sandiego", JobCode: 2},
	}}

	found := records.Find("SanDiego", 2)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.JobCode)
	assert.Nil(t, records.Find("kern", 2))

	assert.Equal(t, []string{"sandiego", "kern"}, records.Jurisdictions())
	assert.Equal(t, map[string]int{"sandiego": 2, "kern": 1}, records.ReportByJurisdiction())
}
