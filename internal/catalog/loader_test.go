package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleRecords = `[
  {
    "jurisdiction": "sandiego",
    "job_code": 1002,
    "title": "Deputy Sheriff",
    "role_definition": "Performs law enforcement duties.",
    "example_duties": "Patrols assigned areas | Makes arrests |  ",
    "special_requirements": ["Bilingual Spanish", "Valid CA license"],
    "salary_grade_1": "$3,119.39",
    "salary_grade_2": 4375.47,
    "salary_grade_3": "n/a",
    "is_travel_required": false,
    "is_background_checked": true,
    "years_of_experience": "2"
  },
  {
    "jurisdiction": "sanbernardino",
    "job_code": "2001",
    "title": null
  }
]`

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords([]byte(sampleRecords))
	require.NoError(t, err)
	require.Equal(t, 2, records.Len())

	first := records.Items[0]
	assert.Equal(t, "sandiego", first.Jurisdiction)
	assert.Equal(t, 1002, first.JobCode)
	require.NotNil(t, first.Title)
	assert.Equal(t, "Deputy Sheriff", *first.Title)
	assert.Equal(t, []string{"Patrols assigned areas", "Makes arrests"}, first.ExampleDuties)
	assert.Equal(t, []string{"Bilingual Spanish", "Valid CA license"}, first.SpecialRequirements)

	require.NotNil(t, first.SalaryGrades[0])
	assert.InDelta(t, 3119.39, *first.SalaryGrades[0], 1e-9)
	require.NotNil(t, first.SalaryGrades[1])
	assert.InDelta(t, 4375.47, *first.SalaryGrades[1], 1e-9)
	assert.Nil(t, first.SalaryGrades[2], "unparseable grade must stay absent")

	require.NotNil(t, first.IsTravelRequired)
	assert.False(t, *first.IsTravelRequired)
	assert.Nil(t, first.IsPolygraphRequired)
	require.NotNil(t, first.YearsOfExperience)
	assert.Equal(t, 2, *first.YearsOfExperience)
	assert.Equal(t, []string{"Background Check"}, first.RequiredChecks())

	second := records.Items[1]
	assert.Equal(t, 2001, second.JobCode)
	assert.Nil(t, second.Title, "null must be absent, not empty")
	assert.Nil(t, second.ExampleDuties)
	assert.False(t, second.HasSalaryInfo())
}

func TestParseRecordsRejectsWholeDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not an array", doc: `{"jurisdiction": "x"}`},
		{name: "unknown field", doc: `[{"jurisdiction": "a", "job_code": 1, "jobTitle": "x"}]`},
		{name: "missing job code", doc: `[{"jurisdiction": "a"}]`},
		{name: "null jurisdiction", doc: `[{"jurisdiction": null, "job_code": 1}]`},
		{name: "empty jurisdiction", doc: `[{"jurisdiction": " ", "job_code": 1}]`},
		{name: "fractional job code", doc: `[{"jurisdiction": "a", "job_code": 1.5}]`},
		{name: "wrong bool type", doc: `[{"jurisdiction": "a", "job_code": 1, "is_drug_test_required": 3}]`},
		{name: "wrong list item", doc: `[{"jurisdiction": "a", "job_code": 1, "certifications": [1, 2]}]`},
		{name: "duplicate key", doc: `[{"jurisdiction": "a", "job_code": 1}, {"jurisdiction": "A", "job_code": 1}]`},
		{name: "bad record after good", doc: `[{"jurisdiction": "a", "job_code": 1}, {"jurisdiction": "b", "job_code": "x"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseRecords([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Nil(t, records)
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input  string
		expect float64
		ok     bool
	}{
		{"$70.38", 70.38, true},
		{"$3,119.39", 3119.39, true},
		{" $4,375.47 ", 4375.47, true},
		{"\t$300\t", 300, true},
		{"-$50.25", -50.25, true},
		{"2,500.75", 2500.75, true},
		{"", 0, false},
		{"na", 0, false},
		{"N/A", 0, false},
		{"null", 0, false},
		{"none", 0, false},
		{"invalid", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMoney(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.InDelta(t, tt.expect, got, 1e-9, "input %q", tt.input)
		}
	}
}

func TestParseJurisdictions(t *testing.T) {
	t.Run("json mapping", func(t *testing.T) {
		j, err := ParseJurisdictions([]byte(`{"sandiego": "San Diego", "losangeles": "Los Angeles"}`), FormatJSON)
		require.NoError(t, err)
		require.Equal(t, 2, j.Len())
		assert.Equal(t, "losangeles", j.Items[0].Code, "mapping entries are sorted by code")
		assert.Equal(t, "San Diego", j.Names()["sandiego"])
	})

	t.Run("yaml list", func(t *testing.T) {
		doc := "- code: orange\n  name: Orange County\n- code: kern\n  name: Kern\n"
		j, err := ParseJurisdictions([]byte(doc), FormatYAML)
		require.NoError(t, err)
		require.Equal(t, 2, j.Len())
		assert.Equal(t, Jurisdiction{Code: "orange", Name: "Orange County"}, j.Items[0])
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseJurisdictions([]byte(`[{"code": "kern"}]`), FormatJSON)
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := ParseJurisdictions([]byte(`[{"code": "kern", "name": "Kern"}, {"code": "KERN", "name": "Kern"}]`), FormatJSON)
		assert.ErrorIs(t, err, ErrSchema)
	})
}

func TestLoaderLoadAllFromFileAndURL(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(sampleRecords), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte("sandiego: San Diego\nsanbernardino: San Bernardino\n"))
		_ = gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	loader := NewLoader(zap.NewNop())
	records, jurisdictions, err := loader.LoadAll(context.Background(), recordsPath, server.URL+"/jurisdictions.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, records.Len())
	assert.Equal(t, 2, jurisdictions.Len())
	assert.Equal(t, "San Bernardino", jurisdictions.Names()["sanbernardino"])
}

func TestLoaderLoadAllFailsWhenOneSourceFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(sampleRecords), 0o644))

	records, jurisdictions, err := NewLoader(nil).LoadAll(context.Background(), recordsPath, server.URL+"/j.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
	assert.Nil(t, records)
	assert.Nil(t, jurisdictions)
}
