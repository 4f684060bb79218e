package query

import (
	"strings"
	"testing"
)

type stubResolver map[string]string

func (s stubResolver) Mention(text string) (string, string, bool) {
	for key, code := range s {
		if strings.Contains(text, key) {
			return code, key, true
		}
	}
	return "", "", false
}

func TestExtract(t *testing.T) {
	resolver := stubResolver{"san diego": "sandiego"}

	tests := []struct {
		name         string
		utterance    string
		preResolved  string
		jurisdiction string
		title        string
		code         string
		intent       Intent
	}{
		{
			name:         "salary in named jurisdiction",
			utterance:    "What does a Deputy Sheriff earn in San Diego County?",
			jurisdiction: "sandiego",
			title:        "deputy sheriff",
			intent:       IntentSalary,
		},
		{
			name:      "job code only",
			utterance: "Tell me about job code 1002",
			code:      "1002",
			intent:    IntentGeneral,
		},
		{
			name:         "pre-resolved jurisdiction wins",
			utterance:    "duties of a probation officer in San Diego",
			preResolved:  "sanbernardino",
			jurisdiction: "sanbernardino",
			title:        "probation officer san diego",
			intent:       IntentDuties,
		},
		{
			name:      "requirements",
			utterance: "Is a polygraph required for correctional officer?",
			title:     "correctional officer",
			intent:    IntentRequirements,
		},
		{
			name:      "nothing useful",
			utterance: "hello?",
			title:     "hello",
			intent:    IntentGeneral,
		},
		{
			name:      "empty",
			utterance: "   ",
			intent:    IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Extract(tt.utterance, resolver, tt.preResolved)

			if got := q.JurisdictionText(); got != tt.jurisdiction {
				t.Fatalf("expected jurisdiction %q, got %q", tt.jurisdiction, got)
			}
			if got := q.JobTitleText(); got != tt.title {
				t.Fatalf("expected title %q, got %q", tt.title, got)
			}
			if got := q.JobCodeText(); got != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, got)
			}
			if q.Intent != tt.intent {
				t.Fatalf("expected intent %q, got %q", tt.intent, q.Intent)
			}
		})
	}
}

func TestExtractWithoutResolver(t *testing.T) {
	q := Extract("salary of an accountant", nil, "")
	if q.Jurisdiction != nil {
		t.Fatalf("expected no jurisdiction, got %q", *q.Jurisdiction)
	}
	if q.JobTitleText() != "accountant" {
		t.Fatalf("unexpected title %q", q.JobTitleText())
	}
}

func TestParseIntent(t *testing.T) {
	if ParseIntent("salary") != IntentSalary {
		t.Fatalf("expected salary intent")
	}
	if ParseIntent("bogus") != IntentGeneral {
		t.Fatalf("expected general intent for unknown input")
	}
}

func TestQueryIsEmpty(t *testing.T) {
	if !(Query{Intent: IntentSalary}).IsEmpty() {
		t.Fatalf("intent alone must not make a query usable")
	}
	if (Query{JobCode: Code(1)}).IsEmpty() {
		t.Fatalf("query with job code is not empty")
	}
}
