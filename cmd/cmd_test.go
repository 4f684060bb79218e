package cmd

import (
	"testing"

	"github.com/spigell/govjobs/internal/catalog"
)

func TestAssistantConfig(t *testing.T) {
	cfg := assistantConfig(&Config{
		Search:  &SearchConfig{Threshold: 0.7, FallbackThreshold: 0.2, MaxContextRecords: 5},
		History: &HistoryConfig{MaxTurns: 4},
		AI:      &AIConfig{ExtractQueries: true},
	})

	if cfg.Threshold != 0.7 || cfg.FallbackThreshold != 0.2 || cfg.MaxContextRecords != 5 {
		t.Fatalf("unexpected search config: %+v", cfg)
	}
	if cfg.HistoryTurns != 4 || !cfg.ExtractQueries {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	defaults := assistantConfig(&Config{})
	if defaults.HistoryTurns != 10 || defaults.ExtractQueries {
		t.Fatalf("unexpected defaults: %+v", defaults)
	}
}

func TestJurisdictionNames(t *testing.T) {
	names := jurisdictionNames(&catalog.Jurisdictions{Items: []catalog.Jurisdiction{
		{Code: "sandiego", Name: "San Diego County"},
		{Code: "ventura"},
	}})

	if len(names) != 2 || names[0] != "San Diego County" || names[1] != "ventura" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestIsExit(t *testing.T) {
	for _, input := range []string{"exit", " QUIT ", "Exit"} {
		if !isExit(input) {
			t.Fatalf("expected %q to end the chat", input)
		}
	}
	if isExit("exit strategy for deputies") {
		t.Fatalf("only the bare command ends the chat")
	}
}

func TestSalaryOr(t *testing.T) {
	if got := salaryOr("", "-"); got != "-" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := salaryOr("$1.00", "-"); got != "$1.00" {
		t.Fatalf("unexpected value %q", got)
	}
}
