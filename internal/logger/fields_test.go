package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/govjobs/internal/query"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", entries[0].ContextMap()["foo"])
	}

	// Logging with the fallback logger must not panic.
	WithFields(nil, zap.String("baz", "qux")).Info("another log")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "model-x").Info("test log")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "model-x" {
		t.Fatalf("unexpected context: %v", ctx)
	}

	if got := CommonFields("", ""); len(got) != 0 {
		t.Fatalf("expected empty fields, got %d", len(got))
	}
}

func TestSearchFields(t *testing.T) {
	fields := SearchFields(query.Query{
		Jurisdiction: query.Text("sandiego"),
		JobCode:      query.Code(1002),
		Intent:       query.IntentSalary,
	})

	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Key] = f.String
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 fields, got %v", got)
	}
	if got[FieldJurisdiction] != "sandiego" || got[FieldJobCode] != "1002" || got[FieldIntent] != "salary" {
		t.Fatalf("unexpected fields: %v", got)
	}
	if _, ok := got[FieldJobTitle]; ok {
		t.Fatalf("absent title must be omitted")
	}
}
