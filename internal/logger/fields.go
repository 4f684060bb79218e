package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/query"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldJurisdiction = "jurisdiction"
	FieldJobTitle     = "job_title"
	FieldJobCode      = "job_code"
	FieldIntent       = "intent"
	FieldSession      = "session"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the fields describing the AI provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// SearchFields describes a structured query. Fields the query does not carry are left out.
func SearchFields(q query.Query) []zap.Field {
	return StringFields(
		StringField{Key: FieldJurisdiction, Value: q.JurisdictionText()},
		StringField{Key: FieldJobTitle, Value: q.JobTitleText()},
		StringField{Key: FieldJobCode, Value: q.JobCodeText()},
		StringField{Key: FieldIntent, Value: string(q.Intent)},
	)
}
