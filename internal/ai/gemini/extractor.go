package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/query"
	"github.com/spigell/govjobs/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, message string) (string, error)
}

//go:embed extract_prompt.md
var extractPromptTemplate string

const (
	defaultMaxLogLength = 200
	// historyTurns bounds how much of the conversation is sent for extraction.
	historyTurns = 6
)

// Extractor asks the model to turn an utterance into a query.Query.
type Extractor struct {
	generator     jsonGenerator
	jurisdictions []string
	logger        *zap.Logger
	maxLogLen     int
}

// NewExtractor creates an Extractor. jurisdictions are display names offered to
// the model as hints.
func NewExtractor(generator jsonGenerator, jurisdictions []string, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator:     generator,
		jurisdictions: jurisdictions,
		logger:        logger,
		maxLogLen:     maxLogLength,
	}
}

func (e *Extractor) Extract(ctx context.Context, history []ai.Message, utterance string) (query.Query, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return query.Query{Intent: query.IntentGeneral}, fmt.Errorf("utterance is required")
	}

	system := buildExtractPrompt(e.jurisdictions)
	message := buildExtractMessage(history, utterance)

	e.logger.Debug("gemini extract query request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, system, message)
	if err != nil {
		return query.Query{}, err
	}

	e.logger.Debug("gemini extract query response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseQuery(raw)
}

func buildExtractPrompt(jurisdictions []string) string {
	names := "- (none loaded)"
	if len(jurisdictions) > 0 {
		lines := make([]string, 0, len(jurisdictions))
		for _, name := range jurisdictions {
			lines = append(lines, "- "+name)
		}
		names = strings.Join(lines, "\n")
	}
	return strings.ReplaceAll(extractPromptTemplate, "{{JURISDICTIONS}}", names)
}

func buildExtractMessage(history []ai.Message, utterance string) string {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, msg := range history {
			text := strings.TrimSpace(msg.Text)
			if text == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, utils.TruncateForLog(text, 500))
		}
		b.WriteString("\n")
	}
	b.WriteString("Latest question: ")
	b.WriteString(utterance)
	return b.String()
}

func parseQuery(raw string) (query.Query, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return query.Query{}, fmt.Errorf("parse gemini response: %w", err)
	}

	q := query.Query{Intent: query.ParseIntent(strings.ToLower(coerceString(data["intent"])))}

	if s := coerceString(data["jurisdiction"]); s != "" {
		q.Jurisdiction = query.Text(s)
	}
	if s := coerceString(data["job_title"]); s != "" {
		q.JobTitle = query.Text(s)
	}
	if code := coerceFloat(data["job_code"]); !math.IsNaN(code) && code > 0 && code == math.Trunc(code) {
		q.JobCode = query.Code(int(code))
	}

	return q, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// coerceString treats JSON null and the literal "null" as empty.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(val)
		if strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "none") {
			return ""
		}
		return trimmed
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
