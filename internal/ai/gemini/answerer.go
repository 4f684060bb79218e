package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/query"
	"github.com/spigell/govjobs/internal/utils"
)

type streamGenerator interface {
	Stream(ctx context.Context, system string, history []ai.Message, message string, onChunk func(string) error) (string, error)
}

//go:embed answer_prompt.md
var answerPromptTemplate string

var intentFocus = map[query.Intent]string{
	query.IntentSalary:         "salary grades and pay ranges",
	query.IntentDuties:         "duties and the role definition",
	query.IntentQualifications: "education, experience and certifications",
	query.IntentRequirements:   "screening checks and other requirements",
	query.IntentGeneral:        "a general overview of the job",
}

// Answerer streams grounded answers from Gemini.
type Answerer struct {
	generator streamGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnswerer(generator streamGenerator, logger *zap.Logger, maxLogLength int) *Answerer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Answerer{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

func (a *Answerer) Answer(ctx context.Context, req ai.AnswerRequest, onChunk func(string) error) (string, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", fmt.Errorf("question is required")
	}

	system := buildAnswerPrompt(req.Intent)
	message := buildAnswerMessage(question, req.Context)

	a.logger.Debug("gemini answer request",
		zap.Int("history_length", len(req.History)),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	answer, err := a.generator.Stream(ctx, system, req.History, message, onChunk)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini answer response",
		zap.Int("response_length", utf8.RuneCountInString(answer)),
		zap.String("response_preview", utils.TruncateForLog(answer, a.maxLogLen)),
	)

	return answer, nil
}

func buildAnswerPrompt(intent query.Intent) string {
	focus, ok := intentFocus[intent]
	if !ok {
		focus = intentFocus[query.IntentGeneral]
	}
	return strings.ReplaceAll(answerPromptTemplate, "{{INTENT}}", focus)
}

func buildAnswerMessage(question, records string) string {
	records = strings.TrimSpace(records)
	if records == "" {
		records = "No matching job records were found."
	}
	return "Job records:\n" + records + "\n\nQuestion: " + question
}
