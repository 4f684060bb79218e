package ai

import (
	"context"

	"github.com/spigell/govjobs/internal/query"
)

// Role of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of the running conversation.
type Message struct {
	Role Role
	Text string
}

// AnswerRequest carries everything the model needs to answer one question.
type AnswerRequest struct {
	Question string
	// Context is the rendered block of matching job records.
	Context string
	History []Message
	Intent  query.Intent
}

// Answerer produces a grounded answer, emitting text chunks as they arrive.
// The full answer is returned once the stream ends.
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest, onChunk func(chunk string) error) (string, error)
}

// QueryExtractor turns the latest utterance into a structured query.
type QueryExtractor interface {
	Extract(ctx context.Context, history []Message, utterance string) (query.Query, error)
}
