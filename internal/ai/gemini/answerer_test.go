package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/query"
)

type stubStreamGenerator struct {
	chunks      []string
	lastSystem  string
	lastMessage string
	lastHistory []ai.Message
}

func (s *stubStreamGenerator) Stream(_ context.Context, system string, history []ai.Message, message string, onChunk func(string) error) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	s.lastHistory = history

	var b strings.Builder
	for _, chunk := range s.chunks {
		b.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func TestAnswererAnswer(t *testing.T) {
	stub := &stubStreamGenerator{chunks: []string{"The range is ", "$3,119.39."}}
	answerer := NewAnswerer(stub, nil, 0)

	var streamed []string
	answer, err := answerer.Answer(context.Background(), ai.AnswerRequest{
		Question: "What is the salary?",
		Context:  "Found 1 matching job record(s):",
		History:  []ai.Message{{Role: ai.RoleUser, Text: "hi"}},
		Intent:   query.IntentSalary,
	}, func(chunk string) error {
		streamed = append(streamed, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer != "The range is $3,119.39." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if len(streamed) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(streamed))
	}
	if !strings.Contains(stub.lastSystem, "salary grades and pay ranges") {
		t.Fatalf("expected intent focus in system prompt: %s", stub.lastSystem)
	}
	if !strings.HasPrefix(stub.lastMessage, "Job records:\nFound 1 matching job record(s):") {
		t.Fatalf("unexpected message: %s", stub.lastMessage)
	}
	if len(stub.lastHistory) != 1 {
		t.Fatalf("expected history to be forwarded")
	}
}

func TestAnswererEmptyContext(t *testing.T) {
	stub := &stubStreamGenerator{chunks: []string{"ok"}}
	answerer := NewAnswerer(stub, nil, 0)

	if _, err := answerer.Answer(context.Background(), ai.AnswerRequest{Question: "anything?"}, func(string) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stub.lastMessage, "No matching job records were found.") {
		t.Fatalf("unexpected message: %s", stub.lastMessage)
	}
	if !strings.Contains(stub.lastSystem, "a general overview of the job") {
		t.Fatalf("expected general focus: %s", stub.lastSystem)
	}

	if _, err := answerer.Answer(context.Background(), ai.AnswerRequest{Question: " "}, nil); err == nil {
		t.Fatalf("expected error for empty question")
	}
}
