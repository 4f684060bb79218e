package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash-lite"
	defaultMaxRetries = 3
)

// wait is swapped in tests to skip backoff delays.
var wait = utils.WaitFor

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	SendMessageStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error]
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator wraps the Google GenAI chat API with retries and request pacing.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewGenerator creates a Generator for the Gemini API backend. A positive
// requestsPerMinute paces outgoing requests.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries, requestsPerMinute int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}
	if requestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return g, nil
}

// GenerateContent sends message under the system instruction and returns the whole response.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	return g.send(ctx, newConfig(system, ""), message)
}

// GenerateJSON is GenerateContent with a JSON response type.
func (g *Generator) GenerateJSON(ctx context.Context, system, message string) (string, error) {
	return g.send(ctx, newConfig(system, "application/json"), message)
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	var output string
	err := g.withRetries(ctx, func(ctx context.Context) (bool, error) {
		chat, err := g.chats.Create(ctx, g.model, config, nil)
		if err != nil {
			return false, fmt.Errorf("create chat: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
		if err != nil {
			return true, fmt.Errorf("generate content: %w", err)
		}

		output = joinCandidates(resp)
		if output == "" {
			return false, errors.New("gemini api returned empty response")
		}
		return false, nil
	})

	return output, err
}

// Stream sends message after the given history and calls onChunk for every
// text fragment. Retries only happen while nothing has been emitted yet.
func (g *Generator) Stream(ctx context.Context, system string, history []ai.Message, message string, onChunk func(string) error) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	config := newConfig(system, "")
	contents := toContents(history)

	var builder strings.Builder
	err := g.withRetries(ctx, func(ctx context.Context) (bool, error) {
		chat, err := g.chats.Create(ctx, g.model, config, contents)
		if err != nil {
			return false, fmt.Errorf("create chat: %w", err)
		}

		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				return builder.Len() == 0, fmt.Errorf("stream content: %w", err)
			}

			chunk := candidatesText(resp)
			if chunk == "" {
				continue
			}
			builder.WriteString(chunk)

			if onChunk != nil {
				if err := onChunk(chunk); err != nil {
					return false, err
				}
			}
		}

		if builder.Len() == 0 {
			return false, errors.New("gemini api returned empty response")
		}
		return false, nil
	})
	if err != nil {
		return "", err
	}

	return builder.String(), nil
}

// withRetries runs attempt up to maxRetries times. attempt reports whether its error may be retried.
func (g *Generator) withRetries(ctx context.Context, attempt func(ctx context.Context) (bool, error)) error {
	attempts := g.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		retryable, err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable || i == attempts-1 {
			break
		}

		delay, ok := retryDelay(err, i)
		if !ok {
			g.logger.Warn("gemini request failed, not retrying", zap.Error(err))
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func newConfig(system, mimeType string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{ResponseMIMEType: mimeType}
	if mimeType != "" {
		config.Temperature = genai.Ptr[float32](0)
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	return config
}

func toContents(history []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleModel {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contents
}

// joinCandidates returns trimmed candidate texts joined by newlines.
func joinCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// candidatesText returns the raw text of a streamed chunk, whitespace included.
func candidatesText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil {
				builder.WriteString(part.Text)
			}
		}
	}
	return builder.String()
}
