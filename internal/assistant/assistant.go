// Package assistant answers one user turn: it works out what was asked, finds
// the matching job records and streams a grounded answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/history"
	"github.com/spigell/govjobs/internal/logger"
	"github.com/spigell/govjobs/internal/query"
	"github.com/spigell/govjobs/internal/relevance"
	"github.com/spigell/govjobs/internal/render"
	"github.com/spigell/govjobs/internal/selection"
)

// HistoryStore is the part of the history store the service needs.
type HistoryStore interface {
	Append(ctx context.Context, turns ...history.Turn) error
	Recent(ctx context.Context, session string, limit int) ([]history.Turn, error)
}

// Config tunes searching and context building.
type Config struct {
	Threshold         float64
	FallbackThreshold float64
	MaxContextRecords int
	HistoryTurns      int
	ExtractQueries    bool
}

// DefaultConfig mirrors the configuration defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:         relevance.DefaultThreshold,
		FallbackThreshold: relevance.BroadThreshold,
		MaxContextRecords: selection.DefaultContextRecords,
		HistoryTurns:      10,
	}
}

// Deps holds collaborators. Extractor and History may be nil.
type Deps struct {
	Records   *catalog.Records
	Resolver  *relevance.Resolver
	Extractor ai.QueryExtractor
	Answerer  ai.Answerer
	History   HistoryStore
	Logger    *zap.Logger
}

type Service struct {
	records   []catalog.Record
	resolver  *relevance.Resolver
	extractor ai.QueryExtractor
	answerer  ai.Answerer
	history   HistoryStore
	cfg       Config
	logger    *zap.Logger
}

// Answer is the outcome of one Ask call.
type Answer struct {
	Query query.Query
	// Records are the records sent to the model, best first.
	Records []catalog.Record
	// Matched counts every record that passed the threshold.
	Matched int
	// Broadened is set when the fallback threshold produced the matches.
	Broadened bool
	Text      string
}

func New(deps Deps, cfg Config) (*Service, error) {
	if deps.Records == nil {
		return nil, errors.New("records are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = relevance.DefaultThreshold
	}
	if cfg.MaxContextRecords <= 0 {
		cfg.MaxContextRecords = selection.DefaultContextRecords
	}

	return &Service{
		records:   deps.Records.Items,
		resolver:  deps.Resolver,
		extractor: deps.Extractor,
		answerer:  deps.Answerer,
		history:   deps.History,
		cfg:       cfg,
		logger:    deps.Logger,
	}, nil
}

// Search runs the engine on question using heuristic extraction only.
func (s *Service) Search(question string) (query.Query, relevance.SearchResult) {
	q := query.Extract(question, s.resolver, "")
	result, _ := s.search(q)
	return q, result
}

// Ask answers question within session and writes the streamed answer to out.
// An empty session disables history for this turn.
func (s *Service) Ask(ctx context.Context, session, question string, out io.Writer) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is required")
	}
	if s.answerer == nil {
		return nil, errors.New("answerer is not configured")
	}

	msgs := s.recentMessages(ctx, session)
	q := s.extractQuery(ctx, msgs, question)
	log := logger.WithFields(s.logger, logger.SearchFields(q)...)

	result, broadened := s.search(q)
	log.Info("search finished",
		zap.Int("matched", result.Count),
		zap.Bool("broadened", broadened),
	)

	steps := []selection.Step{
		selection.NewSalaryFirst(),
		selection.NewContextCap(s.cfg.MaxContextRecords),
	}
	sel, err := selection.Run(ctx, selection.Deps{Logger: log}, steps, selection.FromResult(result))
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	req := ai.AnswerRequest{
		Question: question,
		Context:  render.Context(sel.Records, s.resolver.Name),
		History:  msgs,
		Intent:   q.Intent,
	}

	text, err := s.answerer.Answer(ctx, req, func(chunk string) error {
		if out == nil {
			return nil
		}
		_, err := io.WriteString(out, chunk)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	s.remember(ctx, session, question, text)

	return &Answer{
		Query:     q,
		Records:   sel.Records,
		Matched:   result.Count,
		Broadened: broadened,
		Text:      text,
	}, nil
}

func (s *Service) search(q query.Query) (relevance.SearchResult, bool) {
	result := relevance.Search(s.records, q, s.cfg.Threshold)
	if result.Count > 0 || q.IsEmpty() {
		return result, false
	}

	fallback := s.cfg.FallbackThreshold
	if fallback <= 0 || fallback >= s.cfg.Threshold {
		return result, false
	}

	return relevance.Search(s.records, q, fallback), true
}

// extractQuery prefers the model and falls back to the heuristic extractor
// when the model is unavailable, fails or returns nothing usable.
func (s *Service) extractQuery(ctx context.Context, msgs []ai.Message, question string) query.Query {
	if s.extractor != nil && s.cfg.ExtractQueries {
		q, err := s.extractor.Extract(ctx, msgs, question)
		switch {
		case err != nil:
			s.logger.Warn("query extraction failed, using heuristics", zap.Error(err))
		case q.IsEmpty():
			s.logger.Debug("model extracted an empty query, using heuristics")
		default:
			return s.canonicalize(q)
		}
	}

	return query.Extract(question, s.resolver, "")
}

// canonicalize replaces a free-text jurisdiction with its code when the
// resolver knows it.
func (s *Service) canonicalize(q query.Query) query.Query {
	text := q.JurisdictionText()
	if text == "" {
		return q
	}

	if code, ok := s.resolver.Canonical(text); ok {
		q.Jurisdiction = query.Text(code)
	} else if code, ok := s.resolver.Resolve(text); ok {
		q.Jurisdiction = query.Text(code)
	}
	return q
}

func (s *Service) recentMessages(ctx context.Context, session string) []ai.Message {
	if s.history == nil || strings.TrimSpace(session) == "" {
		return nil
	}

	turns, err := s.history.Recent(ctx, session, s.cfg.HistoryTurns)
	if err != nil {
		s.logger.Warn("failed to read history", zap.String(logger.FieldSession, session), zap.Error(err))
		return nil
	}
	return history.Messages(turns)
}

func (s *Service) remember(ctx context.Context, session, question, answer string) {
	if s.history == nil || strings.TrimSpace(session) == "" {
		return
	}

	err := s.history.Append(ctx,
		history.Turn{Session: session, Role: ai.RoleUser, Text: question},
		history.Turn{Session: session, Role: ai.RoleModel, Text: answer},
	)
	if err != nil {
		s.logger.Warn("failed to store history", zap.String(logger.FieldSession, session), zap.Error(err))
	}
}
