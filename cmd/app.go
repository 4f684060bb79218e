package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/ai"
	"github.com/spigell/govjobs/internal/ai/gemini"
	"github.com/spigell/govjobs/internal/assistant"
	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/history"
	"github.com/spigell/govjobs/internal/logger"
	"github.com/spigell/govjobs/internal/relevance"
	"github.com/spigell/govjobs/internal/secrets"
)

// application bundles what every command needs after start-up.
type application struct {
	config        *Config
	logger        *zap.Logger
	records       *catalog.Records
	jurisdictions *catalog.Jurisdictions
	resolver      *relevance.Resolver
	history       *history.Store
	service       *assistant.Service
}

// setup builds the logger and config. Errors are fatal like in every command.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config, logger
}

// newApplication loads the catalog and wires the assistant. withAI adds the
// model-backed answerer and extractor; withHistory opens the history store.
func newApplication(ctx context.Context, config *Config, logger *zap.Logger, withAI, withHistory bool) (*application, error) {
	if config.Catalog == nil || strings.TrimSpace(config.Catalog.Records) == "" {
		return nil, errors.New("catalog.records is required")
	}
	if strings.TrimSpace(config.Catalog.Jurisdictions) == "" {
		return nil, errors.New("catalog.jurisdictions is required")
	}

	loader := catalog.NewLoader(logger)
	if config.UserAgent != "" {
		loader.UserAgent = config.UserAgent
	}

	records, jurisdictions, err := loader.LoadAll(ctx, config.Catalog.Records, config.Catalog.Jurisdictions)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	logger.Info("catalog loaded",
		zap.Int("records", records.Len()),
		zap.Int("jurisdictions", jurisdictions.Len()),
	)
	logger.Debug("records by jurisdiction", zap.Any("report", records.ReportByJurisdiction()))

	a := &application{
		config:        config,
		logger:        logger,
		records:       records,
		jurisdictions: jurisdictions,
		resolver:      relevance.NewResolver(jurisdictions.Items),
	}

	deps := assistant.Deps{
		Records:  records,
		Resolver: a.resolver,
		Logger:   logger,
	}

	if withHistory && config.History != nil && config.History.Enabled {
		store, err := history.Open(ctx, config.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
		deps.History = store
	}

	if withAI {
		extractor, answerer, err := newAI(ctx, config.AI, jurisdictionNames(jurisdictions), logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Extractor = extractor
		deps.Answerer = answerer
	}

	service, err := assistant.New(deps, assistantConfig(config))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = service

	return a, nil
}

func (a *application) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("closing history", zap.Error(err))
		}
	}
}

func assistantConfig(config *Config) assistant.Config {
	cfg := assistant.DefaultConfig()
	if s := config.Search; s != nil {
		cfg.Threshold = s.Threshold
		cfg.FallbackThreshold = s.FallbackThreshold
		cfg.MaxContextRecords = s.MaxContextRecords
	}
	if h := config.History; h != nil && h.MaxTurns > 0 {
		cfg.HistoryTurns = h.MaxTurns
	}
	if config.AI != nil {
		cfg.ExtractQueries = config.AI.ExtractQueries
	}
	return cfg
}

func jurisdictionNames(j *catalog.Jurisdictions) []string {
	names := make([]string, 0, j.Len())
	for _, item := range j.Items {
		name := item.Name
		if name == "" {
			name = item.Code
		}
		names = append(names, name)
	}
	return names
}

func newAI(ctx context.Context, cfg *AIConfig, jurisdictions []string, log *zap.Logger) (ai.QueryExtractor, ai.Answerer, error) {
	if cfg == nil {
		return nil, nil, errors.New("ai configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:           "gemini api key",
		File:           gcfg.APIKeyFile,
		Env:            "GEMINI_API_KEY",
		KeyringAccount: gcfg.KeyringAccount,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GOVJOBS_GEMINI_API_KEY_FILE, GEMINI_API_KEY or run '%s key set')", err, app)
	}

	genLogger := logger.WithCommonFields(log, "gemini", gcfg.Model).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, gcfg.RequestsPerMinute, genLogger)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	extractor := gemini.NewExtractor(generator, jurisdictions, aiLogger, gcfg.MaxLogLength)
	answerer := gemini.NewAnswerer(generator, aiLogger, gcfg.MaxLogLength)

	return extractor, answerer, nil
}
