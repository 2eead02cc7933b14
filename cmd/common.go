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

	"github.com/spigell/job-assistant/internal/ai"
	"github.com/spigell/job-assistant/internal/ai/gemini"
	"github.com/spigell/job-assistant/internal/catalog"
	"github.com/spigell/job-assistant/internal/filtering"
	"github.com/spigell/job-assistant/internal/logger"
	"github.com/spigell/job-assistant/internal/secrets"
)

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// loadConfig returns the parsed config and logs it at debug level.
func loadConfig(logger *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config
}

func loadCatalog(path string, logger *zap.Logger) (*catalog.Postings, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("job catalog is not configured (set catalog, JOB_ASSISTANT_CATALOG or --catalog)")
	}

	postings, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded job catalog", zap.String("path", path), zap.Int("postings", postings.Len()))
	return postings, nil
}

func filteringConfig(config *Config) *filtering.Config {
	return &filtering.Config{
		ExcludeFile: config.ExcludeFile,
		Companies:   config.excludedCompanies(),
	}
}

// newAIMatcher returns nil without an error when AI is disabled.
func newAIMatcher(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.Matcher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: gcfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file / GEMINI_API_KEY_FILE)", err)
	}

	genLogger := l.With(
		zap.String(logger.FieldProvider, "gemini"),
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewMatcher(generator, gcfg.MaxLogLength, l), nil
}
