package app

import (
	"fmt"
	"strings"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

// OpenGenerator picks the question generator named by cfg.GeneratorMode.
func OpenGenerator(log *logger.Logger, cfg Config) (generation.Generator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.GeneratorMode))
	switch mode {
	case "", GeneratorModeMock:
		log.Info("Using mock question generator")
		return generation.NewMockGenerator(), nil
	case GeneratorModeOpenAI:
		gen, err := generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("init openai generator: %w", err)
		}
		log.Info("Using OpenAI question generator", "model", cfg.OpenAIModel)
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported generator mode %q: %w", mode, apperr.ErrInvalidArgument)
	}
}
