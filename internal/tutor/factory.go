package tutor

import (
	"fmt"

	"github.com/ihiteshgupta/learnflow/internal/platform/config"
)

// NewProvider builds the configured provider wrapped with retry logic.
func NewProvider(cfg config.Tutor) (Provider, error) {
	var (
		base Provider
		err  error
	)

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown tutor provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(base, DefaultRetryConfig()), nil
}
