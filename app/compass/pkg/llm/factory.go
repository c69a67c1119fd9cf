package llm

import (
	"context"
	"fmt"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
)

// NewGenerator 根据配置创建生成器，进程内只创建一次并在多次报告间复用
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key is missing")
		}
		return NewOpenAI(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "", "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "claude":
		return NewClaude(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
