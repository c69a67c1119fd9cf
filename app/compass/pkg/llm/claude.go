package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// claudeMaxTokens 单个栏目的回答长度上限
const claudeMaxTokens = 2048

// ClaudeGenerator 使用 Anthropic Messages API
type ClaudeGenerator struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaude 创建 Claude 生成器，baseURL 为空时使用官方地址
func NewClaude(apiKey, modelName, baseURL string) (*ClaudeGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is missing")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ClaudeGenerator{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(modelName),
	}, nil
}

// Name 返回提供方标识
func (g *ClaudeGenerator) Name() string {
	return "claude"
}

// Generate 发送单条用户指令
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapError(g.Name(), err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return checkText(g.Name(), sb.String())
}
