package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel 默认的 Gemini 模型
const GeminiModel = "gemini-2.5-flash"

// GeminiGenerator 使用 Google AI API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGemini 创建 Gemini 生成器，apiKey 为空时返回错误
func NewGemini(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is missing")
	}
	if modelName == "" {
		modelName = GeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: modelName}, nil
}

// Name 返回提供方标识
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate 发送单条用户指令
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapError(g.Name(), err)
	}
	return checkText(g.Name(), geminiText(resp))
}

// Close 释放 Gemini 客户端
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// geminiText 拼接第一个候选中的全部文本片段
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
