package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIGenerator 通过 eino 调用 OpenAI 兼容接口
type OpenAIGenerator struct {
	chatModel model.ChatModel
}

// NewOpenAI 创建 OpenAI 兼容的生成器
func NewOpenAI(ctx context.Context, baseURL, apiKey, modelName string) (*OpenAIGenerator, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &OpenAIGenerator{chatModel: chatModel}, nil
}

// Name 返回提供方标识
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate 发送单条用户消息
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.User, Content: prompt},
	}

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", wrapError(g.Name(), err)
	}
	return checkText(g.Name(), resp.Content)
}
