// Package llm 封装报告生成使用的文本生成服务。
//
// 每个栏目只发送一条用户指令，不使用多轮上下文或流式输出。
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

// Generator 文本生成服务
type Generator interface {
	// Name 返回提供方标识
	Name() string
	// Generate 发送单条用户指令并返回生成的文本
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse 模型没有返回任何文本
var ErrEmptyResponse = errors.New("empty response from model")

// wrapError 将提供方错误统一为传输失败
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var f *model.Failure
	if errors.As(err, &f) {
		return err
	}
	return model.NewFailure(model.FailureTransport, provider+" generate", err)
}

// checkText 空文本视为失败
func checkText(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", model.NewFailure(model.FailureEmpty, provider+" generate", ErrEmptyResponse)
	}
	return text, nil
}
