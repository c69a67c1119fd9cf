package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/llm"
	"github.com/iWorld-y/company_compass/app/compass/pkg/render"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search/factory"
)

// New 根据配置创建引擎及其全部协作方。
// 配置需先通过 Validate；返回的 cleanup 释放模型客户端。
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Engine, func(), error) {
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	generator, err := llm.NewGenerator(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	pdf, err := render.NewPDFRenderer(cfg.PDF)
	if err != nil {
		return nil, nil, fmt.Errorf("PDF 渲染器初始化失败: %w", err)
	}

	cleanup := func() {
		if c, ok := generator.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Warnf("关闭 %s 客户端失败: %v", generator.Name(), err)
			}
		}
	}

	log.Infof("引擎已就绪: llm=%s search=%s pdf=%s", generator.Name(), cfg.Search.Provider, pdf.Name())
	return NewEngine(cfg, searcher, generator, pdf, log), cleanup, nil
}
