package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
)

// ErrPDFDisabled 配置关闭了 PDF 输出
var ErrPDFDisabled = errors.New("pdf output disabled")

// PDFRenderer 将完整的 HTML 文档转换为 PDF
type PDFRenderer interface {
	Name() string
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// NewPDFRenderer 根据配置创建 PDF 渲染器
func NewPDFRenderer(cfg config.PDFConfig) (PDFRenderer, error) {
	switch cfg.Backend {
	case "", "wkhtmltopdf":
		return NewWkhtmltopdf(cfg.WkhtmltopdfBin, cfg.Timeout()), nil
	case "chrome":
		return NewChrome(cfg.ChromePath, cfg.Timeout()), nil
	case "none":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown pdf backend: %s", cfg.Backend)
	}
}

// Disabled 不产生 PDF 的渲染器
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) Render(context.Context, []byte) ([]byte, error) {
	return nil, ErrPDFDisabled
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
