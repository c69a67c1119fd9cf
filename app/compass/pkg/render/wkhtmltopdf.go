package render

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// pathMu 保护 go-wkhtmltopdf 的全局可执行文件路径
var pathMu sync.Mutex

// Wkhtmltopdf 调用 wkhtmltopdf 可执行文件渲染 PDF
type Wkhtmltopdf struct {
	bin     string
	timeout time.Duration
}

// NewWkhtmltopdf bin 为空时按 WKHTMLTOPDF_PATH 与 PATH 查找
func NewWkhtmltopdf(bin string, timeout time.Duration) *Wkhtmltopdf {
	return &Wkhtmltopdf{bin: bin, timeout: timeout}
}

func (w *Wkhtmltopdf) Name() string { return "wkhtmltopdf" }

func (w *Wkhtmltopdf) Render(ctx context.Context, html []byte) ([]byte, error) {
	pdfg, err := w.generator()
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}

	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Dpi.Set(150)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	pdfg.AddPage(page)

	ctx, cancel := withTimeout(ctx, w.timeout)
	defer cancel()

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}
	return pdfg.Bytes(), nil
}

func (w *Wkhtmltopdf) generator() (*wkhtmltopdf.PDFGenerator, error) {
	pathMu.Lock()
	defer pathMu.Unlock()
	if w.bin != "" {
		wkhtmltopdf.SetPath(w.bin)
	}
	return wkhtmltopdf.NewPDFGenerator()
}
