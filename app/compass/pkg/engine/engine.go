package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/llm"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/render"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

// Engine 报告生成引擎
type Engine struct {
	cfg       *config.Config
	searcher  search.Searcher
	generator llm.Generator
	pdf       render.PDFRenderer
	limiter   *rate.Limiter
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option 引擎可选项
type Option func(*Engine)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine 创建引擎实例。pdf 为 nil 时不输出 PDF。
func NewEngine(cfg *config.Config, searcher search.Searcher, generator llm.Generator, pdf render.PDFRenderer, log logrus.FieldLogger, opts ...Option) *Engine {
	if pdf == nil {
		pdf = render.Disabled{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Engine{
		cfg:       cfg,
		searcher:  searcher,
		generator: generator,
		pdf:       pdf,
		limiter:   NewLimiter(cfg.LLM.Pacing()),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewLimiter 两次模型调用之间至少间隔 pacing，第一次调用不等待
func NewLimiter(pacing time.Duration) *rate.Limiter {
	if pacing <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(pacing), 1)
}

// RunOptions 运行选项
type RunOptions struct {
	Request          model.ReportRequest
	ProgressCallback func(status string, progress int)
}

// Report 一次生成的结果
type Report struct {
	ID       string
	Document model.ReportDocument
	HTML     []byte
	PDF      []byte
	// PDFErr 非空时 PDF 不可用，HTML 仍然有效
	PDFErr   error
	FileName string
}

// PDFAvailable 是否生成了 PDF
func (r *Report) PDFAvailable() bool {
	return r.PDFErr == nil && len(r.PDF) > 0
}

// Generate 使用默认选项生成报告
func (e *Engine) Generate(ctx context.Context, req model.ReportRequest) (*Report, error) {
	return e.Run(ctx, RunOptions{Request: req})
}

// Run 按固定顺序执行整条流水线：
// 目录搜索 → 四个栏目 → 高管链接补全 → 商业登记链接 → 组装 → HTML → PDF。
// 只有输入校验与 HTML 模板错误会中断，其余失败都降级到对应栏目。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	req := opts.Request.Normalized()
	if err := req.Validate(e.cfg.Report.RequireCountry); err != nil {
		return nil, err
	}

	progress := func(status string, p int) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(status, p)
		}
	}

	report := &Report{ID: uuid.NewString(), FileName: render.FileName(req.Company)}
	log := e.log.WithField("report_id", report.ID)
	log.Infof("开始生成报告: company=%q country=%q", req.Company, req.Country)
	progress("starting", 0)

	hint := e.LookupDirectory(ctx, req.Company, req.Country)
	progress("directory lookup", 10)

	answers := make([]model.Answer, 0, len(model.Slots()))
	for i, slot := range model.Slots() {
		a := e.AnswerQuestion(ctx, slot, req, hint)
		answers = append(answers, a)
		progress(fmt.Sprintf("answered %s", slot), 20+(i+1)*15)
	}

	exec := &answers[model.SlotExecutives]
	if exec.Structured() && len(exec.Executives) > 0 {
		exec.Executives = e.EnrichExecutiveLinks(ctx, exec.Executives, req.Company, req.Country)
		progress("executive enrichment", 82)
	}

	link, label := e.lookupRegistry(ctx, req.Company, req.Country)
	progress("registry lookup", 88)

	report.Document = AssembleDocument(req, answers, hint, link, label, e.now())
	report.Document.WebsitePreview = e.PreviewWebsite(report.Document.Website)

	html, err := render.HTML(report.Document)
	if err != nil {
		log.Errorf("渲染 HTML 失败: %v", err)
		return nil, err
	}
	report.HTML = html
	progress("html rendered", 92)

	report.PDF, report.PDFErr = e.pdf.Render(ctx, html)
	if report.PDFErr != nil {
		report.PDF = nil
		log.WithField("backend", e.pdf.Name()).Warnf("PDF 生成失败，仅返回 HTML: %v", report.PDFErr)
	}

	degraded := 0
	for _, a := range answers {
		if a.Degraded() {
			degraded++
		}
	}
	log.WithField("degraded_slots", degraded).Info("报告生成完成")
	progress("completed", 100)
	return report, nil
}
