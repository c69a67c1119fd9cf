package server

import (
	"embed"
	"encoding/base64"
	"html/template"
	"mime"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/company_compass/app/compass/internal/service"
	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/engine"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

//go:embed assets/*
var assets embed.FS

var pages = template.Must(template.ParseFS(assets, "assets/*.html.tmpl"))

// formPage 首页表单数据
type formPage struct {
	Company string
	Country string
	Error   string
}

// resultPage 结果页数据
type resultPage struct {
	Company  string
	HTML     string
	PDFLink  template.URL
	FileName string
}

// reportRequest JSON 接口请求
type reportRequest struct {
	Company string `json:"company"`
	Country string `json:"country"`
}

// reportReply JSON 接口响应
type reportReply struct {
	ID           string               `json:"id"`
	Company      string               `json:"company"`
	Country      string               `json:"country"`
	HTML         string               `json:"html"`
	PDFAvailable bool                 `json:"pdf_available"`
	PDFFileName  string               `json:"pdf_file_name"`
	PDFBase64    string               `json:"pdf_base64,omitempty"`
	PDFError     string               `json:"pdf_error,omitempty"`
	Document     model.ReportDocument `json:"document"`
}

// NewHTTPServer 创建 HTTP 服务
func NewHTTPServer(c *config.ServerConfig, s *service.ReportService, logger log.Logger) *http.Server {
	h := &handler{svc: s, log: log.NewHelper(logger)}

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(h.configGuard),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/", h.index)
	srv.HandleFunc("/report", h.report)
	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	api := srv.Route("/api/v1")
	api.POST("/reports", h.createReport)
	api.GET("/reports/pdf", h.downloadPDF)

	return srv
}

type handler struct {
	svc *service.ReportService
	log *log.Helper
}

// configGuard 配置无效时所有路由都返回 503 与配置错误
func (h *handler) configGuard(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		cfgErr := h.svc.ConfigError()
		if cfgErr == nil {
			next.ServeHTTP(w, r)
			return
		}
		se := service.ConfigUnavailable(cfgErr)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.DefaultErrorEncoder(w, r, se)
			return
		}
		h.renderPage(w, nethttp.StatusServiceUnavailable, "error.html.tmpl", struct{ Message string }{se.Message})
	})
}

func (h *handler) index(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}
	h.renderPage(w, nethttp.StatusOK, "index.html.tmpl", formPage{})
}

func (h *handler) report(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		nethttp.Redirect(w, r, "/", nethttp.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, nethttp.StatusBadRequest, "index.html.tmpl", formPage{Error: "Formulario inválido."})
		return
	}
	company, country := r.PostForm.Get("company"), r.PostForm.Get("country")

	report, err := h.svc.Generate(r.Context(), company, country)
	if err != nil {
		se := errors.FromError(err)
		if se.Reason == service.ReasonInvalidRequest {
			h.renderPage(w, int(se.Code), "index.html.tmpl", formPage{Company: company, Country: country, Error: se.Message})
			return
		}
		h.renderPage(w, int(se.Code), "error.html.tmpl", struct{ Message string }{se.Message})
		return
	}

	page := resultPage{
		Company:  report.Document.Request.Company,
		HTML:     string(report.HTML),
		FileName: report.FileName,
	}
	if report.PDFAvailable() {
		page.PDFLink = template.URL("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(report.PDF))
	}
	h.renderPage(w, nethttp.StatusOK, "result.html.tmpl", page)
}

func (h *handler) createReport(ctx http.Context) error {
	var in reportRequest
	if err := ctx.Bind(&in); err != nil {
		return errors.BadRequest(service.ReasonInvalidRequest, "JSON inválido.").WithCause(err)
	}

	report, err := h.svc.Generate(ctx, in.Company, in.Country)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, newReportReply(report))
}

func (h *handler) downloadPDF(ctx http.Context) error {
	q := ctx.Query()
	report, err := h.svc.Generate(ctx, q.Get("company"), q.Get("country"))
	if err != nil {
		return err
	}
	if !report.PDFAvailable() {
		msg := "No fue posible generar el PDF."
		if report.PDFErr != nil {
			msg += " " + report.PDFErr.Error()
		}
		return errors.ServiceUnavailable("PDF_UNAVAILABLE", msg)
	}

	w := ctx.Response()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(report.FileName))
	w.WriteHeader(nethttp.StatusOK)
	_, err = w.Write(report.PDF)
	return err
}

// attachment 生成下载头，非 ASCII 文件名按 RFC 2231 编码
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}

func newReportReply(r *engine.Report) reportReply {
	reply := reportReply{
		ID:           r.ID,
		Company:      r.Document.Request.Company,
		Country:      r.Document.Request.Country,
		HTML:         string(r.HTML),
		PDFAvailable: r.PDFAvailable(),
		PDFFileName:  r.FileName,
		Document:     r.Document,
	}
	if reply.PDFAvailable {
		reply.PDFBase64 = base64.StdEncoding.EncodeToString(r.PDF)
	} else if r.PDFErr != nil {
		reply.PDFError = r.PDFErr.Error()
	}
	return reply
}

func (h *handler) renderPage(w nethttp.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorf("render %s failed: %v", name, err)
	}
}
