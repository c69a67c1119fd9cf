package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/company_compass/app/compass/internal/service"
	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/engine"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/render"
)

// stubRunner 返回固定报告，公司名为空时返回校验错误
type stubRunner struct {
	pdfErr error
}

func (s stubRunner) Run(_ context.Context, opts engine.RunOptions) (*engine.Report, error) {
	req := opts.Request.Normalized()
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	doc := model.ReportDocument{
		Request:       req,
		Date:          "07-03-2025",
		DateTime:      "07-03-2025 09:05:04",
		MissionVision: model.Answer{Slot: model.SlotMissionVision, Mode: model.ModeText, Text: "Crecer"},
		Executives:    model.Answer{Slot: model.SlotExecutives, Mode: model.ModeText, Text: "Ana Pérez — CEO"},
		News:          model.Answer{Slot: model.SlotNews, Mode: model.ModeText, Text: "Noticia"},
		Website:       model.Answer{Slot: model.SlotWebsite, Mode: model.ModeText, Text: "https://www.acme.cl"},
	}
	html, err := render.HTML(doc)
	if err != nil {
		return nil, err
	}
	r := &engine.Report{ID: "test-id", Document: doc, HTML: html, FileName: render.FileName(req.Company)}
	if s.pdfErr != nil {
		r.PDFErr = s.pdfErr
	} else {
		r.PDF = []byte("%PDF-1.4 fake")
	}
	return r, nil
}

func newTestServer(r service.Runner) http.Handler {
	svc := service.NewReportServiceWithRunner(r, log.DefaultLogger)
	return NewHTTPServer(&config.ServerConfig{Timeout: "10s"}, svc, log.DefaultLogger)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	rec := serve(newTestServer(stubRunner{}), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generar Informe")
	assert.Contains(t, rec.Body.String(), `name="company"`)
}

func TestHealthz(t *testing.T) {
	rec := serve(newTestServer(stubRunner{}), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReportForm(t *testing.T) {
	rec := serve(newTestServer(stubRunner{}), postForm(url.Values{"company": {"Acme Corp"}, "country": {"Chile"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Informe generado correctamente.")
	assert.Contains(t, body, "srcdoc=")
	assert.Contains(t, body, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")))
	assert.Contains(t, body, `download="Informe_Acme Corp.pdf"`)
}

func TestReportForm_PDFUnavailable(t *testing.T) {
	rec := serve(newTestServer(stubRunner{pdfErr: errors.New("no wkhtmltopdf")}), postForm(url.Values{"company": {"Acme Corp"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "srcdoc=")
	assert.Contains(t, body, "No fue posible generar el PDF")
	assert.NotContains(t, body, "data:application/pdf")
}

func TestReportForm_MissingCompany(t *testing.T) {
	rec := serve(newTestServer(stubRunner{}), postForm(url.Values{"company": {"  "}, "country": {"Chile"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Debes ingresar un nombre de empresa.")
	assert.Contains(t, rec.Body.String(), `value="Chile"`)
}

func TestCreateReportAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"company":"Acme Corp","country":"Chile"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newTestServer(stubRunner{}), req)

	require.Equal(t, http.StatusOK, rec.Code)
	var reply struct {
		ID           string `json:"id"`
		Company      string `json:"company"`
		HTML         string `json:"html"`
		PDFAvailable bool   `json:"pdf_available"`
		PDFFileName  string `json:"pdf_file_name"`
		PDFBase64    string `json:"pdf_base64"`
		Document     struct {
			Website struct {
				Text string `json:"text"`
			} `json:"website"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))

	assert.Equal(t, "test-id", reply.ID)
	assert.Equal(t, "Acme Corp", reply.Company)
	assert.Contains(t, reply.HTML, "Acme Corp")
	assert.True(t, reply.PDFAvailable)
	assert.Equal(t, "Informe_Acme Corp.pdf", reply.PDFFileName)
	pdf, err := base64.StdEncoding.DecodeString(reply.PDFBase64)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
	assert.Equal(t, "https://www.acme.cl", reply.Document.Website.Text)
}

func TestCreateReportAPI_InvalidRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"company":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newTestServer(stubRunner{}), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ReasonInvalidRequest)
}

func TestDownloadPDF(t *testing.T) {
	rec := serve(newTestServer(stubRunner{}), httptest.NewRequest(http.MethodGet, "/api/v1/reports/pdf?company=Acme+Corp&country=Chile", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Informe_Acme Corp.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestDownloadPDF_FileNameIsEncoded(t *testing.T) {
	for _, company := range []string{`Compañía "Uno"`, "Acme; Corp"} {
		t.Run(company, func(t *testing.T) {
			q := url.Values{"company": {company}}
			rec := serve(newTestServer(stubRunner{}), httptest.NewRequest(http.MethodGet, "/api/v1/reports/pdf?"+q.Encode(), nil))
			require.Equal(t, http.StatusOK, rec.Code)

			disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, "Informe_"+company+".pdf", params["filename"])
		})
	}
}

func TestDownloadPDF_Unavailable(t *testing.T) {
	rec := serve(newTestServer(stubRunner{pdfErr: errors.New("boom")}), httptest.NewRequest(http.MethodGet, "/api/v1/reports/pdf?company=Acme", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF_UNAVAILABLE")
}

func TestConfigErrorOnEveryRoute(t *testing.T) {
	svc, cleanup, err := service.NewReportService(config.Default(), log.DefaultLogger)
	require.NoError(t, err)
	defer cleanup()
	h := NewHTTPServer(&config.ServerConfig{}, svc, log.DefaultLogger)

	for _, path := range []string{"/", "/healthz"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Error de configuración", path)
	}

	rec := serve(h, postForm(url.Values{"company": {"Acme Corp"}}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"company":"Acme Corp"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(h, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ReasonConfigError)
}
