package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

//go:embed templates/*.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

// emptyCountry 国家为空时显示的占位符
const emptyCountry = "—"

type textSection struct {
	Degraded   bool
	Notice     string
	Paragraphs []string
}

type executivesSection struct {
	textSection
	People []model.Executive
}

type newsSection struct {
	Degraded bool
	Notice   string
	Lines    []string
	Items    []model.NewsItem
}

// view 模板数据
type view struct {
	Company         string
	Country         string
	Date            string
	DateTime        string
	MissionVision   textSection
	Executives      executivesSection
	News            newsSection
	WebsiteURL      string
	WebsiteText     string
	WebsiteDegraded bool
	RegistryLink    string
	RegistryLabel   string
	Preview         *model.WebsitePreview
}

// HTML 将报告文档渲染为完整的 HTML 页面（UTF-8、内联 CSS，无外部资源）
func HTML(doc model.ReportDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, newView(doc)); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func newView(doc model.ReportDocument) view {
	v := view{
		Company:       doc.Request.Company,
		Country:       doc.Request.Country,
		Date:          doc.Date,
		DateTime:      doc.DateTime,
		MissionVision: textSection{Degraded: doc.MissionVision.Degraded(), Paragraphs: lines(doc.MissionVision.Text)},
		RegistryLink:  doc.RegistryLink,
		RegistryLabel: doc.RegistryLabel,
		Preview:       doc.WebsitePreview,
	}
	if strings.TrimSpace(v.Country) == "" {
		v.Country = emptyCountry
	}
	if v.RegistryLink != "" && v.RegistryLabel == "" {
		v.RegistryLabel = "Registro comercial"
	}

	ex := doc.Executives
	v.Executives.Degraded = ex.Degraded()
	if ex.Structured() {
		v.Executives.People = ex.Executives
		if ex.Degraded() {
			v.Executives.Notice = model.Placeholder(model.SlotExecutives, ex.Err)
		}
	} else {
		v.Executives.Paragraphs = lines(ex.Text)
	}

	news := doc.News
	v.News.Degraded = news.Degraded()
	if news.Structured() {
		v.News.Items = news.News
		if news.Degraded() {
			v.News.Notice = model.Placeholder(model.SlotNews, news.Err)
		}
	} else {
		// 文本模式的降级信息已经在正文中
		v.News.Degraded = false
		v.News.Lines = lines(news.Text)
	}

	web := strings.TrimSpace(doc.Website.Text)
	v.WebsiteDegraded = doc.Website.Degraded()
	if !v.WebsiteDegraded && isURL(web) {
		v.WebsiteURL = web
	} else {
		v.WebsiteText = web
	}
	return v
}

func lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func isURL(s string) bool {
	if strings.ContainsAny(s, " \n\t") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FileName 下载文件名：Informe_<公司名>.pdf，去掉路径分隔符
func FileName(company string) string {
	return baseName(company) + ".pdf"
}

// HTMLFileName 与 FileName 对应的 HTML 文件名
func HTMLFileName(company string) string {
	return baseName(company) + ".html"
}

func baseName(company string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return -1
		}
		return r
	}, strings.TrimSpace(company))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "empresa"
	}
	return "Informe_" + name
}

// WriteFile 将内容写入 dir/name，返回完整路径
func WriteFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
