package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

const (
	// DateLayout 报告日期格式
	DateLayout = "02-01-2006"
	// DateTimeLayout 报告生成时间格式
	DateTimeLayout = "02-01-2006 15:04:05"
)

var brTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// Paragraphs 将文本按换行拆分为段落，去掉空行与首尾空白
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = brTag.ReplaceAllString(text, "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// NormalizeBreaks 每行作为一个段落，段落之间用空行分隔。重复调用结果不变。
func NormalizeBreaks(text string) string {
	return strings.Join(Paragraphs(text), "\n\n")
}

// AssembleDocument 组装文档：打时间戳、规范化文本答案并写入全部栏目
func AssembleDocument(req model.ReportRequest, answers []model.Answer, directoryHint, registryLink, registryLabel string, now time.Time) model.ReportDocument {
	doc := model.ReportDocument{
		Request:       req,
		Date:          now.Format(DateLayout),
		DateTime:      now.Format(DateTimeLayout),
		GeneratedAt:   now,
		DirectoryHint: directoryHint,
		RegistryLink:  strings.TrimSpace(registryLink),
	}
	if doc.RegistryLink != "" {
		doc.RegistryLabel = registryLabel
	}

	for _, a := range answers {
		doc.SetAnswer(normalizeAnswer(a))
	}
	return doc
}

func normalizeAnswer(a model.Answer) model.Answer {
	if a.Mode == "" {
		a.Mode = model.ModeText
	}
	if a.Mode == model.ModeText {
		a.Text = NormalizeBreaks(a.Text)
		return a
	}

	executives := make([]model.Executive, 0, len(a.Executives))
	for _, ex := range a.Executives {
		ex.Name = strings.TrimSpace(ex.Name)
		ex.Title = strings.TrimSpace(ex.Title)
		ex.ProfileLink = strings.TrimSpace(ex.ProfileLink)
		if ex.Name == "" {
			continue
		}
		executives = append(executives, ex)
	}
	a.Executives = executives

	news := make([]model.NewsItem, 0, len(a.News))
	for _, n := range a.News {
		n.Title = strings.TrimSpace(n.Title)
		n.Link = strings.TrimSpace(n.Link)
		if n.Title == "" {
			continue
		}
		news = append(news, n)
	}
	a.News = news
	return a
}
