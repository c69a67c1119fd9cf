package engine

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)

// maxExcerpt 摘要最大字符数
const maxExcerpt = 280

// ExtractURL 从官网栏目的回答中取出第一个 http(s) 链接
func ExtractURL(text string) string {
	m := urlPattern.FindString(text)
	if m == "" {
		return ""
	}
	m = strings.TrimRight(m, ".,;:")
	u, err := url.Parse(m)
	if err != nil || u.Host == "" {
		return ""
	}
	return m
}

// PreviewWebsite 抓取官网首页并提取标题与摘要。
// 仅在开启时执行，任何失败都只记录日志并返回 nil。
func (e *Engine) PreviewWebsite(answer model.Answer) *model.WebsitePreview {
	if !e.cfg.Report.PreviewWebsite || answer.Degraded() {
		return nil
	}
	link := ExtractURL(answer.Text)
	if link == "" {
		return nil
	}

	timeout := time.Duration(e.cfg.Report.PreviewTimeout) * time.Second
	article, err := readability.FromURL(link, timeout)
	if err != nil {
		e.log.WithField("url", link).Warnf("website preview failed: %v", err)
		return nil
	}

	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(article.TextContent)
	}
	return &model.WebsitePreview{
		URL:      link,
		Title:    strings.TrimSpace(article.Title),
		SiteName: strings.TrimSpace(article.SiteName),
		Excerpt:  truncateRunes(strings.Join(strings.Fields(excerpt), " "), maxExcerpt),
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
