package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

// LookupDirectory 搜索公司高管信息，返回给模型作为参考的纯文本。
// 结果只是未经核实的线索，任何失败都降级为说明文字，不向上返回错误。
func (e *Engine) LookupDirectory(ctx context.Context, company, country string) string {
	query := joinNonEmpty("Directorio ejecutivo", company, country, strings.Join(e.cfg.Report.RoleKeywords, " "))

	resp, err := e.searcher.Search(ctx, &search.Request{Query: query})
	if model.KindOf(err) == model.FailureEmpty {
		// 提供方明确表示没有结果，与空响应同样处理
		e.log.Infof("directory lookup returned no data: %v", err)
		return e.cfg.Report.NoDataMessage
	}
	if err != nil {
		e.log.WithField("kind", model.KindOf(err)).Warnf("directory lookup failed: %v", err)
		return directoryFailureText(err)
	}

	if resp.Empty() {
		return e.cfg.Report.NoDataMessage
	}
	return e.formatDirectory(resp)
}

func (e *Engine) formatDirectory(resp *search.Response) string {
	var sb strings.Builder

	if len(resp.People) > 0 {
		sb.WriteString("Personas identificadas en Google:\n")
		for i, p := range resp.People {
			if e.cfg.Report.MaxPeople > 0 && i >= e.cfg.Report.MaxPeople {
				break
			}
			name := defaultString(p.Name, "Sin nombre")
			role := defaultString(p.Role, "Cargo no especificado")
			fmt.Fprintf(&sb, "- %s — %s (%s)\n", name, role, p.Link)
		}
	}

	if len(resp.Results) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Resultados relevantes:\n")
		for i, r := range resp.Results {
			if e.cfg.Report.MaxOrganic > 0 && i >= e.cfg.Report.MaxOrganic {
				break
			}
			fmt.Fprintf(&sb, "- %s: %s (%s)\n", r.Title, r.Snippet, r.URL)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return e.cfg.Report.NoDataMessage
	}
	return text
}

func directoryFailureText(err error) string {
	var f *model.Failure
	if errors.As(err, &f) && f.Status != 0 {
		return fmt.Sprintf("No fue posible obtener información del directorio (Código %d).", f.Status)
	}
	return fmt.Sprintf("No fue posible obtener información del directorio (%s).", model.KindOf(err))
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// joinNonEmpty 以空格连接非空片段
func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
