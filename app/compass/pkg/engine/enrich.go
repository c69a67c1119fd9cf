package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

// EnrichExecutiveLinks 为每位高管查找职业社交主页链接。
// 每条记录独立查询，单条失败只会让该记录没有链接；返回新切片，顺序与输入一致。
func (e *Engine) EnrichExecutiveLinks(ctx context.Context, executives []model.Executive, company, country string) []model.Executive {
	out := make([]model.Executive, len(executives))
	copy(out, executives)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Concurrency.EnrichWorkers, 1))

	for i := range out {
		g.Go(func() error {
			out[i].ProfileLink = e.findProfileLink(gctx, out[i].Name, company, country)
			// 不返回错误，避免取消其它记录的查询
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (e *Engine) findProfileLink(ctx context.Context, name, company, country string) string {
	if name == "" {
		return ""
	}

	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:      joinNonEmpty(name, company, country, e.cfg.Report.ProfileSiteFilter),
		MaxResults: 5,
	})
	if err != nil {
		e.log.WithField("executive", name).Warnf("profile lookup failed: %v", err)
		return ""
	}

	for _, r := range resp.Results {
		if HostMatches(r.URL, e.cfg.Report.ProfileDomain) {
			return r.URL
		}
	}
	return ""
}
