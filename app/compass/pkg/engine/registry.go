package engine

import (
	"context"
	"net/url"
	"strings"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

// MatchJurisdiction 按国家（忽略大小写与首尾空白）查找配置的司法辖区
func MatchJurisdiction(jurisdictions []config.JurisdictionConfig, country string) (config.JurisdictionConfig, bool) {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" {
		return config.JurisdictionConfig{}, false
	}
	for _, j := range jurisdictions {
		for _, name := range j.Countries {
			if strings.ToLower(strings.TrimSpace(name)) == c {
				return j, true
			}
		}
	}
	return config.JurisdictionConfig{}, false
}

// LookupRegistryLink 仅对已识别的司法辖区查询商业登记链接。
// 返回第一个域名匹配的结果；国家不匹配、请求失败或无匹配时返回空字符串。
func (e *Engine) LookupRegistryLink(ctx context.Context, company, country string) string {
	link, _ := e.lookupRegistry(ctx, company, country)
	return link
}

func (e *Engine) lookupRegistry(ctx context.Context, company, country string) (string, string) {
	j, ok := MatchJurisdiction(e.cfg.Report.Jurisdictions, country)
	if !ok {
		return "", ""
	}

	resp, err := e.searcher.Search(ctx, &search.Request{
		Query:    joinNonEmpty(company, j.Keyword),
		Language: j.Language,
		Country:  j.Country,
	})
	if err != nil {
		e.log.WithField("kind", model.KindOf(err)).Warnf("registry lookup failed: %v", err)
		return "", ""
	}

	for _, r := range resp.Results {
		if HostMatches(r.URL, j.Domain) {
			return r.URL, j.Label
		}
	}
	return "", ""
}

// HostMatches 判断链接的主机名是否为 domain 或其子域名
func HostMatches(link, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
