package factory

import (
	"fmt"
	"time"

	"github.com/iWorld-y/company_compass/app/compass/pkg/config"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
	"github.com/iWorld-y/company_compass/app/compass/pkg/searxng"
	"github.com/iWorld-y/company_compass/app/compass/pkg/serpapi"
	"github.com/iWorld-y/company_compass/app/compass/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 默认回退逻辑：有 serpapi key 用 serpapi，其次 tavily
		switch {
		case cfg.Search.SerpAPI.APIKey != "":
			provider = "serpapi"
		case cfg.Search.Tavily.APIKey != "":
			provider = "tavily"
		default:
			return nil, fmt.Errorf("search provider not configured")
		}
	}

	switch provider {
	case "serpapi":
		sc := cfg.Search.SerpAPI
		if sc.APIKey == "" {
			return nil, fmt.Errorf("serpapi api key is missing")
		}
		return serpapi.NewClient(serpapi.Options{
			APIKey:   sc.APIKey,
			BaseURL:  sc.BaseURL,
			Engine:   sc.Engine,
			Language: sc.Language,
			Country:  sc.Country,
			Timeout:  time.Duration(sc.Timeout) * time.Second,
		}), nil

	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
