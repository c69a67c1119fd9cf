package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
	"github.com/iWorld-y/company_compass/app/compass/pkg/search"
)

const defaultBaseURL = "https://serpapi.com/search"

const op = "serpapi search"

// Client SerpAPI 客户端
type Client struct {
	apiKey   string
	baseURL  string
	engine   string
	language string
	country  string
	client   *http.Client
}

// Options 客户端参数
type Options struct {
	APIKey     string
	BaseURL    string
	Engine     string
	Language   string // hl
	Country    string // gl
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient 创建一个新的 SerpAPI 客户端
func NewClient(opts Options) *Client {
	c := &Client{
		apiKey:   opts.APIKey,
		baseURL:  opts.BaseURL,
		engine:   opts.Engine,
		language: opts.Language,
		country:  opts.Country,
		client:   opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.engine == "" {
		c.engine = "google"
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: opts.Timeout}
	}
	return c
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchResponse SerpAPI 响应中用到的字段
type SearchResponse struct {
	Error          string          `json:"error"`
	KnowledgeGraph *KnowledgeGraph `json:"knowledge_graph"`
	OrganicResults []OrganicResult `json:"organic_results"`
}

// KnowledgeGraph 知识面板
type KnowledgeGraph struct {
	Title  string   `json:"title"`
	People []Person `json:"people"`
}

// Person 知识面板中的人物
type Person struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Link       string   `json:"link"`
	Extensions []string `json:"extensions"`
}

// OrganicResult 自然搜索结果
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	resp, err := c.doSearch(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &search.Response{}
	if resp.KnowledgeGraph != nil {
		for _, p := range resp.KnowledgeGraph.People {
			role := p.Role
			if role == "" && len(p.Extensions) > 0 {
				role = p.Extensions[0]
			}
			out.People = append(out.People, search.Person{Name: p.Name, Role: role, Link: p.Link})
		}
	}
	for _, r := range resp.OrganicResults {
		out.Results = append(out.Results, search.Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	if req.MaxResults > 0 && len(out.Results) > req.MaxResults {
		out.Results = out.Results[:req.MaxResults]
	}

	return out, nil
}

func (c *Client) doSearch(ctx context.Context, req *search.Request) (*SearchResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, model.NewFailure(model.FailureTransport, op, fmt.Errorf("invalid base URL: %w", err))
	}

	q := u.Query()
	q.Set("engine", c.engine)
	q.Set("q", req.Query)
	q.Set("api_key", c.apiKey)
	if hl := firstNonEmpty(req.Language, c.language); hl != "" {
		q.Set("hl", hl)
	}
	if gl := firstNonEmpty(req.Country, c.country); gl != "" {
		q.Set("gl", gl)
	}
	if req.MaxResults > 0 {
		q.Set("num", strconv.Itoa(req.MaxResults))
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, model.NewFailure(model.FailureTransport, op, fmt.Errorf("create request failed: %w", err))
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, model.NewFailure(model.FailureTransport, op, fmt.Errorf("request failed: %w", err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, model.NewFailure(model.FailureTransport, op, fmt.Errorf("read body failed: %w", err))
	}

	if res.StatusCode != http.StatusOK {
		return nil, model.StatusFailure(op, res.StatusCode, truncate(string(body), 200))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, model.NewFailure(model.FailureDecode, op, fmt.Errorf("unmarshal response failed: %w", err))
	}
	if searchResp.Error != "" && len(searchResp.OrganicResults) == 0 && searchResp.KnowledgeGraph == nil {
		// SerpAPI 在无结果时也可能返回 200 + error 字段
		return nil, model.NewFailure(model.FailureEmpty, op, errors.New(searchResp.Error))
	}

	return &searchResp, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate 按字符截断，避免切开多字节字符
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
