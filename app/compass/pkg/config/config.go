package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/company_compass/app/compass/pkg/model"
)

// ErrMissingCredential 缺少必需的 API 凭证
var ErrMissingCredential = errors.New("missing credential")

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Report      ReportConfig      `yaml:"report"`
	PDF         PDFConfig         `yaml:"pdf"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai | gemini | claude
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	// PacingSeconds 两次模型调用之间的固定间隔
	PacingSeconds  float64 `yaml:"pacing_seconds"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Pacing 模型调用间隔
func (c LLMConfig) Pacing() time.Duration {
	return time.Duration(c.PacingSeconds * float64(time.Second))
}

// Timeout 单次模型调用超时，0 表示不设置
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"` // serpapi | tavily | searxng
	SerpAPI  SerpAPIConfig `yaml:"serpapi"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// SerpAPIConfig SerpAPI 配置
type SerpAPIConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Engine   string `yaml:"engine"`
	Language string `yaml:"hl"`
	Country  string `yaml:"gl"`
	Timeout  int    `yaml:"timeout"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// ReportConfig 报告内容相关配置
type ReportConfig struct {
	RequireCountry bool     `yaml:"require_country"`
	RoleKeywords   []string `yaml:"role_keywords"`
	MaxPeople      int      `yaml:"max_people"`
	MaxOrganic     int      `yaml:"max_organic"`
	NoDataMessage  string   `yaml:"no_data_message"`
	// Modes 每个栏目的解析策略，键为栏目名
	Modes         map[string]string    `yaml:"modes"`
	Jurisdictions []JurisdictionConfig `yaml:"jurisdictions"`
	// ProfileDomain 高管主页链接需要匹配的域名
	ProfileDomain string `yaml:"profile_domain"`
	// ProfileSiteFilter 附加在高管搜索中的站点限定
	ProfileSiteFilter string `yaml:"profile_site_filter"`
	// PreviewWebsite 抓取官网页面标题与摘要，失败时忽略
	PreviewWebsite bool `yaml:"preview_website"`
	// PreviewTimeout 抓取官网的超时时间（秒）
	PreviewTimeout int `yaml:"preview_timeout"`
}

// JurisdictionConfig 特定司法辖区的商业登记查询
type JurisdictionConfig struct {
	Label     string   `yaml:"label"`
	Countries []string `yaml:"countries"`
	Keyword   string   `yaml:"keyword"`
	Domain    string   `yaml:"domain"`
	Language  string   `yaml:"hl"`
	Country   string   `yaml:"gl"`
}

// PDFConfig PDF 渲染配置
type PDFConfig struct {
	Backend        string `yaml:"backend"` // wkhtmltopdf | chrome | none
	WkhtmltopdfBin string `yaml:"wkhtmltopdf_path"`
	ChromePath     string `yaml:"chrome_path"`
	OutputDir      string `yaml:"output_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout PDF 渲染超时，0 表示不限
func (p PDFConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	EnrichWorkers int `yaml:"enrich_workers"`
}

// Secrets 来自运行环境的凭证
type Secrets struct {
	SerpAPIKey   string `env:"SERPAPI_KEY"`
	TavilyAPIKey string `env:"TAVILY_API_KEY"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	ClaudeAPIKey string `env:"ANTHROPIC_API_KEY"`
}

// DefaultPacingSeconds 未配置时模型调用之间的间隔
const DefaultPacingSeconds = 5

// Default 返回带默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.LLM.PacingSeconds = DefaultPacingSeconds
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.Model = "gemini-2.5-flash"
		case "claude":
			c.LLM.Model = "claude-sonnet-4-5"
		}
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "serpapi"
	}
	if c.Search.SerpAPI.Engine == "" {
		c.Search.SerpAPI.Engine = "google"
	}
	if c.Search.SerpAPI.Language == "" {
		c.Search.SerpAPI.Language = "es"
	}
	if c.Search.SerpAPI.Country == "" {
		c.Search.SerpAPI.Country = "cl"
	}
	if len(c.Report.RoleKeywords) == 0 {
		c.Report.RoleKeywords = []string{"CEO", "CFO", "gerente general", "sitio web", "LinkedIn"}
	}
	if c.Report.MaxPeople == 0 {
		c.Report.MaxPeople = 10
	}
	if c.Report.MaxOrganic == 0 {
		c.Report.MaxOrganic = 5
	}
	if c.Report.NoDataMessage == "" {
		c.Report.NoDataMessage = "No se encontraron datos relevantes del directorio."
	}
	if c.Report.Modes == nil {
		c.Report.Modes = map[string]string{}
	}
	if c.Report.Jurisdictions == nil {
		c.Report.Jurisdictions = []JurisdictionConfig{{
			Label:     "Mercantil.com (Chile)",
			Countries: []string{"chile", "cl"},
			Keyword:   "Chile mercantil",
			Domain:    "mercantil.com",
			Language:  "es",
			Country:   "cl",
		}}
	}
	if c.Report.ProfileDomain == "" {
		c.Report.ProfileDomain = "linkedin.com"
	}
	if c.Report.ProfileSiteFilter == "" {
		c.Report.ProfileSiteFilter = "site:linkedin.com/in"
	}
	if c.Report.PreviewTimeout == 0 {
		c.Report.PreviewTimeout = 15
	}
	if c.PDF.Backend == "" {
		c.PDF.Backend = "wkhtmltopdf"
	}
	if c.PDF.OutputDir == "" {
		c.PDF.OutputDir = "output"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:8000"
	}
	if c.Server.Timeout == "" {
		// 一份报告包含多次串行的模型调用，超时需要足够长
		c.Server.Timeout = "300s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.EnrichWorkers == 0 {
		c.Concurrency.EnrichWorkers = 4
	}
}

// LoadConfig 从指定路径加载配置，并用环境变量中的凭证覆盖
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// 文件中显式写 0 表示不限速，因此在解析前预置默认间隔
	var cfg Config
	cfg.LLM.PacingSeconds = DefaultPacingSeconds
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadDotEnv 加载 .env 文件（不存在时忽略），不覆盖已有环境变量
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv 用环境变量中的凭证覆盖文件配置
func (c *Config) ApplyEnv() error {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if s.SerpAPIKey != "" {
		c.Search.SerpAPI.APIKey = s.SerpAPIKey
	}
	if s.TavilyAPIKey != "" {
		c.Search.Tavily.APIKey = s.TavilyAPIKey
	}

	llmKey := s.LLMAPIKey
	switch c.LLM.Provider {
	case "", "gemini":
		if s.GeminiAPIKey != "" {
			llmKey = s.GeminiAPIKey
		} else if llmKey == "" {
			llmKey = s.GoogleAPIKey
		}
	case "claude":
		if s.ClaudeAPIKey != "" {
			llmKey = s.ClaudeAPIKey
		}
	}
	if llmKey != "" {
		c.LLM.APIKey = llmKey
	}
	return nil
}

// Validate 校验配置，返回所有问题的合集
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.LLM.Provider {
	case "openai", "gemini", "claude":
	default:
		result = multierror.Append(result, fmt.Errorf("unknown llm provider: %s", c.LLM.Provider))
	}
	if c.LLM.APIKey == "" {
		result = multierror.Append(result, fmt.Errorf("%w: llm api key", ErrMissingCredential))
	}
	if c.LLM.Provider == "openai" && c.LLM.Model == "" {
		result = multierror.Append(result, errors.New("llm model is required for openai provider"))
	}
	if c.LLM.PacingSeconds < 0 {
		result = multierror.Append(result, errors.New("llm pacing_seconds must not be negative"))
	}

	switch c.Search.Provider {
	case "serpapi":
		if c.Search.SerpAPI.APIKey == "" {
			result = multierror.Append(result, fmt.Errorf("%w: serpapi api key", ErrMissingCredential))
		}
	case "tavily":
		if c.Search.Tavily.APIKey == "" {
			result = multierror.Append(result, fmt.Errorf("%w: tavily api key", ErrMissingCredential))
		}
	case "searxng":
		if c.Search.SearXNG.BaseURL == "" {
			result = multierror.Append(result, errors.New("searxng base url is missing"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown search provider: %s", c.Search.Provider))
	}

	for name, mode := range c.Report.Modes {
		slot, err := model.ParseSlot(name)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("unknown report slot in modes: %s", name))
			continue
		}
		switch slot {
		case model.SlotExecutives, model.SlotNews:
			if m := model.Mode(mode); m != model.ModeText && m != model.ModeStructured {
				result = multierror.Append(result, fmt.Errorf("report mode for %s must be text or structured, got %q", name, mode))
			}
		default:
			if model.Mode(mode) != model.ModeText {
				result = multierror.Append(result, fmt.Errorf("report mode for %s only supports text", name))
			}
		}
	}

	for i, j := range c.Report.Jurisdictions {
		if len(j.Countries) == 0 || j.Domain == "" {
			result = multierror.Append(result, fmt.Errorf("jurisdiction #%d needs countries and domain", i))
		}
	}

	switch c.PDF.Backend {
	case "wkhtmltopdf", "chrome", "none":
	default:
		result = multierror.Append(result, fmt.Errorf("unknown pdf backend: %s", c.PDF.Backend))
	}

	return result.ErrorOrNil()
}
