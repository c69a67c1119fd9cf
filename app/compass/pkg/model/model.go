package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRequest 输入校验失败
var ErrInvalidRequest = errors.New("invalid report request")

// ReportRequest 一次报告生成的输入
type ReportRequest struct {
	Company string `json:"company"`
	Country string `json:"country"`
}

// Normalized 返回去除首尾空白后的请求
func (r ReportRequest) Normalized() ReportRequest {
	return ReportRequest{
		Company: strings.TrimSpace(r.Company),
		Country: strings.TrimSpace(r.Country),
	}
}

// Validate 校验必填字段，requireCountry 控制国家是否必填
func (r ReportRequest) Validate(requireCountry bool) error {
	var missing []string
	if strings.TrimSpace(r.Company) == "" {
		missing = append(missing, "company")
	}
	if requireCountry && strings.TrimSpace(r.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

// Slot 报告中固定的信息栏目
type Slot int

const (
	SlotMissionVision Slot = iota
	SlotExecutives
	SlotNews
	SlotWebsite
)

// Slots 按固定顺序返回全部栏目
func Slots() []Slot {
	return []Slot{SlotMissionVision, SlotExecutives, SlotNews, SlotWebsite}
}

func (s Slot) String() string {
	switch s {
	case SlotMissionVision:
		return "mission_vision"
	case SlotExecutives:
		return "executives"
	case SlotNews:
		return "news"
	case SlotWebsite:
		return "website"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Label 栏目在报告中的展示名称
func (s Slot) Label() string {
	switch s {
	case SlotMissionVision:
		return "la misión y visión"
	case SlotExecutives:
		return "los directivos"
	case SlotNews:
		return "las noticias"
	case SlotWebsite:
		return "el sitio web oficial"
	default:
		return s.String()
	}
}

// ParseSlot 将配置中的名称解析为栏目
func ParseSlot(name string) (Slot, error) {
	for _, s := range Slots() {
		if s.String() == strings.ToLower(strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", name)
}

// Mode 栏目答案的解析策略
type Mode string

const (
	// ModeText 原样使用模型返回的文本
	ModeText Mode = "text"
	// ModeStructured 期望模型返回 JSON 数组
	ModeStructured Mode = "structured"
)

// Executive 结构化模式下的高管记录
type Executive struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	ProfileLink string `json:"profile_link,omitempty"`
}

// NewsItem 结构化模式下的新闻记录
type NewsItem struct {
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

// Answer 单个栏目的结果
type Answer struct {
	Slot       Slot        `json:"-"`
	Mode       Mode        `json:"mode"`
	Text       string      `json:"text,omitempty"`
	Executives []Executive `json:"executives,omitempty"`
	News       []NewsItem  `json:"news,omitempty"`
	// Err 非空表示该栏目已降级为占位内容
	Err error `json:"-"`
}

// Structured 是否为结构化答案
func (a Answer) Structured() bool {
	return a.Mode == ModeStructured
}

// Degraded 该栏目是否因上游失败而降级
func (a Answer) Degraded() bool {
	return a.Err != nil
}

// Populated 栏目是否已写入（包括占位内容）
func (a Answer) Populated() bool {
	return a.Mode != ""
}

// ReportDocument 渲染模板所需的完整文档
type ReportDocument struct {
	Request       ReportRequest `json:"request"`
	Date          string        `json:"date"`
	DateTime      string        `json:"date_time"`
	GeneratedAt   time.Time     `json:"generated_at"`
	MissionVision Answer        `json:"mission_vision"`
	Executives    Answer        `json:"executives"`
	News          Answer        `json:"news"`
	Website       Answer        `json:"website"`
	DirectoryHint string        `json:"-"`
	RegistryLink  string        `json:"registry_link,omitempty"`
	RegistryLabel string        `json:"registry_label,omitempty"`
	// WebsitePreview 官网页面的标题与摘要，可为空
	WebsitePreview *WebsitePreview `json:"website_preview,omitempty"`
}

// WebsitePreview 官网页面摘要
type WebsitePreview struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	SiteName string `json:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// Answer 按栏目取答案
func (d *ReportDocument) Answer(slot Slot) Answer {
	switch slot {
	case SlotMissionVision:
		return d.MissionVision
	case SlotExecutives:
		return d.Executives
	case SlotNews:
		return d.News
	default:
		return d.Website
	}
}

// SetAnswer 按栏目写入答案
func (d *ReportDocument) SetAnswer(a Answer) {
	switch a.Slot {
	case SlotMissionVision:
		d.MissionVision = a
	case SlotExecutives:
		d.Executives = a
	case SlotNews:
		d.News = a
	case SlotWebsite:
		d.Website = a
	}
}

// Complete 四个栏目是否全部写入
func (d *ReportDocument) Complete() bool {
	for _, s := range Slots() {
		if !d.Answer(s).Populated() {
			return false
		}
	}
	return true
}
