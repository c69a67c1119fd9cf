package search

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	MaxResults int
	// Language 界面语言提示，例如 "es"
	Language string
	// Country 地域提示，例如 "cl"
	Country string
}

// Response 通用搜索响应
type Response struct {
	// People 知识面板中识别出的人物，只有部分提供方返回
	People  []Person
	Results []Result
}

// Empty 是否既没有人物也没有结果
func (r *Response) Empty() bool {
	return r == nil || (len(r.People) == 0 && len(r.Results) == 0)
}

// Person 知识面板中的人物
type Person struct {
	Name string
	Role string
	Link string
}

// Result 单条搜索结果
type Result struct {
	Title   string
	URL     string
	Snippet string
}
