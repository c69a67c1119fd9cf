// Package parse 从模型回答中提取 JSON 数组。
package parse

import (
	"reflect"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Stage 解析成功的阶段
type Stage int

const (
	// StageEmpty 全部失败，目标被置为空列表
	StageEmpty Stage = iota
	// StageDirect 整段文本直接解析成功
	StageDirect
	// StageExtracted 提取 [...] 子串后解析成功
	StageExtracted
	// StageRepaired 提取的子串经修复后解析成功
	StageRepaired
)

func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageExtracted:
		return "extracted"
	case StageRepaired:
		return "repaired"
	default:
		return "empty"
	}
}

// arrayPattern 匹配第一个 '[' 到最后一个 ']'
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Array 将模型回答解析到 v 指向的切片中，v 必须是指向切片的指针。
// 依次尝试：整段解析 → 提取 [...] 子串解析（失败时修复后再解析）→ 置为空列表。
// 不会返回错误，也不会 panic。
func Array(text string, v any) Stage {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return StageEmpty
	}
	target := rv.Elem()

	clean := stripFences(text)
	if tryUnmarshal(clean, target) {
		return StageDirect
	}

	sub := arrayPattern.FindString(clean)
	if sub != "" {
		if tryUnmarshal(sub, target) {
			return StageExtracted
		}
		if repaired, err := jsonrepair.JSONRepair(sub); err == nil && tryUnmarshal(repaired, target) {
			return StageRepaired
		}
	}

	target.Set(reflect.MakeSlice(target.Type(), 0, 0))
	return StageEmpty
}

// tryUnmarshal 解析到临时值，成功后才写回，避免半途失败留下脏数据
func tryUnmarshal(s string, target reflect.Value) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return false
	}
	tmp := reflect.New(target.Type())
	if err := json.UnmarshalFromString(s, tmp.Interface()); err != nil {
		return false
	}
	if tmp.Elem().IsNil() {
		tmp.Elem().Set(reflect.MakeSlice(target.Type(), 0, 0))
	}
	target.Set(tmp.Elem())
	return true
}

// stripFences 去掉 ```json 代码块标记
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
