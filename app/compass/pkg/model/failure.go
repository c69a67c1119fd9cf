package model

import (
	"errors"
	"fmt"
)

// FailureKind 外部调用失败的分类
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureDecode    FailureKind = "decode"
	FailureEmpty     FailureKind = "empty"
)

// Failure 携带失败原因的错误，外部协作方统一返回该类型
type Failure struct {
	Kind   FailureKind
	Op     string
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s: %s failure (status %d): %v", f.Op, f.Kind, f.Status, f.Err)
	}
	if f.Err == nil {
		return fmt.Sprintf("%s: %s failure", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s failure: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure 构造失败
func NewFailure(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

// StatusFailure 非 200 响应
func StatusFailure(op string, status int, body string) *Failure {
	return &Failure{Kind: FailureStatus, Op: op, Status: status, Err: errors.New(body)}
}

// KindOf 取出错误链上的失败分类，非 Failure 时视为传输错误
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureTransport
}

// Placeholder 栏目失败时写入报告的提示文字
func Placeholder(slot Slot, err error) string {
	return fmt.Sprintf("No fue posible obtener %s (error %s).", slot.Label(), KindOf(err))
}
