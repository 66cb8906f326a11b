package lessonplan

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindTransport          Kind = "transport_failure"
	KindMalformedResponse  Kind = "malformed_response"
	KindRenderPrecondition Kind = "render_precondition"
	KindExport             Kind = "export_failure"
)

// 传输错误的子类别
const (
	CodeRateLimited   = "rate_limited"
	CodeSafetyBlocked = "safety_blocked"
)

// Common errors
var (
	// ErrExportInProgress 已有导出正在进行
	ErrExportInProgress = errors.New("another export is in progress")

	// ErrSuperseded 请求被新的请求取代
	ErrSuperseded = errors.New("request superseded by a newer one")

	// ErrCancelled 请求被调用方取消
	ErrCancelled = errors.New("generation cancelled")

	// ErrBackendRequired 目标需要服务端集成
	ErrBackendRequired = errors.New("target requires a backend integration")

	// ErrNilDocument 文档为空
	ErrNilDocument = errors.New("document is nil")
)

// Error 流水线错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Code != "" {
		msg += "(" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError 创建流水线错误
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Errorf 创建带格式化消息的流水线错误
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误的类别，非流水线错误返回空字符串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
