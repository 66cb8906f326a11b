package providers

import (
	"errors"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// 错误文本中用于分类的标记
const (
	markerSafety    = "SAFETY"
	markerRateLimit = "429"
)

// ClassifyError 将来源错误转换为传输错误
//
// 分类完全依赖错误文本的子串匹配：包含 "SAFETY" 视为内容安全拦截，包含 "429" 视为限流。
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var perr *lessonplan.Error
	if errors.As(err, &perr) && perr.Kind == lessonplan.KindTransport {
		return err
	}

	e := lessonplan.NewError(lessonplan.KindTransport, "fragment source failed", err)
	msg := err.Error()
	switch {
	case strings.Contains(msg, markerSafety):
		e.Code = lessonplan.CodeSafetyBlocked
	case strings.Contains(msg, markerRateLimit):
		e.Code = lessonplan.CodeRateLimited
	}
	return e
}
