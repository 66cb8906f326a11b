package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

const fence = "```"

// envelope 用于区分缺失的 plano_aula 与零值
type envelope struct {
	Meta lessonplan.Meta        `json:"meta"`
	Plan *lessonplan.LessonPlan `json:"plano_aula"`
}

// StripFences 去掉生成内容常见的 ``` 包裹，两端都可以缺失
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "\r")
		s = strings.TrimPrefix(s, "\n")
	}
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSuffix(s, fence)
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
	}
	return strings.TrimSpace(s)
}

// Finalize 将完整缓冲区解析为课程计划
//
// 任何解析失败或结构不符都返回 MalformedResponse，不会返回部分结果。
func Finalize(buffer string) (*lessonplan.Response, error) {
	cleaned := StripFences(buffer)
	if cleaned == "" {
		return nil, lessonplan.Errorf(lessonplan.KindMalformedResponse, "empty response")
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	if err := dec.Decode(&env); err != nil {
		return nil, lessonplan.NewError(lessonplan.KindMalformedResponse, "invalid JSON", err)
	}
	// 文档之后只允许空白，多余的 } 或 ] 同样视为格式错误
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, lessonplan.Errorf(lessonplan.KindMalformedResponse, "unexpected data after JSON document")
	}
	if env.Plan == nil {
		return nil, lessonplan.Errorf(lessonplan.KindMalformedResponse, "missing plano_aula")
	}

	resp := &lessonplan.Response{Meta: env.Meta, Plan: *env.Plan}
	resp.Normalize()
	if err := Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Validate 检查课程计划是否满足数据模型的约束
func Validate(resp *lessonplan.Response) error {
	p := &resp.Plan
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "titulo is empty")
	}
	if len(p.KnowledgeObjects) == 0 {
		problems = append(problems, "objetos_do_conhecimento is empty")
	}
	if p.TotalDurationMin <= 0 {
		problems = append(problems, fmt.Sprintf("duracao_total_min must be positive, got %d", p.TotalDurationMin))
	}
	if p.LessonCount <= 0 {
		problems = append(problems, fmt.Sprintf("numero_de_aulas must be positive, got %d", p.LessonCount))
	}
	for i, s := range p.Methodology {
		if s.DurationMinutes < 0 {
			problems = append(problems, fmt.Sprintf("metodologia[%d].duracao_min is negative", i))
		}
	}
	if len(problems) > 0 {
		return lessonplan.Errorf(lessonplan.KindMalformedResponse, "schema mismatch: %s", strings.Join(problems, "; "))
	}
	return nil
}
