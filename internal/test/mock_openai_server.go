package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockOpenAIServer 是一个模拟的 OpenAI 兼容流式接口
type MockOpenAIServer struct {
	Server *httptest.Server
	URL    string

	// Fragments 按顺序作为 delta.content 发送
	Fragments []string
	// StatusCode 非零且不是 200 时直接返回错误
	StatusCode int
	ErrorBody  string
	DelayMs    int

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest 记录收到的请求
type RecordedRequest struct {
	Model    string
	Stream   bool
	Messages []RecordedMessage
}

// RecordedMessage 请求中的一条消息
type RecordedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMockOpenAIServer 创建一个新的模拟服务器
func NewMockOpenAIServer(fragments ...string) *MockOpenAIServer {
	m := &MockOpenAIServer{Fragments: fragments}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	m.URL = m.Server.URL
	return m
}

func (m *MockOpenAIServer) handle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model    string            `json:"model"`
		Stream   bool              `json:"stream"`
		Messages []RecordedMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid request body", "type": "invalid_request_error"}}`))
		return
	}

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{Model: body.Model, Stream: body.Stream, Messages: body.Messages})
	status, errBody, fragments, delay := m.StatusCode, m.ErrorBody, m.Fragments, m.DelayMs
	m.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if errBody == "" {
			errBody = fmt.Sprintf(`{"error": {"message": "mock error %d", "type": "server_error"}}`, status)
		}
		_, _ = w.Write([]byte(errBody))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	created := time.Now().Unix()
	writeChunk := func(delta map[string]string, finish interface{}) {
		chunk := map[string]interface{}{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion.chunk",
			"created": created,
			"model":   body.Model,
			"choices": []map[string]interface{}{
				{"index": 0, "delta": delta, "finish_reason": finish},
			},
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", data)
		if flusher != nil {
			flusher.Flush()
		}
	}

	writeChunk(map[string]string{"role": "assistant"}, nil)
	for _, f := range fragments {
		writeChunk(map[string]string{"content": f}, nil)
		if delay > 0 {
			time.Sleep(time.Duration(delay) * time.Millisecond)
		}
	}
	writeChunk(map[string]string{}, "stop")
	fmt.Fprint(w, "data: [DONE]\n\n")
	if flusher != nil {
		flusher.Flush()
	}
}

// Requests 返回已收到的请求副本
func (m *MockOpenAIServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// SetError 让后续请求返回指定状态码
func (m *MockOpenAIServer) SetError(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCode = status
	m.ErrorBody = body
}

// Stop 停止服务器
func (m *MockOpenAIServer) Stop() {
	m.Server.Close()
}
