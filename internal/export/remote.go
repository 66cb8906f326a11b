package export

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// 远程目标名称
const (
	TargetGoogleDocs = "google_docs"
	TargetSheets     = "sheets"
)

// RemoteStub 远程目标的占位实现：记录将要发送的负载并返回 ErrBackendRequired
type RemoteStub struct {
	target string
	logger *zap.Logger
}

// NewRemoteStub 创建远程占位目标
func NewRemoteStub(target string, logger *zap.Logger) *RemoteStub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStub{target: target, logger: logger}
}

// Target 返回目标名称
func (s *RemoteStub) Target() string {
	return s.target
}

// Publish 记录负载，总是返回 ErrBackendRequired
func (s *RemoteStub) Publish(ctx context.Context, resp *lessonplan.Response) error {
	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return lessonplan.NewError(lessonplan.KindExport, "encode payload", err)
	}
	s.logger.Info("remote publish payload (not sent)",
		zap.String("target", s.target),
		zap.ByteString("payload", payload))
	return fmt.Errorf("%s: %w", s.target, lessonplan.ErrBackendRequired)
}
