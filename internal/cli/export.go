package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/config"
	"github.com/promarceloborges/Ecolesson/internal/export"
	"github.com/promarceloborges/Ecolesson/internal/export/docx"
	"github.com/promarceloborges/Ecolesson/internal/export/pdf"
	"github.com/promarceloborges/Ecolesson/internal/export/text"
	"github.com/promarceloborges/Ecolesson/internal/stream"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// newExportManager 创建注册了所有渲染器和远程目标的导出管理器
func newExportManager(cfg *config.Config, log *zap.Logger) (*export.Manager, error) {
	pdfRenderer, err := pdf.NewRenderer(
		pdf.WithLogger(log),
		pdf.WithRasterOptions(pdf.RasterOptions{
			Scale:            cfg.Export.RasterScale,
			Background:       cfg.Export.Background,
			AllowCrossOrigin: cfg.Export.AllowCrossOrigin,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create pdf renderer: %w", err)
	}

	return export.NewManager(cfg.Export.OutputDir,
		export.WithLogger(log),
		export.WithRenderer(text.NewRenderer()),
		export.WithRenderer(docx.NewRenderer()),
		export.WithRenderer(pdfRenderer),
		export.WithPublisher(export.NewRemoteStub(export.TargetGoogleDocs, log)),
		export.WithPublisher(export.NewRemoteStub(export.TargetSheets, log)),
	), nil
}

// parseFormats 解析逗号分隔的格式列表，去重并保持顺序
func parseFormats(s string) []string {
	seen := make(map[string]bool)
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}

// exportAll 依次导出每种格式，遇到第一个错误即停止
func exportAll(ctx context.Context, m *export.Manager, resp *lessonplan.Response, formats []string) ([]*export.Result, error) {
	results := make([]*export.Result, 0, len(formats))
	for _, f := range formats {
		res, err := m.Export(ctx, resp, f)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// readPlan 读取已保存的计划文件，接受带代码围栏的模型原始输出
func readPlan(path string) (*lessonplan.Response, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return stream.Finalize(string(raw))
}
