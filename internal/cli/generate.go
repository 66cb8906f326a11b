package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/export"
	"github.com/promarceloborges/Ecolesson/internal/generator"
	"github.com/promarceloborges/Ecolesson/internal/stream"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/progress"
	"github.com/promarceloborges/Ecolesson/pkg/providers/factory"
)

var (
	// generate 命令的标志
	genModality   string
	genComponent  string
	genSubject    string
	genGrade      string
	genTopic      string
	genDuration   int
	genLessons    int
	genDetail     string
	genFormats    string
	genSaveJSON   bool
	genNoProgress bool
)

// NewGenerateCommand 创建 generate 命令
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Gera um plano de aula e exporta os formatos escolhidos",
		Long: `Gera um plano de aula a partir dos parâmetros informados, mostrando o progresso
enquanto a resposta chega, e exporta o resultado.

Exemplos:
  # Plano de Ciências exportado em texto e PDF
  ecolesson generate --objeto "Fotossíntese" --componente "Ciências" --serie "7º ano" --formatos txt,pdf

  # Duas aulas de 45 minutos, nível detalhado
  ecolesson generate --objeto "Frações" --duracao 45 --aulas 2 --detalhe detalhado`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&genModality, "modalidade", "Ensino Fundamental", "modalidade de ensino")
	cmd.Flags().StringVar(&genComponent, "componente", "", "componente curricular")
	cmd.Flags().StringVar(&genSubject, "disciplina", "", "disciplina")
	cmd.Flags().StringVar(&genGrade, "serie", "", "série/turma")
	cmd.Flags().StringVar(&genTopic, "objeto", "", "objeto do conhecimento (obrigatório)")
	cmd.Flags().IntVar(&genDuration, "duracao", 50, "duração da aula em minutos")
	cmd.Flags().IntVar(&genLessons, "aulas", 1, "número de aulas")
	cmd.Flags().StringVar(&genDetail, "detalhe", "completo", "nível de detalhe (resumo, completo, detalhado)")
	cmd.Flags().StringVar(&genFormats, "formatos", "txt", "formatos de exportação separados por vírgula (txt, docx, pdf)")
	cmd.Flags().BoolVar(&genSaveJSON, "salvar-json", false, "grava também o JSON do plano")
	cmd.Flags().BoolVar(&genNoProgress, "sem-progresso", false, "não mostra a barra de progresso")
	_ = cmd.MarkFlagRequired("objeto")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	detail, err := lessonplan.ParseDetailLevel(genDetail)
	if err != nil {
		return err
	}
	req := &lessonplan.Request{
		Modality:            genModality,
		CurricularComponent: genComponent,
		Subject:             genSubject,
		GradeLabel:          genGrade,
		KnowledgeObject:     genTopic,
		LessonDurationMin:   genDuration,
		LessonCount:         genLessons,
		DetailLevel:         detail,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() {
		_ = log.Sync()
	}()

	manager, err := newExportManager(cfg, log)
	if err != nil {
		return err
	}
	formats := parseFormats(genFormats)
	if err := checkFormats(manager, formats); err != nil {
		return err
	}

	ctx := cmd.Context()
	source, err := factory.CreateSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	gen := generator.New(source,
		generator.WithLogger(log),
		generator.WithEstimator(stream.NewEstimator(cfg.Progress.ExpectedLength)))

	displayWriter := cmd.ErrOrStderr()
	if genNoProgress {
		displayWriter = io.Discard
	}
	display := progress.NewDisplay(progress.WithWriter(displayWriter))

	start := time.Now()
	display.Start()
	resp, err := gen.Generate(ctx, req, func(_ string, p stream.Progress) {
		display.Update(p.Percent, p.Phase)
	})
	if err != nil {
		display.Stop()
		return err
	}
	display.Done(nil)

	results, err := exportAll(ctx, manager, resp, formats)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(results)+1)
	for _, r := range results {
		files = append(files, r.Path)
	}
	if genSaveJSON {
		path, err := savePlanJSON(cfg.Export.OutputDir, resp)
		if err != nil {
			return err
		}
		files = append(files, path)
	}

	log.Info("lesson plan generated",
		zap.String("source", source.Name()),
		zap.String("title", resp.Plan.Title),
		zap.Int("files", len(files)),
		zap.Duration("elapsed", time.Since(start)))

	progress.RenderSummary(cmd.OutOrStdout(), &progress.Summary{
		Title:       resp.Plan.Title,
		Source:      source.Name(),
		Stages:      len(resp.Plan.Methodology),
		DurationMin: resp.Plan.TotalDurationMin,
		Lessons:     resp.Plan.LessonCount,
		TotalTime:   time.Since(start),
		Files:       files,
	})
	return nil
}

// checkFormats 在生成之前拒绝未知格式，避免白白消耗一次生成
func checkFormats(m *export.Manager, formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("no export format selected")
	}
	known := make(map[string]bool)
	for _, f := range m.Formats() {
		known[f] = true
	}
	for _, f := range formats {
		if !known[f] {
			return fmt.Errorf("unknown export format %q (available: %v)", f, m.Formats())
		}
	}
	return nil
}

// savePlanJSON 保存计划 JSON，之后可以用 render 命令重新导出
func savePlanJSON(dir string, resp *lessonplan.Response) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, export.FileName(resp.Plan.Title, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write plan: %w", err)
	}
	return path, nil
}
