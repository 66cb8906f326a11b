package cli

import (
	"github.com/spf13/cobra"

	"github.com/promarceloborges/Ecolesson/pkg/progress"
)

var renderFormats string

// NewRenderCommand 创建 render 命令
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <plano.json>",
		Short: "Exporta um plano salvo sem chamar a IA",
		Long: `Lê um plano de aula salvo (JSON, com ou sem cercas de código) e exporta os formatos
escolhidos.

Exemplo:
  ecolesson render plano_de_aula_fotossintese.json --formatos docx,pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			defer func() {
				_ = log.Sync()
			}()

			resp, err := readPlan(args[0])
			if err != nil {
				return err
			}

			manager, err := newExportManager(cfg, log)
			if err != nil {
				return err
			}
			formats := parseFormats(renderFormats)
			if err := checkFormats(manager, formats); err != nil {
				return err
			}

			results, err := exportAll(cmd.Context(), manager, resp, formats)
			if err != nil {
				return err
			}

			files := make([]string, 0, len(results))
			for _, r := range results {
				files = append(files, r.Path)
			}
			progress.RenderSummary(cmd.OutOrStdout(), &progress.Summary{
				Title:       resp.Plan.Title,
				Stages:      len(resp.Plan.Methodology),
				DurationMin: resp.Plan.TotalDurationMin,
				Lessons:     resp.Plan.LessonCount,
				Files:       files,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&renderFormats, "formatos", "txt,docx,pdf", "formatos de exportação separados por vírgula")
	return cmd
}
