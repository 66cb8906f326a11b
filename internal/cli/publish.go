package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishTarget string

// NewPublishCommand 创建 publish 命令
func NewPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <plano.json>",
		Short: "Envia um plano salvo para um destino remoto",
		Long: `Envia um plano salvo para um destino remoto (google_docs, sheets).
Esses destinos exigem uma integração de backend; sem ela o comando informa o motivo e falha.`,
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
			if err := manager.Publish(cmd.Context(), resp, publishTarget); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plano enviado para %s.\n", publishTarget)
			return nil
		},
	}

	cmd.Flags().StringVar(&publishTarget, "destino", "google_docs", "destino remoto (google_docs, sheets)")
	return cmd
}
