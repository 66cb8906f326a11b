// Package cli 提供 ecolesson 命令行入口
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/config"
	"github.com/promarceloborges/Ecolesson/internal/logger"
)

var (
	// 全局标志
	cfgFile   string
	debugMode bool
	logLevel  string
	outputDir string
	provider  string
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ecolesson",
		Short: "Gera planos de aula alinhados à BNCC e ao SAEB",
		Long: `EcoLesson gera planos de aula com um modelo de linguagem, acompanhando o progresso
em tempo real, e exporta o resultado em texto, DOCX ou PDF.

Provedores suportados:
  - gemini: Google Gemini (padrão)
  - openai: OpenAI ou serviço compatível
  - replay: reproduz uma resposta salva (demonstrações e testes)`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "arquivo de configuração (padrão: $HOME/.ecolesson.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "habilita logs de depuração")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "nível de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "diretório onde os arquivos exportados são gravados")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "provedor de IA (gemini, openai, replay)")

	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewPublishCommand())
	rootCmd.AddCommand(NewVersionCommand(version, commit, buildDate))

	return rootCmd
}

// NewVersionCommand 创建 version 命令
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecolesson %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}

// loadConfig 加载配置并应用全局标志覆盖
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = provider
	}
	if flags.Changed("output-dir") {
		cfg.Export.OutputDir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if debugMode {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger 根据配置创建日志记录器
func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Debug {
		return logger.NewLogger(true)
	}
	return logger.NewLoggerWithLevel(cfg.LogLevel)
}
