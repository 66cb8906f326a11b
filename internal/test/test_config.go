package test

import (
	"github.com/promarceloborges/Ecolesson/internal/config"
)

// CreateTestConfig 创建用于测试的配置，默认使用回放来源
func CreateTestConfig(replayFile, outputDir string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Provider = "replay"
	cfg.Replay.File = replayFile
	cfg.Replay.ChunkSize = 32
	cfg.Export.OutputDir = outputDir
	return cfg
}
