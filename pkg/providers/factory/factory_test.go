package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/test"
)

func TestCreateReplaySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(test.SamplePlanJSON(t)), 0o644))

	cfg := test.CreateTestConfig(path, t.TempDir())
	src, err := CreateSource(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "replay", src.Name())
}

func TestCreateReplaySourceRequiresFile(t *testing.T) {
	cfg := test.CreateTestConfig("", t.TempDir())
	_, err := CreateSource(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestCreateOpenAISource(t *testing.T) {
	server := test.NewMockOpenAIServer()
	defer server.Stop()

	cfg := test.CreateTestConfig("", t.TempDir())
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "test-key"
	cfg.OpenAI.BaseURL = server.URL

	src, err := CreateSource(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "openai", src.Name())
}

func TestCreateSourceUnknownProvider(t *testing.T) {
	cfg := test.CreateTestConfig("", t.TempDir())
	cfg.Provider = "claude"
	_, err := CreateSource(context.Background(), cfg, nil)
	assert.Error(t, err)
}
