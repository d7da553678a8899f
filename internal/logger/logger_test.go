package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	log, err := New("prod", path)
	require.NoError(t, err)

	log.With("chat_id", 7).Info("day finalized", "delta", 110)
	log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"day finalized"`)
	assert.Contains(t, string(raw), `"chat_id":7`)
	assert.Contains(t, string(raw), `"delta":110`)
}

func TestDevModeDefault(t *testing.T) {
	log, err := New("", "")
	require.NoError(t, err)
	assert.NotNil(t, log.SugaredLogger)
	assert.True(t, log.SugaredLogger.Desugar().Core().Enabled(-1), "dev mode logs debug")
}
