package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
path: /opt/shogi/fairy-stockfish
working_dir: /opt/shogi
args: ["--no-banner"]
pre_handshake_options:
  - name: UCI_Variant
    value: shogi
  - name: Protocol
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/shogi/fairy-stockfish", cfg.Path)
	assert.Equal(t, "/opt/shogi", cfg.WorkingDir)
	assert.Equal(t, []string{"--no-banner"}, cfg.Args)

	require.Len(t, cfg.PreHandshakeOptions, 2)
	require.NotNil(t, cfg.PreHandshakeOptions[0].Value)
	assert.Equal(t, "UCI_Variant", cfg.PreHandshakeOptions[0].Name)
	assert.Equal(t, "shogi", *cfg.PreHandshakeOptions[0].Value)
	// A valueless option stays nil, which sends the valueless form.
	assert.Nil(t, cfg.PreHandshakeOptions[1].Value)
}

func TestLoadConfigMinimal(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "path: ./engine\n"))
	require.NoError(t, err)
	assert.Equal(t, "./engine", cfg.Path)
	assert.Empty(t, cfg.WorkingDir)
	assert.Empty(t, cfg.PreHandshakeOptions)
}

func TestLoadConfigMissingPath(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "working_dir: /tmp\n"))
	require.Error(t, err)
}

func TestLoadConfigUnreadable(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "path: [unclosed\n"))
	require.Error(t, err)
}
