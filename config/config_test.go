package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMergesBaseAndLocal(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `
llm:
  base_url: https://api.example.com
  model_name: base-model
game:
  sect_num: 5
`)
	local := writeFile(t, dir, "local.yaml", `
llm:
  model_name: local-model
`)

	cfg, err := config.Load(base, local)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.LLM.BaseURL)
	require.Equal(t, "local-model", cfg.LLM.ModelName)
	require.Equal(t, 5, cfg.Game.SectNum)
}

func TestLoadToleratesMissingLocalFile(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `system:
  language: en
`)

	cfg, err := config.Load(base, filepath.Join(dir, "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, "en", cfg.System.Language)
}

func TestLoadAppliesDefaultHostPort(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `system:
  language: en
`)

	cfg, err := config.Load(base, "")
	require.NoError(t, err)
	require.Equal(t, config.DefaultHost, cfg.System.Host)
	require.Equal(t, config.DefaultPort, cfg.System.Port)
}

func TestLoadEnvOverridesHostAndPort(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `system:
  host: 0.0.0.0
  port: 9000
`)

	t.Setenv("SERVER_HOST", "10.0.0.1")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := config.Load(base, "")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", cfg.System.Host)
	require.Equal(t, 9100, cfg.System.Port)
}
