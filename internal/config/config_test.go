package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "resolve", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk Config
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, 5, onDisk.Vault.PageSize)
	assert.Equal(t, time.Minute, onDisk.Board.ClockRefresh)
	assert.Contains(t, string(data), "clock_refresh: 1m0s")
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /data/resolve.db
vault:
  page_size: 8
  recovery:
    birth_year: "1999"
    index_number: "42"
board:
  clock_refresh: 30s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/resolve.db", cfg.DBPath)
	assert.Equal(t, 8, cfg.Vault.PageSize)
	assert.Equal(t, 500, cfg.Vault.ShakeMS)
	assert.Equal(t, 500*time.Millisecond, cfg.ShakeDuration())
	assert.Equal(t, "1999", cfg.Vault.Recovery.BirthYear)
	assert.Equal(t, 30*time.Second, cfg.Board.ClockRefresh)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "newest", cfg.Momentum.DefaultSort)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{name: "log level", yaml: "log:\n  level: loud\n", path: "log.level"},
		{name: "page size", yaml: "vault:\n  page_size: 0\n", path: "vault.page_size"},
		{name: "birth year", yaml: "vault:\n  recovery:\n    birth_year: 'nineteen'\n", path: "vault.recovery.birth_year"},
		{name: "clock", yaml: "board:\n  clock_refresh: 10ms\n", path: "board.clock_refresh"},
		{name: "sort", yaml: "momentum:\n  default_sort: random\n", path: "momentum.default_sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("vault: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/resolve/config.yaml", p)

	t.Setenv(EnvConfigPath, "/etc/resolve.yaml")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/resolve.yaml", p)
}
