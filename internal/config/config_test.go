package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Sync.SheetsURL = "https://script.example/exec"
	cfg.Sync.RedisAddr = "localhost:6379"
	cfg.Sync.RedisDB = 2
	cfg.Sync.Timeout = 3 * time.Second

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "₹", cfg.Business.Currency)
	assert.Equal(t, "Company", cfg.Session.DefaultRole)
	assert.Equal(t, 5*time.Second, cfg.Sync.Timeout)
	assert.Empty(t, cfg.Sync.SheetsURL)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "warn", cfg.Log.Level)

	opening, err := cfg.OpeningBalance()
	require.NoError(t, err)
	assert.Equal(t, "500000.00", opening.StringFixed(2))
}

func TestOpeningBalance_Invalid(t *testing.T) {
	cfg := Default("x")
	cfg.Ledger.OpeningBalance = "-5"
	_, err := cfg.OpeningBalance()
	assert.ErrorContains(t, err, "ledger.opening_balance")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz")))

	t.Setenv("FINAD_SYNC_SHEETS_URL", "https://override.example/exec")
	t.Setenv("FINAD_LOG_LEVEL", "debug")
	t.Setenv("FINAD_GIT_AUTO_COMMIT", "false")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example/exec", got.Sync.SheetsURL)
	assert.Equal(t, "debug", got.Log.Level)
	assert.False(t, got.Git.AutoCommit)
	assert.Equal(t, "Test Biz", got.Business.Name)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Sparse\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Sparse", got.Business.Name)
	assert.Equal(t, "500000.00", got.Ledger.OpeningBalance)
	assert.Equal(t, 5*time.Second, got.Sync.Timeout)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, `opening_balance: "500000.00"`)
	assert.Contains(t, contents, "timeout: 5s")
	assert.Contains(t, contents, "auto_commit: true")
	assert.NotContains(t, contents, "redis_password")
}
