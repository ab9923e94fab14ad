package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadConfigDefaults 验证空配置按A股惯例补齐默认值。
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, "local_data", cfg.CacheDir)
	assert.Equal(t, "backtest_results", cfg.DBPath)
	assert.InDelta(t, 0.0003, cfg.CommissionRate, 1e-9)
	assert.InDelta(t, 0.001, cfg.StampTaxRate, 1e-9)
	assert.InDelta(t, 5.0, cfg.MinCommission, 1e-9)
	assert.EqualValues(t, 100, cfg.LotSize)
	assert.InDelta(t, 100000.0, cfg.InitialCash, 1e-9)
	assert.Equal(t, 200, cfg.RequestDelayMs)
}

// TestLoadConfigOverrides 验证显式配置优先于默认值。
func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `{
		"cache_dir": "/tmp/quotes",
		"initial_cash": 500000,
		"commission_rate": 0.00025,
		"lot_size": 200,
		"log": {"level": "debug", "output": "console"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/quotes", cfg.CacheDir)
	assert.InDelta(t, 500000.0, cfg.InitialCash, 1e-9)
	assert.InDelta(t, 0.00025, cfg.CommissionRate, 1e-9)
	assert.EqualValues(t, 200, cfg.LotSize)
	assert.Equal(t, "debug", cfg.LogConfig.Level)
}

// TestLoadConfigInvalid 验证非法取值和坏文件被拒绝。
func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, `{"initial_cash": -1}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfigFile(t, `{"lot_size": -100}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfigFile(t, `not json`))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
