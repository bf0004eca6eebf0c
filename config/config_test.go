package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
trading:
  work_order_file: /var/lib/mercury/btc-usd.order
  percent_of_balance: 50
exchange:
  api_base: https://api.example.test
  adjustment_poll_minutes: 30
journal:
  dsn: mercury.db
audio:
  buy_cue: /usr/share/mercury/chaching1.wav
  sell_cue: /usr/share/mercury/chaching2.wav
metrics:
  addr: ":9108"
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/mercury/btc-usd.order", cfg.Trading.WorkOrderFile)
	assert.Equal(t, 50, cfg.Trading.PercentOfBalance)
	assert.InDelta(t, 0.5, cfg.Allocation(), 0.0001)
	assert.Equal(t, "https://api.example.test", cfg.Exchange.APIBase)
	assert.Equal(t, 30*time.Minute, cfg.AdjustmentPollInterval())
	assert.Equal(t, "mercury.db", cfg.Journal.DSN)
	assert.Equal(t, ":9108", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "trading: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "work.order", cfg.Trading.WorkOrderFile)
	assert.Equal(t, 100, cfg.Trading.PercentOfBalance)
	assert.InDelta(t, 1.0, cfg.Allocation(), 0.0001)
	assert.Equal(t, 15*time.Minute, cfg.AdjustmentPollInterval())
	assert.Equal(t, "aplay", cfg.Audio.Player)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Journal.DSN)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COINBASE_KEY", "k")
	t.Setenv("COINBASE_SECRET", "s")
	t.Setenv("COINBASE_PASSPHRASE", "p")
	t.Setenv("PUSHBULLET_TOKEN", "tok")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "k", cfg.Exchange.Key)
	assert.Equal(t, "s", cfg.Exchange.Secret)
	assert.Equal(t, "p", cfg.Exchange.Passphrase)
	assert.Equal(t, "tok", cfg.Notify.PushbulletToken)
	assert.Equal(t, "warn", cfg.Log.Level, "env overrides YAML")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "trading: ["))
	assert.Error(t, err)
}
