package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralConfigDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "HTTP_HOST", "ENV", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	var gc GeneralConfig
	require.NoError(t, gc.Load())
	assert.Equal(t, "8080", gc.HTTPPort)
	assert.Equal(t, "localhost", gc.HTTPHost)
	assert.Equal(t, DevEnv, gc.Env)
	assert.Equal(t, "INFO", gc.LogLevel)
	assert.True(t, gc.IsDev())
}

func TestGeneralConfigRejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "qa")
	var gc GeneralConfig
	assert.Error(t, gc.Load())
}

func TestAggregatorConfigFromEnv(t *testing.T) {
	t.Setenv("ENGINE_DB_PATH", "/tmp/x.db")
	t.Setenv("ENGINE_PERSISTENCE_ENABLED", "false")
	t.Setenv("ENGINE_PERSIST_INTERVAL", "5")
	t.Setenv("ENGINE_QUOTE_CACHE_SIZE", "0")
	t.Setenv("ENGINE_DEFAULT_SLIPPAGE_BPS", "100")
	t.Setenv("ENGINE_HOP_MAGNITUDE", "")
	t.Setenv("ENGINE_MEMO_VERSION", "not-a-number")
	t.Setenv("ENGINE_SEED_FILE", "pools.yaml")

	var c AggregatorConfig
	require.NoError(t, c.Load())
	assert.Equal(t, "/tmp/x.db", c.DBPath)
	assert.False(t, c.PersistenceEnabled)
	assert.Equal(t, 5, c.PersistInterval)
	assert.Equal(t, 0, c.QuoteCacheSize)
	assert.Equal(t, 100, c.DefaultSlippageBps)
	assert.Equal(t, 2, c.HopMagnitude)
	assert.Equal(t, 1, c.MemoVersion)
	assert.Equal(t, "pools.yaml", c.SeedFile)
}

func TestAggregatorConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		conf AggregatorConfig
	}{
		{"no db path", AggregatorConfig{PersistenceEnabled: true, PersistInterval: 1, HopMagnitude: 2, MemoVersion: 1}},
		{"zero interval", AggregatorConfig{DBPath: "x", HopMagnitude: 2, MemoVersion: 1}},
		{"slippage above 100%", AggregatorConfig{DBPath: "x", PersistInterval: 1, DefaultSlippageBps: 10_001, HopMagnitude: 2, MemoVersion: 1}},
		{"zero magnitude", AggregatorConfig{DBPath: "x", PersistInterval: 1, MemoVersion: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.conf.Validate())
		})
	}
}

func TestHTTPConfig(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT", "")
	t.Setenv("HTTP_RATE_BURST", "")
	var c HTTPConfig
	require.NoError(t, c.Load())
	assert.Equal(t, 10, c.RateLimit)
	assert.Equal(t, 20, c.RateBurst)

	c.RateBurst = 5
	assert.Error(t, c.Validate())
}

func TestLoadAll(t *testing.T) {
	t.Setenv("ENV", "prod")
	gc := &GeneralConfig{}
	hc := &HTTPConfig{}
	require.NoError(t, LoadAll(gc, hc))
	assert.Equal(t, ProdEnv, gc.Env)

	t.Setenv("ENV", "bogus")
	err := LoadAll(&GeneralConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), GENERAL_CONFIG_KEY)
}
