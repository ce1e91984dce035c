package config

import (
	"fmt"
)

type AggregatorConfig struct {
	// DBPath is the path to the BoltDB file holding the pool snapshot.
	// Default: "./data/relay-router.db"
	DBPath string

	// PersistenceEnabled controls whether pools are persisted to disk.
	// Default: true
	PersistenceEnabled bool

	// PersistInterval is how often dirty pools are batch-saved (in seconds).
	// Default: 30
	PersistInterval int

	// QuoteCacheSize bounds the quote LRU. Zero disables caching.
	// Default: 1024
	QuoteCacheSize int

	// DefaultSlippageBps is used when a request does not name one.
	// Default: 50
	DefaultSlippageBps int

	// HopMagnitude is the fee exponent charged per relay hop.
	// Default: 2
	HopMagnitude int

	// MemoVersion is written as the first memo field.
	// Default: 1
	MemoVersion int

	// SeedFile optionally names a YAML pool list upserted at boot, after the
	// stored pools are restored.
	SeedFile string
}

func (c *AggregatorConfig) Key() string {
	return ENGINE_CONFIG_KEY
}

func (c *AggregatorConfig) Load() error {
	c.DBPath = getEnvOrDefault("ENGINE_DB_PATH", "./data/relay-router.db")
	c.PersistenceEnabled = getEnvOrDefaultBool("ENGINE_PERSISTENCE_ENABLED", true)
	c.PersistInterval = getEnvOrDefaultInt("ENGINE_PERSIST_INTERVAL", 30)
	c.QuoteCacheSize = getEnvOrDefaultInt("ENGINE_QUOTE_CACHE_SIZE", 1024)
	c.DefaultSlippageBps = getEnvOrDefaultInt("ENGINE_DEFAULT_SLIPPAGE_BPS", 50)
	c.HopMagnitude = getEnvOrDefaultInt("ENGINE_HOP_MAGNITUDE", 2)
	c.MemoVersion = getEnvOrDefaultInt("ENGINE_MEMO_VERSION", 1)
	c.SeedFile = getEnvOrDefault("ENGINE_SEED_FILE", "")
	return c.Validate()
}

func (c *AggregatorConfig) Validate() error {
	if c.PersistenceEnabled && c.DBPath == "" {
		return fmt.Errorf("invalid engine config: persistence enabled without db path")
	}
	if c.PersistInterval <= 0 {
		return fmt.Errorf("invalid engine config: persist interval %d", c.PersistInterval)
	}
	if c.QuoteCacheSize < 0 {
		return fmt.Errorf("invalid engine config: quote cache size %d", c.QuoteCacheSize)
	}
	if c.DefaultSlippageBps < 0 || c.DefaultSlippageBps > 10_000 {
		return fmt.Errorf("invalid engine config: default slippage %d bps", c.DefaultSlippageBps)
	}
	if c.HopMagnitude < 1 {
		return fmt.Errorf("invalid engine config: hop magnitude %d", c.HopMagnitude)
	}
	if c.MemoVersion < 1 {
		return fmt.Errorf("invalid engine config: memo version %d", c.MemoVersion)
	}
	return nil
}
