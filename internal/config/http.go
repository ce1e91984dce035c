package config

import "fmt"

type HTTPConfig struct {
	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit int
	// RateBurst is the bucket size per client IP.
	RateBurst int
	// AdminToken guards the admin routes. Empty disables them.
	AdminToken string
}

func (c *HTTPConfig) Key() string {
	return HTTP_CONFIG_KEY
}

func (c *HTTPConfig) Load() error {
	c.RateLimit = getEnvOrDefaultInt("HTTP_RATE_LIMIT", 10)
	c.RateBurst = getEnvOrDefaultInt("HTTP_RATE_BURST", 20)
	c.AdminToken = getEnvOrDefault("HTTP_ADMIN_TOKEN", "")
	return c.Validate()
}

func (c *HTTPConfig) Validate() error {
	if c.RateLimit <= 0 || c.RateBurst < c.RateLimit {
		return fmt.Errorf("invalid http config: rate %d burst %d", c.RateLimit, c.RateBurst)
	}
	return nil
}
