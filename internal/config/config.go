package config

import (
	"errors"
	"strings"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY = "general-config"
	ENGINE_CONFIG_KEY  = "engine-config"
	HTTP_CONFIG_KEY    = "http-config"
)

// Config is implemented by every configuration section.
type Config interface {
	Key() string
	Load() error
	Validate() error
}

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = getEnvOrDefault("HTTP_PORT", "8080")
	gc.HTTPHost = getEnvOrDefault("HTTP_HOST", "localhost")
	gc.Env = getEnvOrDefault("ENV", DevEnv)
	gc.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	switch strings.ToLower(gc.Env) {
	case DevEnv, StagingEnv, ProdEnv:
	default:
		return errors.New("invalid server config: unknown env " + gc.Env)
	}
	return nil
}

func (gc *GeneralConfig) IsDev() bool {
	return strings.EqualFold(gc.Env, DevEnv)
}

// LoadAll loads and validates each section in order.
func LoadAll(sections ...Config) error {
	for _, s := range sections {
		if err := s.Load(); err != nil {
			return errors.Join(errors.New(s.Key()), err)
		}
	}
	return nil
}
