package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/relay-router/internal/adapters/persistence"
	"github.com/hxuan190/relay-router/internal/adapters/seed"
	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/common"
	"github.com/hxuan190/relay-router/internal/config"
	"github.com/hxuan190/relay-router/internal/http"
	"github.com/hxuan190/relay-router/internal/services/market"
)

// @title Relay Router API
// @version 1.0-beta
// @description Conversion router for bonding-curve relay pools.
// @description
// @description ## - Features
// @description - **Path Finding**: First-found depth-first search over the pool graph, direct pools preferred
// @description - **Curve Pricing**: Bancor-style reserve curve with the pool fee applied twice per hop
// @description - **Chopped Routing**: Optional routing through pool halves and their smart tokens
// @description - **Settlement Memos**: Ready-to-attach memo strings with a slippage-bounded minimum return
// @description
// @description ## - Usage Tips
// @description - Tokens are named "{issuing contract}-{symbol code}", for example `eosio.token-EOS`
// @description - Amounts are decimal strings in whole tokens; extra digits are truncated to the token precision
// @description - Default slippage is 50 bps (0.5%)
// @description - Rate Limit: 10 requests/second per client (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Price conversions with routing and price impact information
// @tag.name swap
// @tag.description Build settlement memos for conversions
// @tag.name pools
// @tag.description Inspect and maintain the pool registry

func main() {
	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded, using process environment")
	}

	generalConf := &config.GeneralConfig{}
	aggregatorConf := &config.AggregatorConfig{}
	httpConf := &config.HTTPConfig{}
	if err := config.LoadAll(generalConf, aggregatorConf, httpConf); err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	common.InitLogger(generalConf.LogLevel, generalConf.IsDev())
	common.InitRuntime()

	var storage aggregator.PoolStore
	if aggregatorConf.PersistenceEnabled {
		s, err := persistence.NewStorage(aggregatorConf.DBPath)
		if err != nil {
			log.Error().Err(err).Msg("failed to open pool storage")
			os.Exit(1)
		}
		storage = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aggregatorSvc := aggregator.NewService(aggregatorConf, market.NewDefaultPoolRegistry(), storage)
	if err := aggregatorSvc.Start(ctx); err != nil {
		log.Error().Err(err).Msg("failed to start aggregator service")
		_ = aggregatorSvc.Stop()
		os.Exit(1)
	}

	if aggregatorConf.SeedFile != "" {
		pools, err := seed.LoadFile(aggregatorConf.SeedFile)
		if err == nil {
			err = aggregatorSvc.UpsertPools(pools...)
		}
		if err != nil {
			log.Error().Err(err).Str("file", aggregatorConf.SeedFile).Msg("failed to seed pools")
			_ = aggregatorSvc.Stop()
			os.Exit(1)
		}
		log.Info().Int("pools", len(pools)).Str("file", aggregatorConf.SeedFile).Msg("seeded pools")
	}

	httpSvc := http.NewHTTPService(generalConf, httpConf, aggregatorSvc)
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- httpSvc.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-httpErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	log.Info().Msg("Shutting down services...")
	if err := httpSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping http service")
	}
	if err := aggregatorSvc.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping aggregator service")
	}
	log.Info().Msg("Shutdown complete")
}
