package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hxuan190/relay-router/internal/config"
	"github.com/hxuan190/relay-router/internal/domain"
	"github.com/hxuan190/relay-router/internal/metrics"
	"github.com/hxuan190/relay-router/internal/services"
	"github.com/hxuan190/relay-router/internal/services/market"
	"github.com/hxuan190/relay-router/internal/services/memo"
	"github.com/hxuan190/relay-router/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

var (
	// Error aliases
	ErrNoRoute      = router.ErrNoRoute
	ErrUnknownToken = router.ErrUnknownToken
	ErrEmptyPoolSet = router.ErrEmptyPoolSet
	ErrPoolNotFound = market.ErrPoolNotFound
	ErrInvalidMemo  = memo.ErrInvalidMemo

	ErrInvalidRequest = errors.New("invalid request")
)

// PoolStore persists the registry between restarts.
type PoolStore interface {
	SavePoolBatch(pools []domain.Pool, removed []domain.PoolKey) error
	LoadAllPools() ([]domain.Pool, error)
	Close() error
}

type quoteKey struct {
	version uint64
	mode    domain.SwapMode
	from    string
	to      string
	amount  string
	chopped bool
}

type Service struct {
	logger *services.ServiceLogger
	conf   *config.AggregatorConfig

	registry *market.PoolRegistry
	router   *router.Router
	cache    *market.BoundedLRUCache[quoteKey, *domain.Quote]
	storage  PoolStore

	startedAt time.Time
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewService wires the engine. storage may be nil, in which case pools live
// only in memory.
func NewService(conf *config.AggregatorConfig, registry *market.PoolRegistry, storage PoolStore) *Service {
	svc := &Service{
		conf:     conf,
		registry: registry,
		router:   router.NewRouter(uint(conf.HopMagnitude)),
		cache:    market.NewBoundedLRUCache[quoteKey, *domain.Quote](conf.QuoteCacheSize),
		storage:  storage,
		stopCh:   make(chan struct{}),
	}
	svc.logger = services.NewServiceLogger(svc)
	return svc
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

// Start restores persisted pools and launches the persist loop.
func (svc *Service) Start(ctx context.Context) error {
	svc.startedAt = time.Now()
	if svc.storage == nil {
		svc.logger.Info().Msg("persistence disabled, starting with empty registry")
		return nil
	}

	pools, err := svc.storage.LoadAllPools()
	if err != nil {
		return fmt.Errorf("failed to load pools: %w", err)
	}
	for _, rejected := range svc.registry.Load(pools) {
		svc.logger.Warn().Err(rejected).Msg("skipping stored pool")
	}
	metrics.PoolCount.Set(float64(svc.registry.Count()))
	svc.logger.Info().Int("pools", svc.registry.Count()).Msg("registry restored")

	interval := time.Duration(svc.conf.PersistInterval) * time.Second
	svc.wg.Add(1)
	go svc.persistLoop(ctx, interval)
	return nil
}

func (svc *Service) Stop() error {
	var err error
	svc.stopOnce.Do(func() {
		close(svc.stopCh)
		svc.wg.Wait()
		if svc.storage == nil {
			return
		}
		if ferr := svc.Flush(); ferr != nil {
			svc.logger.Error().Err(ferr).Msg("final flush failed")
			err = ferr
		}
		err = errors.Join(err, svc.storage.Close())
	})
	return err
}

func (svc *Service) persistLoop(ctx context.Context, interval time.Duration) {
	defer svc.wg.Done()
	logger := svc.logger.With("loop", "persist")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-svc.stopCh:
			return
		case <-ticker.C:
			if err := svc.Flush(); err != nil {
				logger.Error().Err(err).Msg("periodic flush failed")
			}
		}
	}
}

// Flush writes pools changed since the last flush. Changes survive a failed
// write and are retried on the next flush.
func (svc *Service) Flush() error {
	if svc.storage == nil {
		return nil
	}
	changed, removed := svc.registry.DrainDirty()
	if len(changed) == 0 && len(removed) == 0 {
		return nil
	}
	if err := svc.storage.SavePoolBatch(changed, removed); err != nil {
		svc.registry.MarkDirty(changed, removed)
		metrics.PersistFailures.Inc()
		return err
	}
	metrics.PoolsPersisted.Add(float64(len(changed)))
	return nil
}

func (svc *Service) UpsertPools(pools ...domain.Pool) error {
	if err := svc.registry.Upsert(pools...); err != nil {
		return err
	}
	metrics.PoolUpdates.WithLabelValues("upsert").Add(float64(len(pools)))
	metrics.PoolCount.Set(float64(svc.registry.Count()))
	return nil
}

func foldKey(key domain.PoolKey) domain.PoolKey {
	return domain.PoolKey{Contract: strings.ToLower(key.Contract), SmartSymbol: strings.ToLower(key.SmartSymbol)}
}

func (svc *Service) RemovePool(key domain.PoolKey) error {
	key = foldKey(key)
	if err := svc.registry.Remove(key); err != nil {
		return err
	}
	metrics.PoolUpdates.WithLabelValues("remove").Inc()
	metrics.PoolCount.Set(float64(svc.registry.Count()))
	return nil
}

func (svc *Service) DefaultSlippageBps() uint16 {
	return uint16(svc.conf.DefaultSlippageBps)
}

// Pool looks a pool up by key, ignoring case.
func (svc *Service) Pool(key domain.PoolKey) (domain.Pool, error) {
	key = foldKey(key)
	pool, ok := svc.registry.Get(key)
	if !ok {
		return domain.Pool{}, fmt.Errorf("%w: %s", ErrPoolNotFound, key)
	}
	return pool, nil
}

// Pools returns the current pool set in registry order.
func (svc *Service) Pools() []domain.Pool {
	return svc.registry.Snapshot().Pools
}

type Stats struct {
	PoolCount      int
	TokenCount     int
	Version        uint64
	QuoteCacheSize int
	CacheHits      uint64
	CacheMisses    uint64
	Uptime         time.Duration
}

func (svc *Service) Stats() Stats {
	snap := svc.registry.Snapshot()
	tokens := make(map[string]struct{})
	for _, p := range snap.Pools {
		for _, id := range p.TokenIDs() {
			tokens[strings.ToLower(id)] = struct{}{}
		}
	}
	hits, misses := svc.cache.Stats()
	var uptime time.Duration
	if !svc.startedAt.IsZero() {
		uptime = time.Since(svc.startedAt)
	}
	return Stats{
		PoolCount:      len(snap.Pools),
		TokenCount:     len(tokens),
		Version:        snap.Version,
		QuoteCacheSize: svc.cache.Size(),
		CacheHits:      hits,
		CacheMisses:    misses,
		Uptime:         uptime,
	}
}

// Quote prices a conversion. ExactIn treats Amount as the sum paid in the
// source token; ExactOut as the sum wanted in the destination token.
func (svc *Service) Quote(ctx context.Context, req domain.QuoteRequest) (quote *domain.Quote, err error) {
	start := time.Now()
	mode := req.SwapMode
	if mode == "" {
		mode = domain.SwapModeExactIn
	}
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.QuoteRequests.WithLabelValues(string(mode), status).Inc()
		metrics.QuoteDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := svc.registry.Snapshot()
	key := quoteKey{
		version: snap.Version,
		mode:    mode,
		from:    strings.ToLower(req.From),
		to:      strings.ToLower(req.To),
		amount:  strings.TrimSpace(req.Amount),
		chopped: req.Chopped,
	}
	if q, ok := svc.cache.Get(key); ok {
		metrics.QuoteCacheHits.Inc()
		return q, nil
	}
	metrics.QuoteCacheMisses.Inc()

	opts := router.QuoteOptions{Chopped: req.Chopped}
	switch mode {
	case domain.SwapModeExactIn:
		amount, err := parseTokenAmount(snap.Pools, req.From, "from", req.Amount)
		if err != nil {
			return nil, err
		}
		quote, err = svc.router.QuoteReturn(snap.Pools, req.From, amount, req.To, opts)
		if err != nil {
			return nil, err
		}
	case domain.SwapModeExactOut:
		amount, err := parseTokenAmount(snap.Pools, req.To, "to", req.Amount)
		if err != nil {
			return nil, err
		}
		quote, err = svc.router.QuoteCost(snap.Pools, req.From, amount, req.To, opts)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: swap mode %q", ErrInvalidRequest, mode)
	}

	svc.cache.Set(key, quote)
	metrics.QuoteCacheSize.Set(float64(svc.cache.Size()))
	metrics.HopCount.Observe(float64(len(quote.Hops)))
	bps := router.SlippageBps(quote.Slippage)
	metrics.PriceImpact.WithLabelValues(string(router.GetPriceImpactSeverity(bps))).Observe(float64(bps))

	svc.logger.Debug().
		Str("from", req.From).
		Str("to", req.To).
		Str("amountIn", quote.AmountIn.String()).
		Str("amountOut", quote.AmountOut.String()).
		Int("hops", len(quote.Hops)).
		Msg("quoted")
	return quote, nil
}

// BuildMemo quotes req.Amount of req.From into req.To and renders the
// settlement memo with a slippage-discounted minimum return.
func (svc *Service) BuildMemo(ctx context.Context, req domain.MemoRequest) (resp *domain.MemoResponse, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.MemoRequests.WithLabelValues(status).Inc()
	}()

	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = svc.DefaultSlippageBps()
	}

	quote, err := svc.Quote(ctx, domain.QuoteRequest{
		From:     req.From,
		To:       req.To,
		Amount:   req.Amount,
		SwapMode: domain.SwapModeExactIn,
		Chopped:  req.Chopped,
	})
	if err != nil {
		return nil, err
	}

	minReturn, err := memo.MinReturn(quote.AmountOut, slippageBps)
	if err != nil {
		return nil, err
	}
	hops, err := memo.HopsFromPath(quote.AmountIn.Symbol(), quote.Pools())
	if err != nil {
		return nil, err
	}

	version := req.Version
	if version == 0 {
		version = uint(svc.conf.MemoVersion)
	}
	opts := []memo.Option{memo.WithVersion(version)}
	if req.Affiliate != "" || req.AffiliatePercent != "" {
		opts = append(opts, memo.WithAffiliate(req.Affiliate, req.AffiliatePercent))
	}

	text, err := memo.Compose(hops, minReturn.AmountString(), req.Destination, opts...)
	if err != nil {
		return nil, err
	}

	pools := make([]string, len(quote.Hops))
	for i, h := range quote.Hops {
		pools[i] = h.Pool.Key().String()
	}

	svc.logger.Debug().Str("memo", text).Msg("memo composed")
	return &domain.MemoResponse{
		Memo:      text,
		AmountIn:  quote.AmountIn.String(),
		AmountOut: quote.AmountOut.String(),
		MinReturn: minReturn.String(),
		Slippage:  quote.Slippage.String(),
		Route:     quote.Path,
		HopCount:  len(quote.Hops),
		Pools:     pools,
	}, nil
}

// parseTokenAmount reads amount at the precision the pool set records for
// tokenID.
func parseTokenAmount(pools []domain.Pool, tokenID, side, amount string) (domain.Quantity, error) {
	for _, p := range pools {
		for _, r := range p.Reserves {
			if domain.SameTokenID(r.Token().ID(), tokenID) {
				q, err := domain.ParseAmount(amount, r.Quantity.Symbol())
				if err != nil {
					return domain.Quantity{}, err
				}
				if !q.IsPositive() {
					return domain.Quantity{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
				}
				return q, nil
			}
		}
	}
	if len(pools) == 0 {
		return domain.Quantity{}, ErrEmptyPoolSet
	}
	return domain.Quantity{}, &router.UnknownTokenError{Side: side, TokenID: tokenID}
}
