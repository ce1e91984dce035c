package router

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/domain"
)

type QuoteOptions struct {
	// Chopped routes over pool halves so paths may pass through smart tokens.
	Chopped bool
}

// Router prices conversions against a caller-supplied pool snapshot. It holds
// no pool state of its own.
type Router struct {
	magnitude uint
}

func NewRouter(magnitude uint) *Router {
	if magnitude == 0 {
		magnitude = DefaultHopMagnitude
	}
	return &Router{magnitude: magnitude}
}

// QuoteReturn prices selling amountIn of fromID for toID. Where several pools
// service a hop, the one paying out the most is used.
func (r *Router) QuoteReturn(pools []domain.Pool, fromID string, amountIn domain.Quantity, toID string, opts QuoteOptions) (*domain.Quote, error) {
	if err := checkTokenSymbol(fromID, amountIn); err != nil {
		return nil, err
	}
	path, hops, labels, err := r.resolve(pools, fromID, toID, opts)
	if err != nil {
		return nil, err
	}

	quoted := make([]domain.HopQuote, 0, len(hops))
	running := amountIn
	worst := decimal.Zero
	for i, candidates := range hops {
		var best *domain.HopQuote
		var firstErr error
		for _, pool := range candidates {
			hop, err := ReturnHop(pool, running, r.magnitude)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if best == nil || hop.AmountOut.Amount().GreaterThan(best.AmountOut.Amount()) {
				best = hop
			}
		}
		if best == nil {
			return nil, hopError(i, labels[i], firstErr)
		}
		quoted = append(quoted, *best)
		running = best.AmountOut
		worst = decimal.Max(worst, best.Slippage)
	}
	if err := checkTokenSymbol(toID, running); err != nil {
		return nil, err
	}

	return &domain.Quote{
		Mode:      domain.SwapModeExactIn,
		From:      fromID,
		To:        toID,
		AmountIn:  amountIn,
		AmountOut: running,
		Slippage:  worst,
		Path:      path,
		Hops:      quoted,
	}, nil
}

// QuoteCost prices receiving amountOut of toID when paying with fromID. Where
// several pools service a hop, the cheapest is used.
func (r *Router) QuoteCost(pools []domain.Pool, fromID string, amountOut domain.Quantity, toID string, opts QuoteOptions) (*domain.Quote, error) {
	if err := checkTokenSymbol(toID, amountOut); err != nil {
		return nil, err
	}
	path, hops, labels, err := r.resolve(pools, fromID, toID, opts)
	if err != nil {
		return nil, err
	}

	quoted := make([]domain.HopQuote, len(hops))
	running := amountOut
	worst := decimal.Zero
	for i := len(hops) - 1; i >= 0; i-- {
		var best *domain.HopQuote
		var firstErr error
		for _, pool := range hops[i] {
			hop, err := CostHop(pool, running, r.magnitude)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if best == nil || hop.AmountIn.Amount().LessThan(best.AmountIn.Amount()) {
				best = hop
			}
		}
		if best == nil {
			return nil, hopError(i, labels[i], firstErr)
		}
		quoted[i] = *best
		running = best.AmountIn
		worst = decimal.Max(worst, best.Slippage)
	}
	if err := checkTokenSymbol(fromID, running); err != nil {
		return nil, err
	}

	return &domain.Quote{
		Mode:      domain.SwapModeExactOut,
		From:      fromID,
		To:        toID,
		AmountIn:  running,
		AmountOut: amountOut,
		Slippage:  worst,
		Path:      path,
		Hops:      quoted,
	}, nil
}

// resolve finds the token path, the candidate pools per priced hop and a
// label per hop for errors. Over the chopped graph each hop has exactly one
// candidate, the unchopped pool, and both endpoints must be reserve tokens.
func (r *Router) resolve(pools []domain.Pool, fromID, toID string, opts QuoteOptions) ([]string, [][]domain.Pool, []string, error) {
	if !opts.Chopped {
		res, err := FindPath(fromID, toID, pools, ReserveTokenIDs)
		if err != nil {
			return nil, nil, nil, err
		}
		labels := make([]string, len(res.Hops))
		for i := range res.Hops {
			labels[i] = res.Path[i] + " -> " + res.Path[i+1]
		}
		return res.Path, res.Hops, labels, nil
	}

	for _, id := range []string{fromID, toID} {
		if isShareOnly(pools, id) {
			return nil, nil, nil, fmt.Errorf("%w: %s is a pool share token", ErrNoRoute, id)
		}
	}
	res, err := FindPath(fromID, toID, ChopPools(pools), ChoppedTokenIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	unchopped := UnchopPools(SelectChoppedHops(res.Hops))
	hops := make([][]domain.Pool, len(unchopped))
	labels := make([]string, len(unchopped))
	for i, p := range unchopped {
		hops[i] = []domain.Pool{p}
		labels[i] = "pool " + p.Key().String()
	}
	return res.Path, hops, labels, nil
}

// isShareOnly reports whether id names a pool's smart token that is not also
// a reserve of some pool.
func isShareOnly(pools []domain.Pool, id string) bool {
	share := false
	for _, p := range pools {
		if p.HasToken(id) {
			return false
		}
		if domain.SameTokenID(p.SmartToken.ID(), id) {
			share = true
		}
	}
	return share
}

// checkTokenSymbol rejects an amount whose symbol is not the one named by id.
func checkTokenSymbol(id string, q domain.Quantity) error {
	i := strings.LastIndex(id, "-")
	if i < 0 || !strings.EqualFold(id[i+1:], q.Symbol().Code) {
		return fmt.Errorf("%w: amount %s for token %s", ErrSymbolMismatch, q, id)
	}
	return nil
}

func hopError(i int, label string, err error) error {
	if err == nil {
		err = ErrNoRoute
	}
	return fmt.Errorf("hop %d %s: %w", i, label, err)
}
