package router

import (
	"github.com/hxuan190/relay-router/internal/domain"
)

// ChoppedPool is one synthetic half of a pool: a reserve token paired with the
// pool's smart token. Routing over halves lets a path pass through the smart
// token as if it were an ordinary asset.
type ChoppedPool struct {
	Pool   domain.Pool
	Half   uint8
	Tokens [2]domain.Token
}

func (c ChoppedPool) TokenIDs() []string {
	return []string{c.Tokens[0].ID(), c.Tokens[1].ID()}
}

// ReserveTokenIDs is the edge extractor for whole pools.
func ReserveTokenIDs(p domain.Pool) []string {
	return p.TokenIDs()
}

// ChoppedTokenIDs is the edge extractor for pool halves.
func ChoppedTokenIDs(c ChoppedPool) []string {
	return c.TokenIDs()
}

// ChopPools splits every pool into its two halves, keeping them adjacent.
func ChopPools(pools []domain.Pool) []ChoppedPool {
	out := make([]ChoppedPool, 0, len(pools)*2)
	for _, p := range pools {
		for i, r := range p.Reserves {
			out = append(out, ChoppedPool{
				Pool:   p,
				Half:   uint8(i),
				Tokens: [2]domain.Token{r.Token(), p.SmartToken},
			})
		}
	}
	return out
}

// UnchopPools folds adjacent twin halves back into their pool. A half without
// an adjacent twin still maps to the pool it was cut from.
func UnchopPools(chopped []ChoppedPool) []domain.Pool {
	out := make([]domain.Pool, 0, len(chopped))
	for i := 0; i < len(chopped); i++ {
		if i+1 < len(chopped) && isTwin(chopped[i], chopped[i+1]) {
			out = append(out, chopped[i].Pool)
			i++
			continue
		}
		out = append(out, chopped[i].Pool)
	}
	return out
}

// SelectChoppedHops picks one half per hop, preferring the twin of the half
// chosen for the previous hop so a pass through a smart token stays within
// the same pool.
func SelectChoppedHops(hops [][]ChoppedPool) []ChoppedPool {
	selected := make([]ChoppedPool, 0, len(hops))
	for i, candidates := range hops {
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[0]
		if i > 0 && len(selected) > 0 {
			prev := selected[len(selected)-1]
			for _, c := range candidates {
				if isTwin(prev, c) {
					pick = c
					break
				}
			}
		}
		selected = append(selected, pick)
	}
	return selected
}

func isTwin(a, b ChoppedPool) bool {
	return a.Pool.Key() == b.Pool.Key() && a.Half != b.Half
}
