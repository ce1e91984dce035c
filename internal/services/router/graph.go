package router

import (
	"strings"
)

// EdgeExtractor returns the token identifiers a pool connects. Only the first
// two are used to derive the pool's edge.
type EdgeExtractor[P any] func(P) []string

// Edge is an unordered pair of token identifiers.
type Edge [2]string

func (e Edge) key() string {
	a, b := strings.ToLower(e[0]), strings.ToLower(e[1])
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Graph is an undirected token graph. Every edge is stored as two directed
// arcs. Identifiers are matched case-insensitively; the first spelling seen
// is the one the graph reports.
type Graph struct {
	nodes     []string
	canonical map[string]string
	adj       map[string][]string
	edges     []Edge
}

// EdgesFromPools derives one edge per pool and drops duplicates regardless of
// orientation or case. Pools yielding fewer than two distinct ids are skipped.
func EdgesFromPools[P any](pools []P, extract EdgeExtractor[P]) []Edge {
	seen := make(map[string]struct{}, len(pools))
	edges := make([]Edge, 0, len(pools))
	for _, p := range pools {
		ids := extract(p)
		if len(ids) < 2 || strings.EqualFold(ids[0], ids[1]) {
			continue
		}
		e := Edge{ids[0], ids[1]}
		k := e.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		edges = append(edges, e)
	}
	return edges
}

func BuildGraph[P any](pools []P, extract EdgeExtractor[P]) (*Graph, error) {
	if len(pools) == 0 {
		return nil, ErrEmptyPoolSet
	}

	edges := EdgesFromPools(pools, extract)
	g := &Graph{
		canonical: make(map[string]string, len(edges)*2),
		adj:       make(map[string][]string, len(edges)*2),
		edges:     make([]Edge, 0, len(edges)),
	}
	for _, e := range edges {
		a := g.addNode(e[0])
		b := g.addNode(e[1])
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
		g.edges = append(g.edges, Edge{a, b})
	}
	return g, nil
}

func (g *Graph) addNode(id string) string {
	lower := strings.ToLower(id)
	if c, ok := g.canonical[lower]; ok {
		return c
	}
	g.canonical[lower] = id
	g.nodes = append(g.nodes, id)
	return id
}

// Canonical resolves id to the spelling stored in the graph.
func (g *Graph) Canonical(id string) (string, bool) {
	c, ok := g.canonical[strings.ToLower(id)]
	return c, ok
}

func (g *Graph) Has(id string) bool {
	_, ok := g.Canonical(id)
	return ok
}

func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) Neighbors(id string) []string {
	c, ok := g.Canonical(id)
	if !ok {
		return nil
	}
	out := make([]string, len(g.adj[c]))
	copy(out, g.adj[c])
	return out
}
