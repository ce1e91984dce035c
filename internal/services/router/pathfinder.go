package router

import (
	"fmt"
	"strings"
)

// PathResult is a token path together with the pools able to service each hop.
// Hops[i] holds the pools connecting Path[i] and Path[i+1].
type PathResult[P any] struct {
	Path []string
	Hops [][]P
}

// FindPath returns the first path depth-first search discovers between from
// and to. It is not a shortest-path search: at every node a direct edge to the
// goal wins, otherwise neighbors are explored in insertion order. The visited
// set is kept for the whole search, so each node is expanded at most once.
func FindPath[P any](from, to string, pools []P, extract EdgeExtractor[P]) (*PathResult[P], error) {
	g, err := BuildGraph(pools, extract)
	if err != nil {
		return nil, err
	}

	src, ok := g.Canonical(from)
	if !ok {
		return nil, &UnknownTokenError{Side: "from", TokenID: from}
	}
	dst, ok := g.Canonical(to)
	if !ok {
		return nil, &UnknownTokenError{Side: "to", TokenID: to}
	}
	if src == dst {
		return nil, fmt.Errorf("%w: %s", ErrSameToken, from)
	}

	path := g.FindPath(src, dst)
	if path == nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoRoute, from, to)
	}

	return &PathResult[P]{
		Path: path,
		Hops: HopsForPath(path, pools, extract),
	}, nil
}

// FindPath runs the depth-first search over canonical node ids. It returns nil
// when goal is unreachable.
func (g *Graph) FindPath(start, goal string) []string {
	visited := make(map[string]struct{}, len(g.nodes))
	return g.dfs(start, goal, visited, make([]string, 0, 8))
}

func (g *Graph) dfs(node, goal string, visited map[string]struct{}, path []string) []string {
	visited[node] = struct{}{}
	path = append(path, node)

	neighbors := g.adj[node]
	for _, n := range neighbors {
		if n == goal {
			found := make([]string, len(path)+1)
			copy(found, path)
			found[len(path)] = goal
			return found
		}
	}
	for _, n := range neighbors {
		if _, seen := visited[n]; seen {
			continue
		}
		if found := g.dfs(n, goal, visited, path); found != nil {
			return found
		}
	}
	return nil
}

// HopsForPath maps each consecutive token pair in path to every pool whose
// extracted ids contain both tokens.
func HopsForPath[P any](path []string, pools []P, extract EdgeExtractor[P]) [][]P {
	if len(path) < 2 {
		return nil
	}
	hops := make([][]P, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		for _, p := range pools {
			ids := extract(p)
			if containsID(ids, path[i]) && containsID(ids, path[i+1]) {
				hops[i] = append(hops[i], p)
			}
		}
	}
	return hops
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if strings.EqualFold(candidate, id) {
			return true
		}
	}
	return false
}
