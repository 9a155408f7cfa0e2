package transducer

import (
	dnastore "github.com/mingnet/dnastore"
)

// NullProjection builds a plain weighted directed graph.Graph mirroring
// this machine's states, one edge per transition with weight 1. This is a
// diagnostic projection only (it collapses parallel transitions between the
// same pair of states, which the transducer does support) — it exists so
// the generic graph toolkit's A* search can be reused for machine-level
// sanity checks without teaching that package about input/output labels.
func (m *Machine) NullProjection() *dnastore.Graph {
	g := dnastore.New()
	for _, s := range m.states {
		g.Set(s.Name, s.IsEnd)
	}
	for _, s := range m.states {
		for _, t := range s.Out {
			dest := m.states[t.Dest]
			g.Connect(s.Name, dest.Name, 1)
		}
	}
	return g
}

// ReachableFromStart reports whether endName is reachable from the start
// state, and the witness path of state names if so. It reuses the generic
// graph package's A* search (with a zero heuristic, i.e. plain Dijkstra)
// over the NullProjection rather than re-implementing reachability.
func (m *Machine) ReachableFromStart(endName string) (path []string, ok bool) {
	g := m.NullProjection()
	zero := func(key, endKey string) float64 { return 0 }
	return g.ShortestPathWithHeuristic(m.states[m.start].Name, endName, zero)
}

// EndStateNames returns the names of every accepting state, in state order.
func (m *Machine) EndStateNames() []string {
	var names []string
	for _, s := range m.states {
		if s.IsEnd {
			names = append(names, s.Name)
		}
	}
	return names
}
