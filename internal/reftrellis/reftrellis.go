// Package reftrellis builds an independent, unrolled-graph reference
// implementation of noise-free transducer alignment, used by the lattice
// package's tests to check the dense lattice engine's results against a
// second, structurally different computation: results are verified by
// checking equality with an independent enumeration, not just internal
// self-consistency.
//
// It reuses the generic token-passing Viterbi decoder (root package graph:
// Graph, Decoder, Viterbier, Token) instead of the dense lattice. Because
// that decoder scores per *node* rather than per *edge*, and a
// transducer's emitted base is a property of the transition rather than
// the destination state, each transition gets its own pass-through "edge
// node" in the unrolled graph; state nodes ("hubs") are themselves null
// (unscored) connectors. This only reconstructs the noise-free case (no
// mutator), the only case that needs an independent check of this kind.
package reftrellis

import (
	"fmt"
	"math"

	dnastore "github.com/mingnet/dnastore"
	"github.com/mingnet/dnastore/transducer"
)

// nodeValue implements graph.Viterbier. Hub nodes (one per reachable
// (state, position) pair) are null pass-throughs; edge nodes (one per
// traversed emit transition) score 0 if their base matches the observed
// symbol at that step, -Inf otherwise.
type nodeValue struct {
	isNull bool
	base   byte
}

func (v nodeValue) Score(obs interface{}) float64 {
	if v.isNull {
		return 0
	}
	if v.base == obs.(byte) {
		return 0
	}
	return math.Inf(-1)
}

func (v nodeValue) IsNull() bool { return v.isNull }

func hubKey(s transducer.StateIdx, pos int) string {
	return fmt.Sprintf("h%d@%d", s, pos)
}

// Build unrolls m across len(obs)+1 positions, reachable states only, and
// returns a *graph.Graph ready for graph.NewDecoder. obs is the observed
// base sequence.
func Build(m *transducer.Machine, obs []byte) (*dnastore.Graph, error) {
	g := dnastore.New()
	seqLen := len(obs)

	type item struct {
		s transducer.StateIdx
		p int
	}
	visited := map[string]item{}
	ensureHub := func(s transducer.StateIdx, p int) string {
		key := hubKey(s, p)
		if _, ok := visited[key]; !ok {
			g.Set(key, nodeValue{isNull: true})
			visited[key] = item{s, p}
		}
		return key
	}

	start := ensureHub(m.Start(), 0)
	_ = start
	queue := []item{{m.Start(), 0}}
	processed := map[string]bool{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curKey := hubKey(cur.s, cur.p)
		if processed[curKey] {
			continue
		}
		processed[curKey] = true

		st := m.State(cur.s)
		for ti, t := range st.Out {
			if t.IsNull() {
				destKey := ensureHub(t.Dest, cur.p)
				g.Connect(curKey, destKey, 0)
				if !processed[destKey] {
					queue = append(queue, item{t.Dest, cur.p})
				}
				continue
			}
			if cur.p >= seqLen {
				continue
			}
			edgeKey := fmt.Sprintf("%s~e%d", curKey, ti)
			g.Set(edgeKey, nodeValue{isNull: false, base: t.Out})
			g.Connect(curKey, edgeKey, 0)
			destKey := ensureHub(t.Dest, cur.p+1)
			g.Connect(edgeKey, destKey, 0)
			if !processed[destKey] {
				queue = append(queue, item{t.Dest, cur.p + 1})
			}
		}
	}

	// Every reachable node must have a successor except a single sink: wire
	// any dead end into a synthetic END, favoring ends that are both at
	// seqLen and accepting.
	g.Set("END", nodeValue{isNull: true})
	for key, it := range visited {
		node, err := g.Get(key)
		if err != nil {
			return nil, err
		}
		if len(node.Successors()) > 0 {
			continue
		}
		w := math.Inf(-1)
		if it.p == seqLen && m.State(it.s).IsEnd {
			w = 0
		}
		g.Connect(key, "END", w)
	}

	return g, nil
}

// Decode builds the unrolled trellis, runs the generic token-passing
// Viterbi decoder over it, and returns the best score and backtrace string
// (a debugging trace of "hN@pos" / edge node keys).
func Decode(m *transducer.Machine, obs []byte) (score float64, backtrace string, err error) {
	g, err := Build(m, obs)
	if err != nil {
		return 0, "", err
	}
	dec, err := dnastore.NewDecoder(g)
	if err != nil {
		return 0, "", err
	}
	ifaceObs := make([]interface{}, len(obs))
	for i, b := range obs {
		ifaceObs[i] = b
	}
	best := dec.Decode(ifaceObs)
	if best == nil {
		return math.Inf(-1), "", fmt.Errorf("reftrellis: no path found")
	}
	return best.Score, best.BacktraceString(), nil
}
