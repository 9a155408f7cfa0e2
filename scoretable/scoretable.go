// Package scoretable precomputes, once per alignment, the transition-score
// tables the Viterbi filler consumes.
package scoretable

import (
	"fmt"

	"github.com/mingnet/dnastore/alphabet"
	"github.com/mingnet/dnastore/inputmodel"
	"github.com/mingnet/dnastore/transducer"
)

// IncomingTransScore is one predecessor's contribution to a destination
// state: src is where the transition came from, In/Base are the
// transition's labels, and Score is log P(In) + log w(transition).
type IncomingTransScore struct {
	Src   transducer.StateIdx
	In    alphabet.Symbol
	Base  byte // alphabet.NoBase if this is a null transition
	Score float64
}

// StateScores bundles the per-destination-state predecessor lists and the
// left context needed for tandem-duplication scoring.
type StateScores struct {
	LeftContext []byte
	Emit        []IncomingTransScore
	Null        []IncomingTransScore
}

// Build constructs one StateScores per machine state. maxDupLen bounds how
// many trailing output bases LeftContext retains. Transition weight is
// folded entirely into the input model: a transition carries only
// input/output labels, no separate weight, so Score reduces to
// log P_input(t.In).
func Build(m *transducer.Machine, im *inputmodel.Model, maxDupLen int) ([]StateScores, error) {
	n := m.NumStates()
	out := make([]StateScores, n)

	for srcIdx, src := range m.States() {
		for _, t := range src.Out {
			entry := IncomingTransScore{
				Src:   transducer.StateIdx(srcIdx),
				In:    t.In,
				Base:  t.Out,
				Score: im.LogP(t.In),
			}
			if t.IsNull() {
				out[t.Dest].Null = append(out[t.Dest].Null, entry)
			} else {
				out[t.Dest].Emit = append(out[t.Dest].Emit, entry)
			}
		}
	}

	contexts, err := leftContexts(m, maxDupLen)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].LeftContext = contexts[i]
	}

	return out, nil
}

// leftContexts computes, for every state, the trailing (<=maxDupLen)
// output bases on a deterministic path reaching it. A well-formed
// machine's construction guarantees this is path-independent for
// reachable states, so this is a single forward BFS from the start state,
// recording the context at first discovery.
func leftContexts(m *transducer.Machine, maxDupLen int) ([][]byte, error) {
	n := m.NumStates()
	ctx := make([][]byte, n)
	seen := make([]bool, n)

	ctx[m.Start()] = nil
	seen[m.Start()] = true
	queue := []transducer.StateIdx{m.Start()}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		st := m.State(cur)
		for _, t := range st.Out {
			if seen[t.Dest] {
				continue
			}
			var next []byte
			if t.IsNull() {
				next = ctx[cur]
			} else {
				next = append(append([]byte(nil), ctx[cur]...), t.Out)
				if len(next) > maxDupLen {
					next = next[len(next)-maxDupLen:]
				}
			}
			ctx[t.Dest] = next
			seen[t.Dest] = true
			queue = append(queue, t.Dest)
		}
	}

	for i := 0; i < n; i++ {
		if !seen[i] {
			return nil, fmt.Errorf("scoretable: state %q unreachable from start", m.State(transducer.StateIdx(i)).Name)
		}
	}
	return ctx, nil
}
