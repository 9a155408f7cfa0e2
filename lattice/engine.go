// Package lattice implements the batch Viterbi alignment engine: a dense
// log-probability lattice over (state, position, mutator-state) that
// recovers the max-likelihood input sequence for a noisy observed output.
//
// Unlike a token-passing decoder that carries one live hypothesis (with a
// backpointer) per reachable state, the lattice here owns only scores over
// a 3-D (state, position, mutator-state) array; Traceback recovers the
// winning predecessor afterward by recomputing the same max rather than
// following a stored backpointer.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/mingnet/dnastore/mutator"
	"github.com/mingnet/dnastore/scoretable"
	"github.com/mingnet/dnastore/transducer"
)

// ErrUnalignable is returned when no end state has a finite score at the
// final position.
var ErrUnalignable = errors.New("lattice: sequence is unalignable")

// ErrLatticeCorrupt is returned by Traceback when no finite predecessor can
// be found before reaching the start cell.
var ErrLatticeCorrupt = errors.New("lattice: no finite predecessor during traceback")

// Engine owns one dense lattice for one alignment. It borrows the machine,
// score table, mutator parameters and observed sequence immutably and does
// not outlive a single Fill/LogLikelihood/Traceback cycle.
type Engine struct {
	machine *transducer.Machine
	scores  []scoretable.StateScores
	mut     *mutator.Params
	seq     []byte

	nStates   int
	seqLen    int
	maxDupLen int
	start     transducer.StateIdx

	cells []float64
}

// New allocates a lattice for aligning seq against machine, using the
// precomputed score table and mutator parameters.
func New(m *transducer.Machine, scores []scoretable.StateScores, mut *mutator.Params, seq []byte) (*Engine, error) {
	if len(scores) != m.NumStates() {
		return nil, fmt.Errorf("lattice: score table has %d entries for %d machine states", len(scores), m.NumStates())
	}
	nStates := m.NumStates()
	seqLen := len(seq)
	maxDupLen := mut.MaxDupLen()
	size := nStates * (seqLen + 1) * MutAxisLen(maxDupLen)
	return &Engine{
		machine:   m,
		scores:    scores,
		mut:       mut,
		seq:       seq,
		nStates:   nStates,
		seqLen:    seqLen,
		maxDupLen: maxDupLen,
		start:     m.Start(),
		cells:     make([]float64, size),
	}, nil
}

func (e *Engine) get(state, pos, mutFlat int) float64 {
	return e.cells[CellIndex(state, pos, mutFlat, e.nStates, e.maxDupLen)]
}

func (e *Engine) set(state, pos, mutFlat int, v float64) {
	e.cells[CellIndex(state, pos, mutFlat, e.nStates, e.maxDupLen)] = v
}

// kmax returns Kmax(state) = min(maxDupLen, |leftContext(state)|).
func (e *Engine) kmax(state int) int {
	lc := len(e.scores[state].LeftContext)
	if lc < e.maxDupLen {
		return lc
	}
	return e.maxDupLen
}

// tripleMax returns max(cell[state,pos,S], cell[state,pos,D], max_k
// cell[state,pos,T(k)]), the "source-cell max" a predecessor contributes to
// an emit or delete recurrence.
func (e *Engine) tripleMax(state, pos int) float64 {
	best := math.Max(e.get(state, pos, MutState{Kind: MutS}.Flat()), e.get(state, pos, MutState{Kind: MutD}.Flat()))
	for k := 0; k < e.kmax(state); k++ {
		if v := e.get(state, pos, MutState{Kind: MutT, K: k}.Flat()); v > best {
			best = v
		}
	}
	return best
}

// Fill computes every lattice cell. Positions are processed
// in order 0..seqLen; within a position, cells that depend only on the
// previous position (the raw emit and tandem-duplication terms) are
// computed first, then same-position dependencies (null-predecessor
// propagation into S, and the Delete recurrence's same-position
// emit-predecessor term) are resolved by relaxation to a fixed point.
//
// Delete does not advance pos (a deleted base consumes an input symbol but
// leaves no trace in the observed sequence), so its source cell sits at the
// *same* position as its destination, same as null propagation. Only the
// null subgraph is required to be acyclic, so the same-position dependency
// graph formed jointly by null transitions and Delete's emit-predecessor
// term can itself contain cycles (e.g. a self-looping state that always
// deletes). All involved log-probabilities are <= 0, so these are
// non-negative-cost cycles in the tropical semiring and a Bellman-Ford-style
// relaxation converges to the same fixed point a topological pass would
// give on an acyclic graph, in at most nStates+1 rounds; relaxSamePosition
// treats that bound as its defensive iteration cap.
func (e *Engine) Fill() error {
	for i := range e.cells {
		e.cells[i] = math.Inf(-1)
	}
	e.set(int(e.start), 0, MutState{Kind: MutS}.Flat(), 0)

	for pos := 0; pos <= e.seqLen; pos++ {
		if pos > 0 {
			e.fillFromPrevious(pos)
		}
		if err := e.relaxSamePosition(pos); err != nil {
			return err
		}
	}
	return nil
}

// fillFromPrevious computes, for every state, the baseline emit-via-
// substitution contribution to S and the tandem-duplication T(k) cells at
// pos, all of which read only from pos-1.
func (e *Engine) fillFromPrevious(pos int) {
	x := e.seq[pos-1]
	sFlat := MutState{Kind: MutS}.Flat()

	for state := 0; state < e.nStates; state++ {
		ss := &e.scores[state]

		best := math.Inf(-1)
		for _, p := range ss.Emit {
			v := e.tripleMax(int(p.Src), pos-1) + p.Score + e.mut.LogSub(p.Base, x)
			if v > best {
				best = v
			}
		}
		e.set(state, pos, sFlat, best)

		kmax := e.kmax(state)
		for k := 0; k < kmax; k++ {
			base := ss.LeftContext[len(ss.LeftContext)-1-k]
			sub := e.mut.LogSub(base, x)

			start := math.Inf(-1)
			if logDup, err := e.mut.LogDup(k); err == nil {
				sOrD := math.Max(e.get(state, pos-1, sFlat), e.get(state, pos-1, MutState{Kind: MutD}.Flat()))
				if !math.IsInf(sOrD, -1) {
					start = sOrD + logDup + sub
				}
			}

			cont := math.Inf(-1)
			if k+1 < kmax {
				prev := e.get(state, pos-1, MutState{Kind: MutT, K: k + 1}.Flat())
				if !math.IsInf(prev, -1) {
					cont = prev + sub
				}
			}

			e.set(state, pos, MutState{Kind: MutT, K: k}.Flat(), math.Max(start, cont))
		}
	}

	if glog.V(6) {
		glog.Infof("lattice: filled pos %d from previous position", pos)
	}
}

// relaxSamePosition resolves S's null-predecessor propagation and D's full
// recurrence (both its emit-predecessor term and its own null-predecessor
// propagation), all of which may depend on other states' cells at the same
// pos. See Fill's doc comment for why this needs relaxation rather than a
// single topological pass.
func (e *Engine) relaxSamePosition(pos int) error {
	sFlat := MutState{Kind: MutS}.Flat()
	dFlat := MutState{Kind: MutD}.Flat()

	changed := true
	for iter := 0; changed; iter++ {
		if iter > e.nStates+1 {
			return fmt.Errorf("lattice: same-position relaxation at pos %d failed to converge after %d rounds", pos, iter)
		}
		changed = false
		for state := 0; state < e.nStates; state++ {
			ss := &e.scores[state]

			for _, p := range ss.Null {
				if v := e.get(int(p.Src), pos, sFlat) + p.Score; v > e.get(state, pos, sFlat) {
					e.set(state, pos, sFlat, v)
					changed = true
				}
			}

			for _, p := range ss.Emit {
				if v := e.tripleMax(int(p.Src), pos) + p.Score + e.mut.LogDel(); v > e.get(state, pos, dFlat) {
					e.set(state, pos, dFlat, v)
					changed = true
				}
			}
			for _, p := range ss.Null {
				if v := e.get(int(p.Src), pos, dFlat) + p.Score; v > e.get(state, pos, dFlat) {
					e.set(state, pos, dFlat, v)
					changed = true
				}
			}
		}
		if glog.V(6) {
			glog.Infof("lattice: relax pos %d iteration %d changed=%t", pos, iter, changed)
		}
	}
	return nil
}

// LogLikelihood returns the best alignment score, or ErrUnalignable if no
// end state has a finite cell at the final position.
func (e *Engine) LogLikelihood() (float64, error) {
	best := math.Inf(-1)
	sFlat := MutState{Kind: MutS}.Flat()
	dFlat := MutState{Kind: MutD}.Flat()
	for state := 0; state < e.nStates; state++ {
		if !e.machine.State(transducer.StateIdx(state)).IsEnd {
			continue
		}
		if v := math.Max(e.get(state, e.seqLen, sFlat), e.get(state, e.seqLen, dFlat)); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return 0, ErrUnalignable
	}
	if glog.V(5) {
		glog.Infof("lattice: loglike %v over %d states", best+e.mut.LogEnd(), e.nStates)
	}
	return best + e.mut.LogEnd(), nil
}
