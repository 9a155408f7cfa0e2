package lattice

import (
	"math"

	"github.com/mingnet/dnastore/alphabet"
	"github.com/mingnet/dnastore/transducer"
)

// candidate is one predecessor hypothesis considered while recomputing a
// cell's max during traceback.
type candidate struct {
	score float64
	state int
	pos   int
	kind  MutKind
	k     int
	emits bool
	base  byte
}

// Traceback recovers the maximum-likelihood input string by starting at the
// argmax end cell and repeatedly recomputing which predecessor achieved
// each cell's max. Ties are broken in favor of the predecessor considered
// first, matching the order candidates are registered below (transition
// list order for Emit/Null predecessors, duplication-start before
// duplication-continue for T states).
func (e *Engine) Traceback() (string, error) {
	sFlat := MutState{Kind: MutS}.Flat()
	dFlat := MutState{Kind: MutD}.Flat()

	bestState, bestKind, best := -1, MutS, math.Inf(-1)
	for state := 0; state < e.nStates; state++ {
		if !e.machine.State(transducer.StateIdx(state)).IsEnd {
			continue
		}
		if v := e.get(state, e.seqLen, sFlat); v > best {
			best, bestState, bestKind = v, state, MutS
		}
		if v := e.get(state, e.seqLen, dFlat); v > best {
			best, bestState, bestKind = v, state, MutD
		}
	}
	if bestState < 0 || math.IsInf(best, -1) {
		return "", ErrUnalignable
	}

	var buf []byte
	state, pos, kind, k := bestState, e.seqLen, bestKind, 0
	for !(state == int(e.start) && pos == 0 && kind == MutS) {
		c, ok := e.step(state, pos, kind, k)
		if !ok {
			return "", ErrLatticeCorrupt
		}
		if c.emits {
			buf = append(buf, c.base)
		}
		state, pos, kind, k = c.state, c.pos, c.kind, c.k
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// bestTriple is tripleMax's traceback counterpart: it also reports which of
// S/D/T(k) achieved the max, breaking ties toward S, then D, then the
// smallest k.
func (e *Engine) bestTriple(state, pos int) (MutKind, int, float64) {
	kind, k := MutS, 0
	val := e.get(state, pos, MutState{Kind: MutS}.Flat())
	if v := e.get(state, pos, MutState{Kind: MutD}.Flat()); v > val {
		val, kind = v, MutD
	}
	for kk := 0; kk < e.kmax(state); kk++ {
		if v := e.get(state, pos, MutState{Kind: MutT, K: kk}.Flat()); v > val {
			val, kind, k = v, MutT, kk
		}
	}
	return kind, k, val
}

// step recomputes cell (state,pos,kind,k)'s max and returns the winning
// predecessor, mirroring the forward recurrences in engine.go exactly but
// keeping the argmax instead of just the max.
func (e *Engine) step(state, pos int, kind MutKind, k int) (candidate, bool) {
	var best *candidate
	consider := func(c candidate) {
		if best == nil || c.score > best.score {
			cc := c
			best = &cc
		}
	}

	ss := &e.scores[state]

	switch kind {
	case MutS:
		if pos >= 1 {
			x := e.seq[pos-1]
			for _, p := range ss.Emit {
				srcKind, srcK, srcVal := e.bestTriple(int(p.Src), pos-1)
				v := srcVal + p.Score + e.mut.LogSub(p.Base, x)
				consider(candidate{score: v, state: int(p.Src), pos: pos - 1, kind: srcKind, k: srcK,
					emits: p.In != alphabet.Null, base: byte(p.In)})
			}
		}
		for _, p := range ss.Null {
			v := e.get(int(p.Src), pos, MutState{Kind: MutS}.Flat()) + p.Score
			consider(candidate{score: v, state: int(p.Src), pos: pos, kind: MutS,
				emits: p.In != alphabet.Null, base: byte(p.In)})
		}

	case MutD:
		for _, p := range ss.Emit {
			srcKind, srcK, srcVal := e.bestTriple(int(p.Src), pos)
			v := srcVal + p.Score + e.mut.LogDel()
			consider(candidate{score: v, state: int(p.Src), pos: pos, kind: srcKind, k: srcK,
				emits: p.In != alphabet.Null, base: byte(p.In)})
		}
		for _, p := range ss.Null {
			v := e.get(int(p.Src), pos, MutState{Kind: MutD}.Flat()) + p.Score
			consider(candidate{score: v, state: int(p.Src), pos: pos, kind: MutD,
				emits: p.In != alphabet.Null, base: byte(p.In)})
		}

	case MutT:
		if pos >= 1 {
			x := e.seq[pos-1]
			base := ss.LeftContext[len(ss.LeftContext)-1-k]
			sub := e.mut.LogSub(base, x)

			if logDup, err := e.mut.LogDup(k); err == nil {
				sVal := e.get(state, pos-1, MutState{Kind: MutS}.Flat())
				dVal := e.get(state, pos-1, MutState{Kind: MutD}.Flat())
				if sVal >= dVal {
					consider(candidate{score: sVal + logDup + sub, state: state, pos: pos - 1, kind: MutS})
				} else {
					consider(candidate{score: dVal + logDup + sub, state: state, pos: pos - 1, kind: MutD})
				}
			}
			if k+1 < e.kmax(state) {
				prev := e.get(state, pos-1, MutState{Kind: MutT, K: k + 1}.Flat())
				consider(candidate{score: prev + sub, state: state, pos: pos - 1, kind: MutT, k: k + 1})
			}
		}
	}

	if best == nil {
		return candidate{}, false
	}
	return *best, true
}
