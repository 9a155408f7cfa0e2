// Package mutator implements the noise model applied to a transducer's
// output: substitution, deletion and tandem duplication of output bases.
package mutator

import (
	"fmt"
	"math"
)

// Params holds per-operation log-probabilities on the output alphabet.
type Params struct {
	sub       map[byte]map[byte]float64
	logDel    float64
	logDup    []float64 // logDup[k] = log P(duplication of total length k+1), k in [0,maxDupLen-1]
	logEnd    float64
	maxDupLen int
}

// New builds mutator parameters. sub maps a->b->log P(observe b | emitted
// a). logDup must have exactly maxDupLen entries (logDup[k] is the
// log-probability of a duplication of total length k+1).
func New(sub map[byte]map[byte]float64, logDel float64, logDup []float64, logEnd float64) (*Params, error) {
	if len(logDup) == 0 {
		// maxDupLen == 0 is legal: no tandem-duplication support.
	}
	return &Params{
		sub:       sub,
		logDel:    logDel,
		logDup:    append([]float64(nil), logDup...),
		logEnd:    logEnd,
		maxDupLen: len(logDup),
	}, nil
}

// MaxDupLen returns the maximum supported tandem-duplication length.
func (p *Params) MaxDupLen() int { return p.maxDupLen }

// LogSub returns log P(observe b | emitted a), or -Inf if unmodeled.
func (p *Params) LogSub(a, b byte) float64 {
	if row, ok := p.sub[a]; ok {
		if v, ok := row[b]; ok {
			return v
		}
	}
	return math.Inf(-1)
}

// LogDel returns log P(delete | emitted base). The mutator models a single
// deletion rate independent of the deleted base.
func (p *Params) LogDel() float64 { return p.logDel }

// LogDup returns log P(tandem duplication of total length k+1), for k in
// [0, MaxDupLen()-1].
func (p *Params) LogDup(k int) (float64, error) {
	if k < 0 || k >= p.maxDupLen {
		return 0, fmt.Errorf("mutator: dup length index %d out of range [0,%d)", k, p.maxDupLen)
	}
	return p.logDup[k], nil
}

// LogEnd returns the end-state log-probability applied once at Viterbi
// termination.
func (p *Params) LogEnd() float64 { return p.logEnd }

// Uniform builds a simple mutator over baseAlphabet: pSub is split
// uniformly across the (len-1) mismatching bases for each true base
// (1-pSub-pDel-sum(pDup) kept as the match probability), pDel is the flat
// deletion rate, pDup is indexed by duplication length (len(pDup) ==
// maxDupLen), pEnd is the end-state probability. This is a convenience
// fixture constructor for tests, not a production parameter loader.
func Uniform(baseAlphabet []byte, pSub, pDel float64, pDup []float64, pEnd float64) (*Params, error) {
	n := len(baseAlphabet)
	if n < 2 {
		return nil, fmt.Errorf("mutator: base alphabet needs >=2 symbols")
	}
	var dupSum float64
	for _, p := range pDup {
		dupSum += p
	}
	pMatch := 1 - pSub - pDel - dupSum
	if pMatch < 0 {
		return nil, fmt.Errorf("mutator: probabilities sum to more than 1")
	}
	pMismatchEach := 0.0
	if n > 1 {
		pMismatchEach = pSub / float64(n-1)
	}

	sub := make(map[byte]map[byte]float64, n)
	for _, a := range baseAlphabet {
		row := make(map[byte]float64, n)
		for _, b := range baseAlphabet {
			if a == b {
				row[b] = math.Log(pMatch)
			} else {
				row[b] = math.Log(pMismatchEach)
			}
		}
		sub[a] = row
	}

	logDup := make([]float64, len(pDup))
	for i, p := range pDup {
		logDup[i] = math.Log(p)
	}

	return New(sub, math.Log(pDel), logDup, math.Log(pEnd))
}
