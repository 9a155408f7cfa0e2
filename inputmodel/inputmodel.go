// Package inputmodel implements the probability mass function over the
// input alphabet plus control tokens.
package inputmodel

import (
	"fmt"
	"math"

	"github.com/mingnet/dnastore/alphabet"
)

// Model is a PMF over input symbols, stored as log-probabilities.
type Model struct {
	logP map[alphabet.Symbol]float64

	// positionalEndpointsOnly records whether SOF/EOF should carry nonzero
	// mass at arbitrary positions, or only at the sequence endpoints.
	// false (the default) distributes control-token mass uniformly
	// everywhere; true restricts SOF/EOF mass to position 0 / seqLen-1
	// (callers enforce the position restriction themselves; this flag
	// only documents which convention a Model was built under).
	positionalEndpointsOnly bool
}

// LogP returns the log-probability of sym, or -Inf if sym has no mass
// under this model. alphabet.Null is not part of the modeled PMF: taking
// a null transition consumes no input symbol, so it always scores 0 here
// regardless of what the PMF assigns everything else.
func (m *Model) LogP(sym alphabet.Symbol) float64 {
	if sym == alphabet.Null {
		return 0
	}
	if p, ok := m.logP[sym]; ok {
		return p
	}
	return math.Inf(-1)
}

// PositionalEndpointsOnly reports which SOF/EOF convention this model was
// built under.
func (m *Model) PositionalEndpointsOnly() bool { return m.positionalEndpointsOnly }

// NewControlSplitInputModel builds a model where pCtrl is distributed
// uniformly across SOF, EOF, and every control token, and 1-pCtrl is
// distributed uniformly across plainAlphabet.
func NewControlSplitInputModel(plainAlphabet []alphabet.Symbol, numControls int, pCtrl float64) (*Model, error) {
	if pCtrl < 0 || pCtrl > 1 {
		return nil, fmt.Errorf("inputmodel: pCtrl=%v out of [0,1]", pCtrl)
	}
	if len(plainAlphabet) == 0 {
		return nil, fmt.Errorf("inputmodel: empty plain alphabet")
	}

	controls := make([]alphabet.Symbol, 0, numControls+2)
	controls = append(controls, alphabet.SOF, alphabet.EOF)
	for i := 0; i < numControls; i++ {
		controls = append(controls, alphabet.Control(i))
	}

	logP := make(map[alphabet.Symbol]float64, len(plainAlphabet)+len(controls))

	if pCtrl > 0 {
		pEach := pCtrl / float64(len(controls))
		for _, c := range controls {
			logP[c] = math.Log(pEach)
		}
	}
	pPlain := (1 - pCtrl) / float64(len(plainAlphabet))
	for _, s := range plainAlphabet {
		logP[s] = math.Log(pPlain)
	}

	return &Model{logP: logP}, nil
}

// WithPositionalEndpointsOnly returns a copy of the model tagged with the
// alternate convention (SOF/EOF mass meaningful only at sequence
// endpoints). It does not change LogP's output; it only records the
// convention for callers that need to branch on it.
func (m *Model) WithPositionalEndpointsOnly() *Model {
	cp := &Model{logP: m.logP, positionalEndpointsOnly: true}
	return cp
}
