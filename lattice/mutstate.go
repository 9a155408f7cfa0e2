package lattice

// MutKind identifies which of the three mutator-state shapes a lattice cell
// belongs to.
type MutKind int

const (
	// MutS is the substitute/match state: the most recently emitted base
	// was kept or substituted, never deleted or duplicated.
	MutS MutKind = iota
	// MutD is the delete state: the most recently emitted base was
	// dropped from the observed sequence.
	MutD
	// MutT is a tandem-duplication-in-progress state, parameterized by K.
	MutT
)

// MutState is the tagged-sum mutator state for a lattice cell. Only MutT
// uses K; it is otherwise ignored.
type MutState struct {
	Kind MutKind
	K    int
}

// Flat maps a MutState onto its position on the lattice's third axis:
// 0=S, 1=D, 2..maxDupLen+1=T(k).
func (m MutState) Flat() int {
	switch m.Kind {
	case MutS:
		return 0
	case MutD:
		return 1
	case MutT:
		return 2 + m.K
	default:
		panic("lattice: invalid MutKind")
	}
}

// MutAxisLen returns the size of the mutator-state axis for a mutator that
// supports tandem duplications up to maxDupLen.
func MutAxisLen(maxDupLen int) int { return maxDupLen + 2 }
