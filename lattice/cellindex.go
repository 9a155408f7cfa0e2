package lattice

// CellIndex computes the flat offset into the dense nStates x (seqLen+1) x
// (maxDupLen+2) lattice array for (state, pos, mutFlat).
func CellIndex(state, pos, mutFlat, nStates, maxDupLen int) int {
	return (maxDupLen+2)*(pos*nStates+state) + mutFlat
}
