package lattice

import "testing"

func TestCellIndexDistinct(t *testing.T) {
	nStates, maxDupLen := 3, 2
	seen := map[int]bool{}
	for pos := 0; pos <= 4; pos++ {
		for state := 0; state < nStates; state++ {
			for mf := 0; mf < MutAxisLen(maxDupLen); mf++ {
				idx := CellIndex(state, pos, mf, nStates, maxDupLen)
				if seen[idx] {
					t.Fatalf("collision at state=%d pos=%d mutFlat=%d -> index %d", state, pos, mf, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestMutStateFlat(t *testing.T) {
	cases := []struct {
		ms   MutState
		want int
	}{
		{MutState{Kind: MutS}, 0},
		{MutState{Kind: MutD}, 1},
		{MutState{Kind: MutT, K: 0}, 2},
		{MutState{Kind: MutT, K: 3}, 5},
	}
	for _, c := range cases {
		if got := c.ms.Flat(); got != c.want {
			t.Errorf("MutState%+v.Flat() = %d, want %d", c.ms, got, c.want)
		}
	}
}
