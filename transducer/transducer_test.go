package transducer

import (
	"testing"

	"github.com/mingnet/dnastore/alphabet"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// identityMachine builds a single self-looping state that copies every bit
// straight through, the simplest possible well-formed machine.
func identityMachine(t *testing.T) *Machine {
	t.Helper()
	b := NewBuilder()
	s0, err := b.AddState("S0", true)
	must(t, err)
	must(t, b.SetStart(s0))
	must(t, b.AddTransition(s0, s0, alphabet.Bit0, '0'))
	must(t, b.AddTransition(s0, s0, alphabet.Bit1, '1'))
	m, err := b.Finalize()
	must(t, err)
	return m
}

func TestBuilderDuplicateStateName(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddState("S0", false); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddState("S0", false); err == nil {
		t.Fatal("expected an error for a duplicate state name")
	}
}

func TestFinalizeRequiresStart(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddState("S0", true); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finalize(); err == nil {
		t.Fatal("expected an error when no start state is set")
	}
}

func TestFinalizeRejectsNullCycle(t *testing.T) {
	b := NewBuilder()
	s0, err := b.AddState("S0", false)
	must(t, err)
	s1, err := b.AddState("S1", false)
	must(t, err)
	must(t, b.SetStart(s0))
	must(t, b.AddTransition(s0, s1, alphabet.Null, alphabet.NoBase))
	must(t, b.AddTransition(s1, s0, alphabet.Null, alphabet.NoBase))
	if _, err := b.Finalize(); err == nil {
		t.Fatal("expected a well-formedness error for a null-transition cycle")
	}
}

func TestEmitsOutputAndExitsWithInput(t *testing.T) {
	m := identityMachine(t)
	s0 := m.State(m.Start())
	if !s0.EmitsOutput() {
		t.Error("identity state should emit output on every transition")
	}
	if !s0.ExitsWithInput() {
		t.Error("identity state should consume input on every transition")
	}

	b := NewBuilder()
	a, err := b.AddState("A", false)
	must(t, err)
	e, err := b.AddState("E", true)
	must(t, err)
	must(t, b.SetStart(a))
	must(t, b.AddTransition(a, e, alphabet.Null, alphabet.NoBase))
	mix, err := b.Finalize()
	must(t, err)
	if mix.State(a).EmitsOutput() {
		t.Error("a state with a null-output transition should not report EmitsOutput")
	}
	if mix.State(a).ExitsWithInput() {
		t.Error("a state with a null-input transition should not report ExitsWithInput")
	}
}

func TestTransitionIsNullAndIsUsable(t *testing.T) {
	null := Transition{In: alphabet.Null, Out: alphabet.NoBase}
	if !null.IsNull() || !null.IsUsable() {
		t.Error("a pure null transition should be both null and usable")
	}
	bit := Transition{In: alphabet.Bit1, Out: '1'}
	if bit.IsNull() || !bit.IsUsable() {
		t.Error("a bit-emitting transition should be non-null and usable")
	}
	ctrl := Transition{In: alphabet.Control(3), Out: alphabet.NoBase}
	if !ctrl.IsUsable() {
		t.Error("a control-token transition should be usable")
	}
}

func TestLookupAndNullOrder(t *testing.T) {
	m := identityMachine(t)
	idx, ok := m.Lookup("S0")
	if !ok || idx != m.Start() {
		t.Fatal("Lookup should find the start state by name")
	}
	if _, ok := m.Lookup("nope"); ok {
		t.Error("Lookup should fail for an undeclared name")
	}
	if len(m.NullOrder()) != m.NumStates() {
		t.Errorf("NullOrder has %d entries, want %d", len(m.NullOrder()), m.NumStates())
	}
}

func TestClone(t *testing.T) {
	m := identityMachine(t)
	c := m.Clone()
	if c.NumStates() != m.NumStates() {
		t.Fatalf("clone has %d states, want %d", c.NumStates(), m.NumStates())
	}
	c.State(c.Start()).Out[0].Out = '1'
	if m.State(m.Start()).Out[0].Out == '1' {
		t.Error("mutating the clone's transitions should not affect the original")
	}
}

func nullChainMachine(t *testing.T) *Machine {
	t.Helper()
	b := NewBuilder()
	s0, err := b.AddState("S0", false)
	must(t, err)
	s1, err := b.AddState("S1", false)
	must(t, err)
	s2, err := b.AddState("S2", true)
	must(t, err)
	must(t, b.SetStart(s0))
	must(t, b.AddTransition(s0, s1, alphabet.Null, alphabet.NoBase))
	must(t, b.AddTransition(s1, s2, alphabet.Null, alphabet.NoBase))
	m, err := b.Finalize()
	must(t, err)
	return m
}

func TestShortestNullPathFindsDeepestChain(t *testing.T) {
	m := nullChainMachine(t)
	path, hops := m.ShortestNullPath()
	if hops != 2 {
		t.Fatalf("hops = %d, want 2", hops)
	}
	want := []string{"S0", "S1", "S2"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestShortestNullPathNoNullTransitions(t *testing.T) {
	m := identityMachine(t)
	path, hops := m.ShortestNullPath()
	if hops != 0 {
		t.Errorf("hops = %d, want 0", hops)
	}
	if len(path) != 1 || path[0] != "S0" {
		t.Errorf("path = %v, want [S0]", path)
	}
}

func TestReachableFromStart(t *testing.T) {
	m := nullChainMachine(t)
	path, ok := m.ReachableFromStart("S2")
	if !ok {
		t.Fatal("expected S2 to be reachable from the start state")
	}
	if len(path) == 0 || path[len(path)-1] != "S2" {
		t.Errorf("path = %v, want it to end at S2", path)
	}
}

func TestEndStateNames(t *testing.T) {
	m := nullChainMachine(t)
	names := m.EndStateNames()
	if len(names) != 1 || names[0] != "S2" {
		t.Errorf("EndStateNames() = %v, want [S2]", names)
	}
}
