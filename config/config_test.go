package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildMachineIdentity(t *testing.T) {
	mio := &MachineIO{
		Start: "S0",
		States: []StateIO{
			{Name: "S0", Out: []TransitionIO{
				{To: "S0", In: "0", Out: "0"},
				{To: "S0", In: "1", Out: "1"},
				{To: "S1", In: "null"},
			}},
			{Name: "S1", End: true},
		},
	}
	m, err := mio.BuildMachine()
	if err != nil {
		t.Fatal(err)
	}
	if m.NumStates() != 2 {
		t.Fatalf("got %d states, want 2", m.NumStates())
	}
	s0, ok := m.Lookup("S0")
	if !ok || s0 != m.Start() {
		t.Fatal("expected S0 to be the start state")
	}
}

func TestBuildMachineUndeclaredStart(t *testing.T) {
	mio := &MachineIO{Start: "nope", States: []StateIO{{Name: "S0"}}}
	if _, err := mio.BuildMachine(); err == nil {
		t.Fatal("expected an error for an undeclared start state")
	}
}

func TestMachineYAMLRoundTrip(t *testing.T) {
	mio := &MachineIO{
		Start: "A",
		States: []StateIO{
			{Name: "A", Out: []TransitionIO{{To: "B", In: "0", Out: "0"}}},
			{Name: "B", End: true},
		},
	}
	m, err := mio.BuildMachine()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	fn := filepath.Join(dir, "machine.yaml")
	if err := WriteMachineYAML(m, fn); err != nil {
		t.Fatal(err)
	}
	got, err := ReadMachineYAML(fn)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumStates() != m.NumStates() {
		t.Errorf("round-tripped machine has %d states, want %d", got.NumStates(), m.NumStates())
	}
	a, ok := got.Lookup("A")
	if !ok || a != got.Start() {
		t.Fatal("round-tripped machine lost its start state")
	}
}

func TestMachineJSONRoundTrip(t *testing.T) {
	mio := &MachineIO{
		Start: "A",
		States: []StateIO{
			{Name: "A", Out: []TransitionIO{{To: "B", In: "ctrl3", Out: ""}}},
			{Name: "B", End: true},
		},
	}
	m, err := mio.BuildMachine()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	fn := filepath.Join(dir, "machine.json")
	if err := WriteMachineJSON(m, fn); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fn); err != nil {
		t.Fatal(err)
	}
	got, err := ReadMachineJSON(fn)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumStates() != 2 {
		t.Errorf("got %d states, want 2", got.NumStates())
	}
}

func TestBuildInputModel(t *testing.T) {
	mio := &InputModelIO{
		PlainAlphabet: []string{"0", "1"},
		NumControls:   2,
		PCtrl:         0.1,
	}
	m, err := mio.BuildInputModel()
	if err != nil {
		t.Fatal(err)
	}
	if m.PositionalEndpointsOnly() {
		t.Error("expected PositionalEndpointsOnly=false by default")
	}
}

func TestBuildMutator(t *testing.T) {
	mio := &MutatorIO{
		BaseAlphabet: []string{"0", "1"},
		PSub:         0.01,
		PDel:         0.01,
		PDup:         []float64{0.02},
		PEnd:         1,
	}
	p, err := mio.BuildMutator()
	if err != nil {
		t.Fatal(err)
	}
	if p.MaxDupLen() != 1 {
		t.Errorf("MaxDupLen() = %d, want 1", p.MaxDupLen())
	}
}

func TestBuildMutatorBadAlphabetEntry(t *testing.T) {
	mio := &MutatorIO{BaseAlphabet: []string{"ab"}, PEnd: 1}
	if _, err := mio.BuildMutator(); err == nil {
		t.Fatal("expected an error for a multi-byte alphabet entry")
	}
}
