// Package transducer implements the finite-state Machine data model: named
// states, input/output-labeled transitions, and the well-formedness checks
// the Viterbi lattice and streaming decoder both depend on.
package transducer

import (
	"fmt"

	"github.com/mingnet/dnastore/alphabet"
)

// StateIdx is a state's position in Machine.states; states are referenced
// by this integer index everywhere outside the builder.
type StateIdx int

// Transition is a single outgoing arc: consume In (or alphabet.Null) and
// emit Out (or alphabet.NoBase), moving to Dest.
type Transition struct {
	Dest StateIdx
	In   alphabet.Symbol
	Out  byte
}

// IsNull reports whether this is a null (non-emitting) transition.
func (t Transition) IsNull() bool { return t.Out == alphabet.NoBase }

// IsUsable reports whether the decoder recognizes this transition's input
// label.
func (t Transition) IsUsable() bool {
	return t.In == alphabet.Null || alphabet.IsBit(t.In) || t.In == alphabet.SOF || t.In == alphabet.EOF || alphabet.IsControl(t.In)
}

// State is a single node of the machine.
type State struct {
	Name string
	IsEnd bool
	Out  []Transition

	emitsOutput    bool
	exitsWithInput bool
}

// EmitsOutput is true iff every outgoing transition carries a non-null
// output.
func (s *State) EmitsOutput() bool { return s.emitsOutput }

// ExitsWithInput is true iff every outgoing transition consumes an input
// symbol.
func (s *State) ExitsWithInput() bool { return s.exitsWithInput }

// Machine is a finite-state transducer: a directed graph of States with a
// distinguished start state, built once via Builder and then treated as
// immutable by every downstream component.
type Machine struct {
	states []*State
	index  map[string]StateIdx
	start  StateIdx

	// nullOrder lists every state index in an order where a null
	// transition's source always precedes its destination. Computed once
	// at Finalize, where building it is the null-cycle check, and exposed
	// through NullOrder.
	nullOrder []StateIdx
}

// Builder incrementally constructs a Machine. Unlike the dense Machine it
// produces, the builder is mutable and is discarded once Finalize succeeds.
type Builder struct {
	states []*State
	index  map[string]StateIdx
	start  StateIdx
	hasStart bool
}

// NewBuilder creates an empty machine builder.
func NewBuilder() *Builder {
	return &Builder{index: map[string]StateIdx{}}
}

// AddState registers a new named state and returns its index. The name must
// be unique within the builder.
func (b *Builder) AddState(name string, isEnd bool) (StateIdx, error) {
	if _, dup := b.index[name]; dup {
		return 0, fmt.Errorf("transducer: duplicate state name %q", name)
	}
	idx := StateIdx(len(b.states))
	b.states = append(b.states, &State{Name: name, IsEnd: isEnd})
	b.index[name] = idx
	return idx, nil
}

// SetStart marks idx as the machine's distinguished start state.
func (b *Builder) SetStart(idx StateIdx) error {
	if int(idx) < 0 || int(idx) >= len(b.states) {
		return fmt.Errorf("transducer: start index %d out of range", idx)
	}
	b.start = idx
	b.hasStart = true
	return nil
}

// AddTransition appends an outgoing transition to the state identified by
// from. Transitions are kept in the order added; the lattice filler's
// tie-break rule ("prefer the one listed first") relies on this order
// being preserved.
func (b *Builder) AddTransition(from, to StateIdx, in alphabet.Symbol, out byte) error {
	if int(from) < 0 || int(from) >= len(b.states) {
		return fmt.Errorf("transducer: source index %d out of range", from)
	}
	if int(to) < 0 || int(to) >= len(b.states) {
		return fmt.Errorf("transducer: dest index %d out of range", to)
	}
	b.states[from].Out = append(b.states[from].Out, Transition{Dest: to, In: in, Out: out})
	return nil
}

// Finalize computes the derived per-state observations, checks
// well-formedness (the null closure of any state terminates), and returns
// an immutable Machine.
func (b *Builder) Finalize() (*Machine, error) {
	if !b.hasStart {
		return nil, fmt.Errorf("transducer: no start state set")
	}
	if len(b.states) == 0 {
		return nil, fmt.Errorf("transducer: machine has no states")
	}

	for _, s := range b.states {
		s.emitsOutput = true
		s.exitsWithInput = true
		for _, t := range s.Out {
			if t.IsNull() {
				s.emitsOutput = false
			}
			if t.In == alphabet.Null {
				s.exitsWithInput = false
			}
		}
		// A state with no outgoing transitions trivially satisfies both
		// "every outgoing transition..." observations.
	}

	order, err := nullTopoOrder(b.states)
	if err != nil {
		return nil, err
	}

	return &Machine{
		states:    b.states,
		index:     b.index,
		start:     b.start,
		nullOrder: order,
	}, nil
}

// nullTopoOrder computes a topological order of all states using only null
// transitions as edges, failing if the null-transition subgraph has a
// cycle anywhere.
//
// This is stricter than well-formedness strictly requires: well-formedness
// only demands that the null closure terminate, which only constrains
// cycles restricted to non-emitting states (a null cycle that passes
// through a state with a non-null outgoing transition can still leave that
// cycle during closure). A machine with a null cycle confined to emitting
// states is therefore well-formed but rejected here; Finalize treats that
// as acceptable collateral stringency rather than a case worth the extra
// bookkeeping to special-case.
func nullTopoOrder(states []*State) ([]StateIdx, error) {
	n := len(states)
	indeg := make([]int, n)
	for _, s := range states {
		for _, t := range s.Out {
			if t.IsNull() {
				indeg[t.Dest]++
			}
		}
	}

	var queue []StateIdx
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, StateIdx(i))
		}
	}

	order := make([]StateIdx, 0, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, t := range states[cur].Out {
			if !t.IsNull() {
				continue
			}
			indeg[t.Dest]--
			if indeg[t.Dest] == 0 {
				queue = append(queue, t.Dest)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("transducer: null-transition subgraph has a cycle (well-formedness violated)")
	}
	return order, nil
}

// NumStates returns the number of states in the machine.
func (m *Machine) NumStates() int { return len(m.states) }

// State returns the state at idx.
func (m *Machine) State(idx StateIdx) *State { return m.states[idx] }

// States returns every state, in builder order.
func (m *Machine) States() []*State { return m.states }

// Start returns the distinguished start state.
func (m *Machine) Start() StateIdx { return m.start }

// Lookup finds a state's index by name.
func (m *Machine) Lookup(name string) (StateIdx, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// NullOrder returns the precomputed null-closure topological order.
func (m *Machine) NullOrder() []StateIdx { return m.nullOrder }

// Clone deep-copies the machine: states and transitions are plain
// value/slice data, so a manual deep copy is straightforward. Changes to
// the clone's states or transitions do not affect the original.
func (m *Machine) Clone() *Machine {
	states := make([]*State, len(m.states))
	index := make(map[string]StateIdx, len(m.index))
	for i, s := range m.states {
		cp := &State{
			Name:           s.Name,
			IsEnd:          s.IsEnd,
			Out:            append([]Transition(nil), s.Out...),
			emitsOutput:    s.emitsOutput,
			exitsWithInput: s.exitsWithInput,
		}
		states[i] = cp
		index[s.Name] = StateIdx(i)
	}
	return &Machine{
		states:    states,
		index:     index,
		start:     m.start,
		nullOrder: append([]StateIdx(nil), m.nullOrder...),
	}
}
