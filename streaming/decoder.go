// Package streaming implements the online hypothesis-set decoder: it
// consumes a clean (no-mutator) transducer output byte by byte and commits
// input symbols to a writer as soon as they become unambiguous.
//
// Unlike the batch lattice package, there is no dense array here: the
// decoder's whole state is a small map from machine state to a pending
// input queue, one live hypothesis per reachable state, with no
// observation scoring at all, since the streaming decoder has no mutator
// and only tracks which states remain consistent with everything observed
// so far.
package streaming

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"

	"github.com/mingnet/dnastore/alphabet"
	"github.com/mingnet/dnastore/iowriter"
	"github.com/mingnet/dnastore/transducer"
)

// Queue is a hypothesis's pending (not yet committed) input symbols, oldest
// first.
type Queue []alphabet.Symbol

func (q Queue) equal(o Queue) bool {
	if len(q) != len(o) {
		return false
	}
	for i := range q {
		if q[i] != o[i] {
			return false
		}
	}
	return true
}

func (q Queue) String() string {
	var b strings.Builder
	for _, s := range q {
		fmt.Fprintf(&b, "%d", s)
	}
	return b.String()
}

// QueueConflictError is a fatal QueueConflict: two paths reached the same
// state with different pending input queues.
type QueueConflictError struct {
	State    transducer.StateIdx
	Existing Queue
	New      Queue
}

func (e *QueueConflictError) Error() string {
	return fmt.Sprintf("streaming: queue conflict at state %d: existing=%q new=%q", e.State, e.Existing, e.New)
}

// CannotDecodeError is a fatal CannotDecode(symbol): no live hypothesis has
// a usable outgoing transition labeled with the observed symbol.
type CannotDecodeError struct {
	Symbol byte
}

func (e *CannotDecodeError) Error() string {
	return fmt.Sprintf("streaming: cannot decode observed symbol %q", e.Symbol)
}

// Decoder tracks the live hypothesis set for one streaming alignment.
// Exactly one Decoder owns its hypothesis set; outs is borrowed and must
// outlive the Decoder.
type Decoder struct {
	machine *transducer.Machine
	outs    iowriter.Writer
	current map[transducer.StateIdx]Queue
	closed  bool
}

// New constructs a Decoder seeded at machine's start state and runs the
// initial null-closure expansion.
func New(machine *transducer.Machine, outs iowriter.Writer) (*Decoder, error) {
	d := &Decoder{
		machine: machine,
		outs:    outs,
		current: map[transducer.StateIdx]Queue{machine.Start(): {}},
	}
	if err := d.expand(); err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeSymbol advances every live hypothesis across one observed output
// byte o.
func (d *Decoder) DecodeSymbol(o byte) error {
	if d.closed {
		return fmt.Errorf("streaming: DecodeSymbol called after Close")
	}

	next := map[transducer.StateIdx]Queue{}
	for state, q := range d.current {
		for _, t := range d.machine.State(state).Out {
			if !t.IsUsable() || t.Out != o {
				continue
			}
			nq := q
			if t.In != alphabet.Null {
				nq = append(append(Queue(nil), q...), t.In)
			}
			if existing, ok := next[t.Dest]; ok {
				if !existing.equal(nq) {
					return &QueueConflictError{State: t.Dest, Existing: existing, New: nq}
				}
				continue
			}
			next[t.Dest] = nq
		}
	}

	if len(next) == 0 {
		return &CannotDecodeError{Symbol: o}
	}

	d.current = next
	if err := d.expand(); err != nil {
		return err
	}

	if len(d.current) == 1 {
		for state, q := range d.current {
			if d.machine.State(state).ExitsWithInput() {
				d.flush(state, q)
				return nil
			}
		}
	}
	d.shiftResolvedSymbols()
	return nil
}

// DecodeString upper-cases and forwards every byte of s to DecodeSymbol.
func (d *Decoder) DecodeString(s []byte) error {
	for _, b := range s {
		if err := d.DecodeSymbol(alphabet.Uppercase(b)); err != nil {
			return err
		}
	}
	return nil
}

// Close runs a final null-closure expansion and flushes the hypothesis if
// exactly one remains live and its state is an end state; otherwise it
// warns with a full dump and discards the ambiguity (UnresolvedAtClose). Close is terminal: the
// Decoder must not be used again afterward.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	if err := d.expand(); err != nil {
		return err
	}

	var ends []transducer.StateIdx
	for state := range d.current {
		if d.machine.State(state).IsEnd {
			ends = append(ends, state)
		}
	}

	switch {
	case len(ends) == 1 && len(d.current) == 1:
		state := ends[0]
		d.flush(state, d.current[state])
	default:
		glog.Warningf("streaming: unresolved at close, %d end state(s), %d live hypothesis(es): %s",
			len(ends), len(d.current), d.dump())
	}

	d.current = nil
	d.closed = true
	return nil
}

// dump renders the full hypothesis set for the UnresolvedAtClose warning.
func (d *Decoder) dump() string {
	var b strings.Builder
	for _, state := range d.orderedStates() {
		fmt.Fprintf(&b, "{state=%d end=%t queue=%q} ", state, d.machine.State(state).IsEnd, d.current[state])
	}
	return b.String()
}

// orderedStates returns the live states in ascending index order, giving
// dump and shiftResolvedSymbols a deterministic iteration order over the
// decoder's integer state indices.
func (d *Decoder) orderedStates() []transducer.StateIdx {
	states := make([]transducer.StateIdx, 0, len(d.current))
	for s := range d.current {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// expand is the null-closure fixpoint: every live hypothesis whose state is
// an end state or emits output survives as-is; every usable null-output
// transition out of a live state adds a new hypothesis. Repeats until no
// new state is added. Well-formedness (the null-transition subgraph is
// acyclic restricted to non-emitting states) guarantees this terminates;
// the state count is used as the defensive iteration bound.
func (d *Decoder) expand() error {
	maxRounds := d.machine.NumStates() + 1
	for round := 0; ; round++ {
		if round > maxRounds {
			return fmt.Errorf("streaming: null closure failed to converge after %d rounds (well-formedness violated)", maxRounds)
		}
		next := map[transducer.StateIdx]Queue{}
		for state, q := range d.current {
			if d.machine.State(state).IsEnd || d.machine.State(state).EmitsOutput() {
				next[state] = q
			}
		}
		for state, q := range d.current {
			for _, t := range d.machine.State(state).Out {
				if !t.IsUsable() || !t.IsNull() {
					continue
				}
				nq := q
				if t.In != alphabet.Null {
					nq = append(append(Queue(nil), q...), t.In)
				}
				if existing, ok := next[t.Dest]; ok {
					if !existing.equal(nq) {
						return &QueueConflictError{State: t.Dest, Existing: existing, New: nq}
					}
					continue
				}
				next[t.Dest] = nq
			}
		}
		if setsEqual(d.current, next) {
			d.current = next
			return nil
		}
		d.current = next
	}
}

func setsEqual(a, b map[transducer.StateIdx]Queue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.equal(ov) {
			return false
		}
	}
	return true
}

// shiftResolvedSymbols commits every leading symbol shared by all non-empty
// queues, repeatedly, until the queues disagree or run out.
func (d *Decoder) shiftResolvedSymbols() {
	for {
		var c alphabet.Symbol
		haveC := false
		anyNonEmpty := false
		agree := true
		for _, state := range d.orderedStates() {
			q := d.current[state]
			if len(q) == 0 {
				continue
			}
			anyNonEmpty = true
			if !haveC {
				c, haveC = q[0], true
				continue
			}
			if q[0] != c {
				agree = false
			}
		}
		if !anyNonEmpty || !agree {
			return
		}
		d.writeSymbol(c)
		for state, q := range d.current {
			if len(q) > 0 {
				d.current[state] = q[1:]
			}
		}
	}
}

// flush commits every symbol in q, in order, then clears the hypothesis
// set down to state with an empty queue (the decoder is now unambiguously
// resolved to state).
func (d *Decoder) flush(state transducer.StateIdx, q Queue) {
	for _, sym := range q {
		d.writeSymbol(sym)
	}
	d.current = map[transducer.StateIdx]Queue{state: {}}
}

func (d *Decoder) writeSymbol(sym alphabet.Symbol) {
	d.outs.WriteSymbol(byte(sym))
}
