// Package config loads the plain-struct fixture form of a
// transducer.Machine, inputmodel.Model and mutator.Params from YAML or
// JSON. This is fixture loading for tests and worked examples, not a
// full transducer-description parser: there is no grammar, no FASTA, no
// CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"encoding/json"

	"github.com/mingnet/dnastore/alphabet"
	"github.com/mingnet/dnastore/inputmodel"
	"github.com/mingnet/dnastore/mutator"
	"github.com/mingnet/dnastore/transducer"
)

// MachineIO is the on-disk shape of a transducer.Machine fixture.
type MachineIO struct {
	Start  string    `json:"start" yaml:"start"`
	States []StateIO `json:"states" yaml:"states"`
}

// StateIO is one state of a MachineIO.
type StateIO struct {
	Name string         `json:"name" yaml:"name"`
	End  bool           `json:"end" yaml:"end"`
	Out  []TransitionIO `json:"out" yaml:"out"`
}

// TransitionIO is one outgoing transition of a StateIO. In is one of "0",
// "1", "null" (or empty), "sof", "eof", or "ctrlN" for the N'th indexed
// control token. Out is a single-character string, or empty for a null
// transition.
type TransitionIO struct {
	To  string `json:"to" yaml:"to"`
	In  string `json:"in" yaml:"in"`
	Out string `json:"out" yaml:"out"`
}

// BuildMachine turns a fixture into a transducer.Machine, running the same
// well-formedness checks transducer.Builder.Finalize always runs.
func (mio *MachineIO) BuildMachine() (*transducer.Machine, error) {
	b := transducer.NewBuilder()
	idx := make(map[string]transducer.StateIdx, len(mio.States))
	for _, s := range mio.States {
		i, err := b.AddState(s.Name, s.End)
		if err != nil {
			return nil, err
		}
		idx[s.Name] = i
	}

	start, ok := idx[mio.Start]
	if !ok {
		return nil, fmt.Errorf("config: start state %q not declared", mio.Start)
	}
	if err := b.SetStart(start); err != nil {
		return nil, err
	}

	for _, s := range mio.States {
		from := idx[s.Name]
		for _, t := range s.Out {
			to, ok := idx[t.To]
			if !ok {
				return nil, fmt.Errorf("config: transition from %q to undeclared state %q", s.Name, t.To)
			}
			in, err := parseInSymbol(t.In)
			if err != nil {
				return nil, err
			}
			out := alphabet.NoBase
			if t.Out != "" {
				out = t.Out[0]
			}
			if err := b.AddTransition(from, to, in, out); err != nil {
				return nil, err
			}
		}
	}
	return b.Finalize()
}

func parseInSymbol(s string) (alphabet.Symbol, error) {
	switch s {
	case "", "null":
		return alphabet.Null, nil
	case "0":
		return alphabet.Bit0, nil
	case "1":
		return alphabet.Bit1, nil
	case "sof":
		return alphabet.SOF, nil
	case "eof":
		return alphabet.EOF, nil
	}
	if strings.HasPrefix(s, "ctrl") {
		n, err := strconv.Atoi(strings.TrimPrefix(s, "ctrl"))
		if err != nil {
			return 0, fmt.Errorf("config: bad control token %q: %w", s, err)
		}
		return alphabet.Control(n), nil
	}
	return 0, fmt.Errorf("config: unrecognized input symbol %q", s)
}

// ExportMachine renders m back into fixture form, the inverse of
// BuildMachine, so round-trip tests and worked-example dumps don't need a
// second hand-maintained representation.
func ExportMachine(m *transducer.Machine) *MachineIO {
	mio := &MachineIO{States: make([]StateIO, m.NumStates())}
	mio.Start = m.State(m.Start()).Name
	for i, s := range m.States() {
		sio := StateIO{Name: s.Name, End: s.IsEnd, Out: make([]TransitionIO, len(s.Out))}
		for j, t := range s.Out {
			sio.Out[j] = TransitionIO{
				To:  m.State(t.Dest).Name,
				In:  exportInSymbol(t.In),
				Out: exportOutByte(t.Out),
			}
		}
		mio.States[i] = sio
	}
	return mio
}

func exportInSymbol(s alphabet.Symbol) string {
	switch s {
	case alphabet.Null:
		return "null"
	case alphabet.Bit0:
		return "0"
	case alphabet.Bit1:
		return "1"
	case alphabet.SOF:
		return "sof"
	case alphabet.EOF:
		return "eof"
	}
	if alphabet.IsControl(s) {
		return "ctrl" + strconv.Itoa(alphabet.ControlIndex(s))
	}
	return "null"
}

func exportOutByte(b byte) string {
	if b == alphabet.NoBase {
		return ""
	}
	return string(b)
}

// ReadMachineYAML loads a MachineIO fixture from a YAML file.
func ReadMachineYAML(fn string) (*transducer.Machine, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio MachineIO
	if err := yaml.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildMachine()
}

// WriteMachineYAML writes m to fn as a MachineIO fixture.
func WriteMachineYAML(m *transducer.Machine, fn string) error {
	b, err := yaml.Marshal(ExportMachine(m))
	if err != nil {
		return err
	}
	return os.WriteFile(fn, b, 0644)
}

// ReadMachineJSON loads a MachineIO fixture from a JSON file.
func ReadMachineJSON(fn string) (*transducer.Machine, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio MachineIO
	if err := json.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildMachine()
}

// WriteMachineJSON writes m to fn as a MachineIO fixture.
func WriteMachineJSON(m *transducer.Machine, fn string) error {
	b, err := json.MarshalIndent(ExportMachine(m), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fn, b, 0644)
}

// InputModelIO is the on-disk shape of an inputmodel.Model fixture, the
// parameters to inputmodel.NewControlSplitInputModel.
type InputModelIO struct {
	PlainAlphabet           []string `json:"plain_alphabet" yaml:"plain_alphabet"`
	NumControls             int      `json:"num_controls" yaml:"num_controls"`
	PCtrl                   float64  `json:"p_ctrl" yaml:"p_ctrl"`
	PositionalEndpointsOnly bool     `json:"positional_endpoints_only" yaml:"positional_endpoints_only"`
}

// BuildInputModel turns a fixture into an inputmodel.Model.
func (io *InputModelIO) BuildInputModel() (*inputmodel.Model, error) {
	syms, err := toSymbols(io.PlainAlphabet)
	if err != nil {
		return nil, err
	}
	m, err := inputmodel.NewControlSplitInputModel(syms, io.NumControls, io.PCtrl)
	if err != nil {
		return nil, err
	}
	if io.PositionalEndpointsOnly {
		m = m.WithPositionalEndpointsOnly()
	}
	return m, nil
}

func toSymbols(ss []string) ([]alphabet.Symbol, error) {
	syms := make([]alphabet.Symbol, len(ss))
	for i, s := range ss {
		if len(s) != 1 {
			return nil, fmt.Errorf("config: alphabet entry %q is not a single byte", s)
		}
		syms[i] = alphabet.Symbol(s[0])
	}
	return syms, nil
}

// ReadInputModelYAML loads an InputModelIO fixture from a YAML file.
func ReadInputModelYAML(fn string) (*inputmodel.Model, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio InputModelIO
	if err := yaml.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildInputModel()
}

// ReadInputModelJSON loads an InputModelIO fixture from a JSON file.
func ReadInputModelJSON(fn string) (*inputmodel.Model, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio InputModelIO
	if err := json.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildInputModel()
}

// MutatorIO is the on-disk shape of a mutator.Params fixture, the
// parameters to mutator.Uniform.
type MutatorIO struct {
	BaseAlphabet []string  `json:"base_alphabet" yaml:"base_alphabet"`
	PSub         float64   `json:"p_sub" yaml:"p_sub"`
	PDel         float64   `json:"p_del" yaml:"p_del"`
	PDup         []float64 `json:"p_dup" yaml:"p_dup"`
	PEnd         float64   `json:"p_end" yaml:"p_end"`
}

// BuildMutator turns a fixture into mutator.Params.
func (io *MutatorIO) BuildMutator() (*mutator.Params, error) {
	alpha := make([]byte, len(io.BaseAlphabet))
	for i, s := range io.BaseAlphabet {
		if len(s) != 1 {
			return nil, fmt.Errorf("config: base alphabet entry %q is not a single byte", s)
		}
		alpha[i] = s[0]
	}
	return mutator.Uniform(alpha, io.PSub, io.PDel, io.PDup, io.PEnd)
}

// ReadMutatorYAML loads a MutatorIO fixture from a YAML file.
func ReadMutatorYAML(fn string) (*mutator.Params, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio MutatorIO
	if err := yaml.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildMutator()
}

// ReadMutatorJSON loads a MutatorIO fixture from a JSON file.
func ReadMutatorJSON(fn string) (*mutator.Params, error) {
	dat, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var mio MutatorIO
	if err := json.Unmarshal(dat, &mio); err != nil {
		return nil, err
	}
	return mio.BuildMutator()
}
