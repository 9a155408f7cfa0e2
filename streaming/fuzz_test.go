package streaming

import (
	"testing"

	"github.com/mingnet/dnastore/iowriter"
)

// FuzzDecodeString feeds arbitrary byte sequences through the streaming
// decoder on the null-chain fixture (which mixes null transitions, control
// tokens and a real emitting transition) and checks that DecodeSymbol never
// panics and only ever returns nil or one of the two documented error
// types, regardless of input.
func FuzzDecodeString(f *testing.F) {
	f.Add([]byte("0"))
	f.Add([]byte(""))
	f.Add([]byte("01"))
	f.Add([]byte("1111"))
	f.Add([]byte{0x10, 0x11, '0'})
	f.Add([]byte{0xff, 0x00, '0', '1'})

	f.Fuzz(func(t *testing.T, input []byte) {
		m, _, _ := nullChainMachine(t)
		w := iowriter.NewTextWriter()
		dec, err := New(m, w)
		if err != nil {
			t.Fatal(err)
		}
		for _, b := range input {
			err := dec.DecodeSymbol(b)
			if err == nil {
				continue
			}
			switch err.(type) {
			case *QueueConflictError, *CannotDecodeError:
			default:
				t.Fatalf("DecodeSymbol(%#x) returned unexpected error type %T: %v", b, err, err)
			}
			// A fatal error leaves the decoder's hypothesis set in a
			// state the spec never asks callers to recover from; stop
			// feeding this decoder once one occurs.
			return
		}
		if err := dec.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})
}
