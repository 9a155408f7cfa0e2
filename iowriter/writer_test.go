package iowriter

import (
	"bytes"
	"testing"
)

func TestTextWriterVerbatim(t *testing.T) {
	w := NewTextWriter()
	for _, b := range []byte("0110") {
		w.WriteSymbol(b)
	}
	w.Close()
	if got := w.Bytes(); !bytes.Equal(got, []byte("0110")) {
		t.Errorf("Bytes() = %q, want %q", got, "0110")
	}
}

// TestBinaryWriterScenario6 is a worked binary-packing scenario.
func TestBinaryWriterScenario6(t *testing.T) {
	bits := "10110001"

	lsb := NewBinaryWriter(false)
	for _, b := range []byte(bits) {
		lsb.WriteSymbol(b)
	}
	lsb.Close()
	if got := lsb.Bytes(); len(got) != 1 || got[0] != 0x8D {
		t.Errorf("msb0=false: got %#v, want [0x8D]", got)
	}

	msb := NewBinaryWriter(true)
	for _, b := range []byte(bits) {
		msb.WriteSymbol(b)
	}
	msb.Close()
	if got := msb.Bytes(); len(got) != 1 || got[0] != 0xB1 {
		t.Errorf("msb0=true: got %#v, want [0xB1]", got)
	}
}

func TestBinaryWriterIgnoresUnknownBytes(t *testing.T) {
	w := NewBinaryWriter(false)
	w.WriteSymbol(0x01) // SOF, not a bit
	for _, b := range []byte("00000001") {
		w.WriteSymbol(b)
	}
	w.Close()
	if got := w.Bytes(); len(got) != 1 || got[0] != 0x80 {
		t.Errorf("got %#v, want [0x80]", got)
	}
}

func TestBinaryWriterPartialByteDiscarded(t *testing.T) {
	w := NewBinaryWriter(false)
	for _, b := range []byte("101") {
		w.WriteSymbol(b)
	}
	w.Close()
	if got := w.Bytes(); len(got) != 0 {
		t.Errorf("got %#v, want no complete bytes", got)
	}
}

func TestBinaryWriterCloseIdempotent(t *testing.T) {
	w := NewBinaryWriter(false)
	w.WriteSymbol('1')
	w.Close()
	w.Close() // must not panic or double-warn destructively
}
