package alphabet

import "testing"

func TestControlRoundTrip(t *testing.T) {
	for i := 0; i < NumControls; i++ {
		c := Control(i)
		if !IsControl(c) {
			t.Errorf("Control(%d) = %v, want IsControl true", i, c)
		}
		if got := ControlIndex(c); got != i {
			t.Errorf("ControlIndex(Control(%d)) = %d, want %d", i, got, i)
		}
	}
	if IsControl(Bit0) || IsControl(Null) || IsControl(SOF) {
		t.Error("Bit0, Null and SOF must not be classified as control tokens")
	}
}

func TestIsBit(t *testing.T) {
	if !IsBit(Bit0) || !IsBit(Bit1) {
		t.Error("Bit0 and Bit1 should be classified as bits")
	}
	if IsBit(Null) || IsBit(SOF) || IsBit(Control(0)) {
		t.Error("Null, SOF and control tokens must not be classified as bits")
	}
}

func TestIsUsable(t *testing.T) {
	usable := []byte{byte(Null), byte(Bit0), byte(Bit1), byte(SOF), byte(EOF), byte(Control(0)), byte(Control(NumControls - 1))}
	for _, b := range usable {
		if !IsUsable(b) {
			t.Errorf("IsUsable(%#x) = false, want true", b)
		}
	}
	unusable := []byte{'x', 0xff, byte(ControlBase + NumControls)}
	for _, b := range unusable {
		if IsUsable(b) {
			t.Errorf("IsUsable(%#x) = true, want false", b)
		}
	}
}

func TestUppercase(t *testing.T) {
	cases := map[byte]byte{
		'a': 'A',
		'z': 'Z',
		'A': 'A',
		'0': '0',
		'.': '.',
	}
	for in, want := range cases {
		if got := Uppercase(in); got != want {
			t.Errorf("Uppercase(%q) = %q, want %q", in, got, want)
		}
	}
}
