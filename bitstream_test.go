package stego

import (
	"bytes"
	"testing"
)

func TestBitStream_AppendAndBit(t *testing.T) {
	s := NewBitStream(16)
	pattern := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1}
	for _, b := range pattern {
		s.Append(b)
	}

	if s.Len() != len(pattern) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(pattern))
	}
	for i, want := range pattern {
		if got := s.Bit(i); got != want {
			t.Errorf("Bit(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestBitStream_BitPastEndIsZero(t *testing.T) {
	s := BitsOf([]byte{0xFF})

	if got := s.Bit(8); got != 0 {
		t.Errorf("Bit(8) = %d, want 0", got)
	}
	if got := s.Bit(-1); got != 0 {
		t.Errorf("Bit(-1) = %d, want 0", got)
	}
}

func TestBitStream_MSBFirst(t *testing.T) {
	// 0xA5 = 10100101: bit 0 is the most significant.
	s := BitsOf([]byte{0xA5})
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	for i, w := range want {
		if got := s.Bit(i); got != w {
			t.Errorf("Bit(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestBitStream_GroupRoundTrip(t *testing.T) {
	for width := 1; width <= 8; width++ {
		s := NewBitStream(64)
		values := []byte{0, 1, 2, 3}
		for _, v := range values {
			s.AppendGroup(v&(1<<width-1), width)
		}
		for i, v := range values {
			want := v & (1<<width - 1)
			if got := s.Group(i*width, width); got != want {
				t.Errorf("width %d: Group(%d) = %d, want %d", width, i*width, got, want)
			}
		}
	}
}

func TestBitStream_GroupZeroPadsPastEnd(t *testing.T) {
	s := NewBitStream(8)
	s.Append(1)
	s.Append(1)

	// Reading a 4-bit group with only 2 bits available pads with
	// zeros on the right.
	if got := s.Group(0, 4); got != 0b1100 {
		t.Errorf("Group(0, 4) = %04b, want 1100", got)
	}
}

func TestBitStream_Uint32(t *testing.T) {
	s := BitsOf([]byte{0x00, 0x00, 0x01, 0x2C})
	if got := s.Uint32(0); got != 300 {
		t.Errorf("Uint32(0) = %d, want 300", got)
	}
}

func TestBitStream_Bytes(t *testing.T) {
	src := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	s := BitsOf(src)

	if got := s.Bytes(0, 4); !bytes.Equal(got, src) {
		t.Errorf("Bytes(0, 4) = %x, want %x", got, src)
	}
	if got := s.Bytes(8, 2); !bytes.Equal(got, []byte{0xAD, 0xBE}) {
		t.Errorf("Bytes(8, 2) = %x, want adbe", got)
	}
}
