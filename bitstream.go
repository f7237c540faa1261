package stego

// BitStream is an ordered, finite sequence of bits with a fixed bit
// order: most-significant bit first within each byte, bytes in their
// original order. It is produced by the frame serializer and by codec
// extraction, and consumed left to right during embedding.
//
// The zero value is an empty stream ready for appending.
type BitStream struct {
	data []byte
	n    int // number of valid bits
}

// NewBitStream returns an empty stream with room for capBits bits.
func NewBitStream(capBits int) *BitStream {
	return &BitStream{data: make([]byte, 0, (capBits+7)/8)}
}

// BitsOf returns a stream over b without copying. The stream holds
// exactly 8*len(b) bits.
func BitsOf(b []byte) *BitStream {
	return &BitStream{data: b, n: 8 * len(b)}
}

// Len returns the number of bits in the stream.
func (s *BitStream) Len() int {
	return s.n
}

// Bit returns bit i as 0 or 1. Bits past the end read as 0.
func (s *BitStream) Bit(i int) byte {
	if i < 0 || i >= s.n {
		return 0
	}
	return (s.data[i>>3] >> (7 - uint(i&7))) & 1
}

// Append adds a single bit to the end of the stream.
func (s *BitStream) Append(bit byte) {
	if s.n&7 == 0 {
		s.data = append(s.data, 0)
	}
	if bit != 0 {
		s.data[s.n>>3] |= 1 << (7 - uint(s.n&7))
	}
	s.n++
}

// AppendGroup appends the low width bits of v, most significant first.
// This is the inverse of Group and is how LSB extraction feeds per-unit
// bit groups back into a stream.
func (s *BitStream) AppendGroup(v byte, width int) {
	for i := width - 1; i >= 0; i-- {
		s.Append((v >> uint(i)) & 1)
	}
}

// Group reads width bits starting at off, packed most-significant
// first into the low width bits of the result. Bits past the end of
// the stream read as zero, which implements the zero-padding of a
// final partial group.
func (s *BitStream) Group(off, width int) byte {
	var v byte
	for i := 0; i < width; i++ {
		v = v<<1 | s.Bit(off+i)
	}
	return v
}

// Uint32 reads 32 bits starting at off as a big-endian unsigned
// integer.
func (s *BitStream) Uint32(off int) uint32 {
	var v uint32
	for i := 0; i < 32; i++ {
		v = v<<1 | uint32(s.Bit(off+i))
	}
	return v
}

// Bytes reassembles count bytes starting at bit offset off.
func (s *BitStream) Bytes(off, count int) []byte {
	out := make([]byte, count)
	for i := range out {
		out[i] = s.Group(off+8*i, 8)
	}
	return out
}
