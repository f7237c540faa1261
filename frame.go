package stego

import "encoding/binary"

// frameHeaderBits is the size of the length prefix: a 32-bit
// big-endian unsigned integer counting ciphertext bytes.
const frameHeaderBits = 32

// MarshalFrame serializes ciphertext into the self-delimiting payload
// frame: the 32-bit big-endian byte length followed by the ciphertext,
// MSB-first. A frame is never partially written; the returned stream
// is complete or the call did not happen.
func MarshalFrame(ciphertext []byte) *BitStream {
	buf := make([]byte, 4, 4+len(ciphertext))
	binary.BigEndian.PutUint32(buf, uint32(len(ciphertext)))
	buf = append(buf, ciphertext...)
	return BitsOf(buf)
}

// FrameBits returns the bit length of the frame wrapping a ciphertext
// of n bytes.
func FrameBits(n int) int {
	return frameHeaderBits + 8*n
}

// MaxPayloadBytes returns the largest ciphertext byte count whose frame
// fits in capacityBits. Zero when not even the length prefix fits.
func MaxPayloadBytes(capacityBits int) int {
	if capacityBits < frameHeaderBits {
		return 0
	}
	return (capacityBits - frameHeaderBits) / 8
}

// ParseFrame reads a frame back out of bits and returns the
// ciphertext. capacityBits is the total bit capacity of the carrier
// the stream was extracted from; it lets the parser distinguish a
// declared length that could never have been embedded
// (ErrFrameLengthMismatch) from a stream that was cut short, e.g. by a
// canceled extraction (ErrIncompleteFrame).
//
// The parser never looks past bit 32+8L: carriers generally provide
// more capacity than the frame uses, and leftover bits are not part of
// the payload.
func ParseFrame(bits *BitStream, capacityBits int) ([]byte, error) {
	if bits.Len() < frameHeaderBits {
		return nil, newFrameError(ErrIncompleteFrame, frameHeaderBits, bits.Len())
	}

	length := int(bits.Uint32(0))
	need := FrameBits(length)

	if need > capacityBits {
		return nil, newFrameError(ErrFrameLengthMismatch, need, capacityBits)
	}
	if need > bits.Len() {
		return nil, newFrameError(ErrIncompleteFrame, need, bits.Len())
	}

	return bits.Bytes(frameHeaderBits, length), nil
}
