package stego

import (
	"context"
	"encoding/binary"
)

// cancelCheckInterval is how many embedding units are processed
// between context checks. Unit work is cheap; checking every unit
// would dominate the loop.
const cancelCheckInterval = 4096

// wavInfo holds the structural metadata of a parsed WAVE carrier.
type wavInfo struct {
	audioFormat   int
	channels      int
	bitsPerSample int
	dataStart     int // byte offset of the PCM data chunk body
	dataLen       int // byte length of the PCM data chunk body
}

// parseWAV walks the RIFF chunks of a canonical WAVE file and locates
// the "fmt " and "data" chunks. Unknown chunks are skipped, so files
// with LIST or fact chunks between the header and the sample data
// still parse.
func parseWAV(b []byte) (wavInfo, error) {
	var info wavInfo

	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return info, newCarrierError(FormatAudio, "not a RIFF/WAVE file")
	}

	sawFmt, sawData := false, false
	pos := 12
	for pos+8 <= len(b) {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(b) {
			return info, newCarrierError(FormatAudio, "chunk "+id+" extends past end of file")
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return info, newCarrierError(FormatAudio, "fmt chunk too short")
			}
			info.audioFormat = int(binary.LittleEndian.Uint16(b[body : body+2]))
			info.channels = int(binary.LittleEndian.Uint16(b[body+2 : body+4]))
			info.bitsPerSample = int(binary.LittleEndian.Uint16(b[body+14 : body+16]))
			sawFmt = true
		case "data":
			info.dataStart = body
			info.dataLen = size
			sawData = true
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		pos = body + size + size&1
	}

	if !sawFmt || !sawData {
		return info, newCarrierError(FormatAudio, "missing fmt or data chunk")
	}
	return info, nil
}

// validateWAV enforces the audio codec's structural constraints:
// uncompressed PCM, 16-bit, mono. Anything else would either break
// the low-byte unit model or audibly distort on modification.
func validateWAV(info wavInfo) error {
	if info.audioFormat != 1 {
		return newCarrierError(FormatAudio, "audio is not uncompressed PCM")
	}
	if info.bitsPerSample != 16 {
		return newCarrierError(FormatAudio, "audio is not 16-bit")
	}
	if info.channels != 1 {
		return newCarrierError(FormatAudio, "audio is not mono")
	}
	return nil
}

// AudioCodec hides payload bits in the low bits of 16-bit mono PCM
// WAV samples. The embedding unit is the low byte of each
// little-endian sample, enumerated in file order; the RIFF header and
// every non-data chunk are excluded and stay byte-identical.
type AudioCodec struct{}

// Format returns FormatAudio.
func (AudioCodec) Format() Format { return FormatAudio }

// Capacity returns samples * NLSB bits.
func (AudioCodec) Capacity(carrier []byte, params Params) (int, error) {
	info, err := parseWAV(carrier)
	if err != nil {
		return 0, err
	}
	if err := validateWAV(info); err != nil {
		return 0, err
	}
	return (info.dataLen / 2) * params.NLSB, nil
}

// Embed writes bits into the low NLSB bits of each sample's low byte,
// MSB-first within the slot. Samples beyond the last consumed bit are
// left byte-identical to the source carrier.
func (AudioCodec) Embed(ctx context.Context, carrier []byte, bits *BitStream, params Params) ([]byte, error) {
	info, err := parseWAV(carrier)
	if err != nil {
		return nil, err
	}
	if err := validateWAV(info); err != nil {
		return nil, err
	}

	out := make([]byte, len(carrier))
	copy(out, carrier)

	width := params.NLSB
	mask := byte(1<<width - 1)
	samples := info.dataLen / 2

	off := 0
	for i := 0; i < samples && off < bits.Len(); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		idx := info.dataStart + 2*i // low byte of the little-endian sample
		out[idx] = out[idx]&^mask | bits.Group(off, width)
		off += width
	}

	return out, nil
}

// Extract reads the low NLSB bits of every sample's low byte in the
// same order Embed wrote them. A canceled context stops at a unit
// boundary and returns the bits collected so far; the frame parser
// then reports ErrIncompleteFrame.
func (AudioCodec) Extract(ctx context.Context, carrier []byte, params Params) (*BitStream, error) {
	info, err := parseWAV(carrier)
	if err != nil {
		return nil, err
	}
	if err := validateWAV(info); err != nil {
		return nil, err
	}

	width := params.NLSB
	mask := byte(1<<width - 1)
	samples := info.dataLen / 2

	bits := NewBitStream(samples * width)
	for i := 0; i < samples; i++ {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return bits, nil
		}
		bits.AppendGroup(carrier[info.dataStart+2*i]&mask, width)
	}
	return bits, nil
}
