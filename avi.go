package stego

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// byteRange locates one audio data chunk body inside the container.
// cum is the number of audio bytes in earlier chunks, so the
// concatenated audio stream can be addressed without copying it out.
type byteRange struct {
	start  int
	length int
	cum    int
}

// aviInfo holds the structural metadata of a parsed AVI carrier.
type aviInfo struct {
	audioFormat   int
	channels      int
	bitsPerSample int
	streamID      int         // ordinal of the audio stream in hdrl
	chunks        []byteRange // audio chunk bodies in file order
	totalBytes    int         // concatenated audio byte count
}

// totalSamples returns the number of 16-bit samples in the audio
// stream.
func (a *aviInfo) totalSamples() int {
	return a.totalBytes / 2
}

// sampleOffset maps sample index i on the concatenated audio stream to
// its byte offset in the container.
func (a *aviInfo) sampleOffset(i int) int {
	byteOff := 2 * i
	n := sort.Search(len(a.chunks), func(j int) bool {
		return a.chunks[j].cum > byteOff
	}) - 1
	r := a.chunks[n]
	return r.start + (byteOff - r.cum)
}

// parseAVI walks the RIFF structure of an AVI file: the hdrl list for
// the first auds stream header and format, then the movi list for
// that stream's ##wb data chunks (recursing into rec lists).
func parseAVI(b []byte) (*aviInfo, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "AVI " {
		return nil, newCarrierError(FormatVideo, "not a RIFF/AVI file")
	}

	info := &aviInfo{streamID: -1}

	pos := 12
	for pos+8 <= len(b) {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(b) {
			return nil, newCarrierError(FormatVideo, "chunk "+id+" extends past end of file")
		}

		if id == "LIST" && size >= 4 {
			switch string(b[body : body+4]) {
			case "hdrl":
				if err := parseHdrl(b, body+4, body+size, info); err != nil {
					return nil, err
				}
			case "movi":
				if info.streamID < 0 {
					return nil, newCarrierError(FormatVideo, "no PCM audio stream")
				}
				if err := collectAudioChunks(b, body+4, body+size, info); err != nil {
					return nil, err
				}
			}
		}

		pos = body + size + size&1
	}

	if info.streamID < 0 {
		return nil, newCarrierError(FormatVideo, "no PCM audio stream")
	}
	return info, nil
}

// parseHdrl scans the header list for strl entries and records the
// first auds stream's format.
func parseHdrl(b []byte, pos, end int, info *aviInfo) error {
	stream := 0
	for pos+8 <= end {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if body+size > end {
			return newCarrierError(FormatVideo, "header chunk extends past hdrl list")
		}

		if id == "LIST" && size >= 4 && string(b[body:body+4]) == "strl" {
			if err := parseStrl(b, body+4, body+size, stream, info); err != nil {
				return err
			}
			stream++
		}

		pos = body + size + size&1
	}
	return nil
}

// parseStrl reads one stream's header and, for the first audio
// stream, its WAVEFORMAT block.
func parseStrl(b []byte, pos, end, stream int, info *aviInfo) error {
	isAudio := false
	for pos+8 <= end {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if body+size > end {
			return newCarrierError(FormatVideo, "stream chunk extends past strl list")
		}

		switch id {
		case "strh":
			isAudio = size >= 4 && string(b[body:body+4]) == "auds"
		case "strf":
			if isAudio && info.streamID < 0 {
				if size < 16 {
					return newCarrierError(FormatVideo, "audio stream format block too short")
				}
				info.audioFormat = int(binary.LittleEndian.Uint16(b[body : body+2]))
				info.channels = int(binary.LittleEndian.Uint16(b[body+2 : body+4]))
				info.bitsPerSample = int(binary.LittleEndian.Uint16(b[body+14 : body+16]))
				info.streamID = stream
			}
		}

		pos = body + size + size&1
	}
	return nil
}

// collectAudioChunks gathers the ##wb data chunk ranges for the audio
// stream, in file order. rec lists group interleaved chunks and are
// entered transparently.
func collectAudioChunks(b []byte, pos, end int, info *aviInfo) error {
	wantID := fmt.Sprintf("%02dwb", info.streamID)

	for pos+8 <= end {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if body+size > end {
			return newCarrierError(FormatVideo, "movi chunk extends past list")
		}

		switch {
		case id == "LIST" && size >= 4 && string(b[body:body+4]) == "rec ":
			if err := collectAudioChunks(b, body+4, body+size, info); err != nil {
				return err
			}
		case id == wantID:
			if size&1 != 0 {
				return newCarrierError(FormatVideo, "audio chunk not sample-aligned")
			}
			info.chunks = append(info.chunks, byteRange{start: body, length: size, cum: info.totalBytes})
			info.totalBytes += size
		}

		pos = body + size + size&1
	}
	return nil
}

// validateAVI enforces the video codec's structural constraints on the
// carrier's audio track: uncompressed PCM, 16-bit, mono.
func validateAVI(info *aviInfo) error {
	if info.audioFormat != 1 {
		return newCarrierError(FormatVideo, "audio track is not uncompressed PCM")
	}
	if info.bitsPerSample != 16 {
		return newCarrierError(FormatVideo, "audio track is not 16-bit")
	}
	if info.channels != 1 {
		return newCarrierError(FormatVideo, "audio track is not mono")
	}
	return nil
}

// VideoCodec hides payload bits in the PCM audio track of an AVI
// carrier by sample comparison: each bit is encoded in the ordering
// relation of a pair of temporally adjacent samples, PairStride
// samples apart. A set bit means the later sample is greater than or
// equal to the earlier one.
//
// When the relation already matches the bit, nothing changes. When it
// does not, the later sample is adjusted by the minimal magnitude that
// flips the relation; adjustments beyond MaxSampleDelta fail with
// ErrCapacityExceeded rather than degrade the track. Extraction only
// recomputes the relation and never mutates.
//
// One pair carries one bit, so capacity is far below the LSB codecs
// for a carrier of comparable size.
type VideoCodec struct{}

// Format returns FormatVideo.
func (VideoCodec) Format() Format { return FormatVideo }

// pairCount returns the number of complete comparison pairs.
func pairCount(samples, stride int) int {
	units := (samples + stride - 1) / stride
	return units / 2
}

// Capacity returns one bit per complete sample pair.
func (VideoCodec) Capacity(carrier []byte, params Params) (int, error) {
	info, err := parseAVI(carrier)
	if err != nil {
		return 0, err
	}
	if err := validateAVI(info); err != nil {
		return 0, err
	}
	return pairCount(info.totalSamples(), params.PairStride), nil
}

// Embed encodes bits pairwise into a copy of the carrier. Every byte
// outside adjusted samples is identical to the source.
func (VideoCodec) Embed(ctx context.Context, carrier []byte, bits *BitStream, params Params) ([]byte, error) {
	info, err := parseAVI(carrier)
	if err != nil {
		return nil, err
	}
	if err := validateAVI(info); err != nil {
		return nil, err
	}

	out := make([]byte, len(carrier))
	copy(out, carrier)

	pairs := pairCount(info.totalSamples(), params.PairStride)
	for k := 0; k < pairs && k < bits.Len(); k++ {
		if k%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		firstOff := info.sampleOffset(2 * k * params.PairStride)
		secondOff := info.sampleOffset((2*k + 1) * params.PairStride)
		first := int(int16(binary.LittleEndian.Uint16(out[firstOff:])))
		second := int(int16(binary.LittleEndian.Uint16(out[secondOff:])))

		adjusted, err := encodePair(first, second, bits.Bit(k), params.MaxSampleDelta, k)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint16(out[secondOff:], uint16(int16(adjusted)))
	}

	return out, nil
}

// encodePair returns the value the later sample must take so the pair
// (first, second) encodes bit. A set bit requires second >= first; a
// clear bit requires second < first. When the pair already satisfies
// the bit it is returned unchanged; otherwise the later sample moves
// by the minimal magnitude, bounded by maxDelta.
func encodePair(first, second int, bit byte, maxDelta, pair int) (int, error) {
	if bit == 1 {
		if second >= first {
			return second, nil
		}
		// Smallest move that establishes second >= first.
		if delta := first - second; delta > maxDelta {
			return 0, fmt.Errorf("%w (%s): pair %d needs adjustment %d, tolerance is %d",
				ErrCapacityExceeded, FormatVideo, pair, delta, maxDelta)
		}
		return first, nil
	}

	if second < first {
		return second, nil
	}
	// Smallest move that establishes second < first. When the samples
	// are equal this is the tie-break: one step in the required
	// direction.
	if first == math.MinInt16 {
		return 0, fmt.Errorf("%w (%s): pair %d cannot order below sample floor",
			ErrCapacityExceeded, FormatVideo, pair)
	}
	target := first - 1
	if delta := second - target; delta > maxDelta {
		return 0, fmt.Errorf("%w (%s): pair %d needs adjustment %d, tolerance is %d",
			ErrCapacityExceeded, FormatVideo, pair, delta, maxDelta)
	}
	return target, nil
}

// Extract recomputes the pair ordering relation in enumeration order.
// The carrier is never mutated.
func (VideoCodec) Extract(ctx context.Context, carrier []byte, params Params) (*BitStream, error) {
	info, err := parseAVI(carrier)
	if err != nil {
		return nil, err
	}
	if err := validateAVI(info); err != nil {
		return nil, err
	}

	pairs := pairCount(info.totalSamples(), params.PairStride)
	bits := NewBitStream(pairs)
	for k := 0; k < pairs; k++ {
		if k%cancelCheckInterval == 0 && ctx.Err() != nil {
			return bits, nil
		}

		firstOff := info.sampleOffset(2 * k * params.PairStride)
		secondOff := info.sampleOffset((2*k + 1) * params.PairStride)
		first := int16(binary.LittleEndian.Uint16(carrier[firstOff:]))
		second := int16(binary.LittleEndian.Uint16(carrier[secondOff:]))

		if second >= first {
			bits.Append(1)
		} else {
			bits.Append(0)
		}
	}
	return bits, nil
}
