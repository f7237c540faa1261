package stego

import (
	"bytes"
	"context"
	"unicode/utf8"
)

// textLine is one embedding unit of a text carrier: the line content
// and its terminator ("\n", "\r\n", or empty for a final unterminated
// line).
type textLine struct {
	content []byte
	ending  []byte
}

// splitLines breaks a text carrier into lines, preserving the exact
// line terminators so unconsumed lines round-trip byte-identically.
// A trailing newline does not create an empty final line.
func splitLines(b []byte) []textLine {
	var lines []textLine
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		content := b[start:i]
		ending := b[i : i+1]
		if len(content) > 0 && content[len(content)-1] == '\r' {
			content = content[:len(content)-1]
			ending = b[i-1 : i+1]
		}
		lines = append(lines, textLine{content: content, ending: ending})
		start = i + 1
	}
	if start < len(b) {
		lines = append(lines, textLine{content: b[start:]})
	}
	return lines
}

// TextCodec hides payload bits in trailing whitespace: one bit per
// line, a single appended space for 0 and a tab for 1, inserted just
// before the line terminator. Visible characters are never altered,
// and lines beyond the last consumed bit are byte-identical.
//
// This is the lowest-capacity codec of the four and the most fragile:
// any tool that normalizes trailing whitespace destroys the payload.
// That fragility is accepted, not corrected.
type TextCodec struct{}

// Format returns FormatText.
func (TextCodec) Format() Format { return FormatText }

// parseText validates the carrier as UTF-8 text and enumerates its
// lines.
func parseText(carrier []byte) ([]textLine, error) {
	if !utf8.Valid(carrier) {
		return nil, newCarrierError(FormatText, "not valid UTF-8 text")
	}
	return splitLines(carrier), nil
}

// Capacity returns one bit per line.
func (TextCodec) Capacity(carrier []byte, params Params) (int, error) {
	lines, err := parseText(carrier)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Embed appends one whitespace marker to each of the first Len lines.
func (TextCodec) Embed(ctx context.Context, carrier []byte, bits *BitStream, params Params) ([]byte, error) {
	lines, err := parseText(carrier)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(carrier) + bits.Len())
	for i, line := range lines {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out.Write(line.content)
		if i < bits.Len() {
			if bits.Bit(i) == 0 {
				out.WriteByte(' ')
			} else {
				out.WriteByte('\t')
			}
		}
		out.Write(line.ending)
	}
	return out.Bytes(), nil
}

// Extract reads the character before each line terminator in file
// order and stops at the first line that carries no marker: embedding
// is prefix-contiguous, so the first unmarked line is the end of the
// written region.
func (TextCodec) Extract(ctx context.Context, carrier []byte, params Params) (*BitStream, error) {
	lines, err := parseText(carrier)
	if err != nil {
		return nil, err
	}

	bits := NewBitStream(len(lines))
	for i, line := range lines {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return bits, nil
		}
		if len(line.content) == 0 {
			break
		}
		switch line.content[len(line.content)-1] {
		case ' ':
			bits.Append(0)
		case '\t':
			bits.Append(1)
		default:
			return bits, nil
		}
	}
	return bits, nil
}
