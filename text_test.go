package stego

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"one unterminated line", "hello", 1},
		{"trailing newline no phantom line", "hello\n", 1},
		{"three lines", "a\nb\nc\n", 3},
		{"crlf", "a\r\nb\r\n", 2},
		{"blank line counts", "a\n\nb\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := splitLines([]byte(tt.input))
			if len(lines) != tt.want {
				t.Errorf("splitLines(%q) = %d lines, want %d", tt.input, len(lines), tt.want)
			}

			// Content plus ending must reassemble the input exactly.
			var sb strings.Builder
			for _, l := range lines {
				sb.Write(l.content)
				sb.Write(l.ending)
			}
			if sb.String() != tt.input {
				t.Errorf("reassembled %q, want %q", sb.String(), tt.input)
			}
		})
	}
}

func TestTextCodec_Capacity(t *testing.T) {
	carrier := []byte("one\ntwo\nthree\n")
	got, err := TextCodec{}.Capacity(carrier, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Capacity() error: %v", err)
	}
	if got != 3 {
		t.Errorf("Capacity() = %d, want 3", got)
	}
}

func TestTextCodec_RoundTrip(t *testing.T) {
	// A frame around one byte needs 40 lines.
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString("line of cover text\n")
	}
	carrier := []byte(sb.String())

	frame := MarshalFrame([]byte("Z"))
	out, err := TextCodec{}.Embed(context.Background(), carrier, frame, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	bits, err := TextCodec{}.Extract(context.Background(), out, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	got, err := ParseFrame(bits, bits.Len())
	if err != nil {
		t.Fatalf("ParseFrame() error: %v", err)
	}
	if string(got) != "Z" {
		t.Errorf("recovered %q, want %q", got, "Z")
	}
}

func TestTextCodec_VisibleCharactersUntouched(t *testing.T) {
	carrier := []byte("alpha\nbeta\r\ngamma\n")
	bits := NewBitStream(3)
	bits.Append(0)
	bits.Append(1)
	bits.Append(0)

	out, err := TextCodec{}.Embed(context.Background(), carrier, bits, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	want := "alpha \nbeta\t\r\ngamma \n"
	if string(out) != want {
		t.Errorf("Embed() = %q, want %q", out, want)
	}
}

func TestTextCodec_UnconsumedLinesIdentical(t *testing.T) {
	carrier := []byte("a\nb\nc\nd\ne\n")
	bits := NewBitStream(2)
	bits.Append(1)
	bits.Append(1)

	out, err := TextCodec{}.Embed(context.Background(), carrier, bits, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	want := "a\t\nb\t\nc\nd\ne\n"
	if string(out) != want {
		t.Errorf("Embed() = %q, want %q", out, want)
	}
}

func TestTextCodec_ExtractStopsAtUnmarkedLine(t *testing.T) {
	carrier := []byte("x \ny\t\nplain\nalso \n")
	bits, err := TextCodec{}.Extract(context.Background(), carrier, Params{}.withDefaults())
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if bits.Len() != 2 {
		t.Fatalf("Extract() = %d bits, want 2", bits.Len())
	}
	if bits.Bit(0) != 0 || bits.Bit(1) != 1 {
		t.Errorf("Extract() bits = %d%d, want 01", bits.Bit(0), bits.Bit(1))
	}
}

func TestTextCodec_EmptyCarrier(t *testing.T) {
	p := NewProcessor(WithCipher(identityCipher{}))
	_, err := p.Embed(context.Background(), nil, FormatText, []byte("m"), "pw", Params{})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Embed() error = %v, want ErrCapacityExceeded", err)
	}
}

func TestTextCodec_RejectsBinary(t *testing.T) {
	carrier := []byte{0xFF, 0xFE, 0x00, 0x41}
	_, err := TextCodec{}.Capacity(carrier, Params{}.withDefaults())
	if !errors.Is(err, ErrUnsupportedCarrier) {
		t.Errorf("Capacity() error = %v, want ErrUnsupportedCarrier", err)
	}
}
