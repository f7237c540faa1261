package stego

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// identityCipher passes plaintext through unchanged so tests can
// control ciphertext length exactly.
type identityCipher struct{}

func (identityCipher) Encrypt(plaintext []byte, _ string) ([]byte, error) {
	out := make([]byte, len(plaintext))
	copy(out, plaintext)
	return out, nil
}

func (identityCipher) Decrypt(ciphertext []byte, _ string) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	copy(out, ciphertext)
	return out, nil
}

// failingCipher always errors, for plumbing tests.
type failingCipher struct{ err error }

func (c failingCipher) Encrypt([]byte, string) ([]byte, error) { return nil, c.err }
func (c failingCipher) Decrypt([]byte, string) ([]byte, error) { return nil, c.err }

func TestProcessor_EndToEnd(t *testing.T) {
	lines := strings.Repeat("a line of perfectly ordinary cover text\n", 600)
	aviSamples := make([]int16, 24000)
	for i := range aviSamples {
		aviSamples[i] = int16(i % 97)
	}

	tests := []struct {
		name    string
		format  Format
		carrier []byte
	}{
		{"audio", FormatAudio, makeWAV(make([]int16, 2000))},
		{"image", FormatImage, makePNG(t, 32, 32)},
		{"video", FormatVideo, makeAVI(pcmMono16(), false, aviSamples)},
		{"text", FormatText, []byte(lines)},
	}

	p := NewProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext := []byte("attack at dawn")
			out, err := p.Embed(context.Background(), tt.carrier, tt.format, plaintext, "hunter2", Params{PairStride: 1})
			if err != nil {
				t.Fatalf("Embed() error: %v", err)
			}

			got, err := p.Extract(context.Background(), out, tt.format, "hunter2", Params{PairStride: 1})
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if string(got) != string(plaintext) {
				t.Errorf("recovered %q, want %q", got, plaintext)
			}
		})
	}
}

func TestProcessor_WrongPassword(t *testing.T) {
	// A frame extracted intact but decrypted under the wrong password
	// is an authentication failure, not a framing failure.
	carrier := makeWAV(make([]int16, 2000))
	p := NewProcessor()

	out, err := p.Embed(context.Background(), carrier, FormatAudio, []byte("secret"), "correct", Params{})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}

	_, err = p.Extract(context.Background(), out, FormatAudio, "wrong", Params{})
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("Extract() error = %v, want ErrAuthentication", err)
	}
	if errors.Is(err, ErrIncompleteFrame) {
		t.Error("wrong password must not be reported as an incomplete frame")
	}
}

func TestProcessor_ExtractFromCleanCarrier(t *testing.T) {
	// An untouched carrier yields garbage framing, never a payload.
	// Samples with the low bit set decode as an absurd length prefix.
	samples := make([]int16, 50)
	for i := range samples {
		samples[i] = 1
	}
	p := NewProcessor(WithCipher(identityCipher{}))

	_, err := p.Extract(context.Background(), makeWAV(samples), FormatAudio, "pw", Params{})
	if !errors.Is(err, ErrFrameLengthMismatch) {
		t.Errorf("Extract() error = %v, want ErrFrameLengthMismatch", err)
	}
}

func TestProcessor_CapacityExceededBeforeMutation(t *testing.T) {
	carrier := makeWAV(make([]int16, 100))
	snapshot := make([]byte, len(carrier))
	copy(snapshot, carrier)
	p := NewProcessor(WithCipher(identityCipher{}))

	_, err := p.Embed(context.Background(), carrier, FormatAudio, make([]byte, 500), "pw", Params{})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Embed() error = %v, want ErrCapacityExceeded", err)
	}
	if string(carrier) != string(snapshot) {
		t.Error("input carrier was mutated on a failed embed")
	}
}

func TestProcessor_UnknownFormat(t *testing.T) {
	p := NewProcessor()
	_, err := p.Embed(context.Background(), nil, Format("pdf"), []byte("x"), "pw", Params{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Embed() error = %v, want ErrUnknownFormat", err)
	}
	_, err = p.Extract(context.Background(), nil, Format("pdf"), "pw", Params{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Extract() error = %v, want ErrUnknownFormat", err)
	}
	_, err = p.Capacity(nil, Format("pdf"), Params{})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Capacity() error = %v, want ErrUnknownFormat", err)
	}
}

func TestProcessor_InvalidParams(t *testing.T) {
	p := NewProcessor()
	tests := []struct {
		name   string
		params Params
	}{
		{"nlsb too high", Params{NLSB: 9}},
		{"nlsb negative", Params{NLSB: -1}},
		{"negative stride", Params{PairStride: -4}},
		{"negative tolerance", Params{MaxSampleDelta: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Embed(context.Background(), nil, FormatAudio, []byte("x"), "pw", tt.params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Embed() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestProcessor_EncryptFailurePropagates(t *testing.T) {
	boom := errors.New("kdf unavailable")
	p := NewProcessor(WithCipher(failingCipher{err: boom}))

	_, err := p.Embed(context.Background(), makeWAV(make([]int16, 100)), FormatAudio, []byte("x"), "pw", Params{})
	if !errors.Is(err, boom) {
		t.Errorf("Embed() error = %v, want wrapped %v", err, boom)
	}
}

func TestProcessor_SetCodec(t *testing.T) {
	p := NewProcessor()
	p.SetCodec(AudioCodec{}) // replacing with the same implementation is fine

	c, err := p.Codec(FormatAudio)
	if err != nil {
		t.Fatalf("Codec() error: %v", err)
	}
	if c.Format() != FormatAudio {
		t.Errorf("Codec().Format() = %q, want %q", c.Format(), FormatAudio)
	}
}

func TestProcessor_Capacity(t *testing.T) {
	p := NewProcessor()
	got, err := p.Capacity(makeWAV(make([]int16, 100)), FormatAudio, Params{NLSB: 2})
	if err != nil {
		t.Fatalf("Capacity() error: %v", err)
	}
	if got != 200 {
		t.Errorf("Capacity() = %d, want 200", got)
	}
}

func TestDefaultProcessor(t *testing.T) {
	Reset()
	defer Reset()

	carrier := makeWAV(make([]int16, 2000))
	out, err := Embed(context.Background(), carrier, FormatAudio, []byte("shared"), "pw", Params{})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	got, err := Extract(context.Background(), out, FormatAudio, "pw", Params{})
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if string(got) != "shared" {
		t.Errorf("recovered %q, want %q", got, "shared")
	}

	if n, err := Capacity(carrier, FormatAudio, Params{}); err != nil || n != 2000 {
		t.Errorf("Capacity() = %d, %v, want 2000, nil", n, err)
	}

	if Default() != Default() {
		t.Error("Default() must return the same instance")
	}
	prev := Default()
	Reset()
	if Default() == prev {
		t.Error("Reset() must discard the shared instance")
	}
}
