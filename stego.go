// Package stego hides an encrypted payload inside a carrier file and
// recovers it exactly, while keeping the carrier structurally valid and
// perceptually unchanged.
//
// The package offers one Codec per container format behind a single
// capability interface, a Processor that orchestrates encryption,
// payload framing and codec dispatch, and a Cipher interface for the
// password-based encryption collaborator.
//
// # Formats
//
// Four container formats are supported, selected by format tag:
//
//   - image: PNG or BMP; payload bits replace the low bits of the
//     R, G, B channel of each pixel in row-major order.
//   - audio: 16-bit mono PCM WAV; payload bits replace the low bits of
//     each sample's low byte.
//   - video: AVI with an uncompressed 16-bit mono PCM audio stream;
//     each payload bit is encoded in the ordering relation of a pair of
//     temporally adjacent samples.
//   - text: UTF-8 text; each payload bit is encoded as a trailing
//     space (0) or tab (1) on a line.
//
// # Payload frame
//
// The ciphertext is wrapped in a self-delimiting frame before
// embedding: a 32-bit big-endian byte length followed by the ciphertext
// itself, serialized MSB-first. Extraction reads the carrier's full bit
// capacity and lets the frame determine its own logical end, so unused
// carrier capacity never corrupts the payload.
//
// # Basic Usage
//
//	proc := stego.NewProcessor()
//
//	out, err := proc.Embed(ctx, carrier, stego.FormatAudio,
//	    []byte("meet at dawn"), "hunter2", stego.Params{NLSB: 2})
//
//	msg, err := proc.Extract(ctx, out, stego.FormatAudio,
//	    "hunter2", stego.Params{NLSB: 2})
//
// Embed is all-or-nothing: capacity and structural checks run before
// any byte of the carrier is touched, and the input carrier is never
// mutated in place.
//
// # Error taxonomy
//
// Sentinel errors describe every failure class; check them with
// errors.Is:
//
//   - ErrUnsupportedCarrier: structural constraints unmet
//   - ErrCapacityExceeded: payload does not fit, or a per-unit
//     adjustment tolerance was exceeded
//   - ErrIncompleteFrame: fewer extracted bits than the frame declares
//   - ErrFrameLengthMismatch: declared length cannot fit the carrier
//   - ErrAuthentication: wrong password or corrupted ciphertext
//
// Authentication failures are surfaced distinctly from framing
// failures, so a caller can tell "no hidden payload present" apart from
// "payload present, wrong password".
package stego

import "context"

// Format identifies a carrier container format.
type Format string

// Supported carrier formats.
const (
	FormatImage Format = "image"
	FormatAudio Format = "audio"
	FormatVideo Format = "video"
	FormatText  Format = "text"
)

// Default embedding parameters.
const (
	// DefaultNLSB is the number of low bits replaced per unit by the
	// LSB codecs when Params.NLSB is zero.
	DefaultNLSB = 1

	// DefaultPairStride is the sample distance between comparison
	// units in the video codec when Params.PairStride is zero.
	// 48 samples is 1ms at 48kHz.
	DefaultPairStride = 48

	// DefaultMaxSampleDelta is the largest per-sample adjustment the
	// video codec will make when Params.MaxSampleDelta is zero.
	// 512 out of a 16-bit range stays well below audibility.
	DefaultMaxSampleDelta = 512
)

// Params holds caller-selected embedding parameters. The zero value
// selects the package defaults. The same Params must be supplied to
// Embed and Extract for a given carrier.
type Params struct {
	// NLSB is the number of low bits replaced per embedding unit by
	// the image and audio codecs (1-8).
	NLSB int

	// PairStride is the sample distance between the units the video
	// codec compares. Larger strides spread adjustments further apart.
	PairStride int

	// MaxSampleDelta bounds the adjustment the video codec may apply
	// to a single sample. Exceeding it fails with ErrCapacityExceeded
	// instead of silently degrading quality.
	MaxSampleDelta int
}

// withDefaults fills zero fields with package defaults.
func (p Params) withDefaults() Params {
	if p.NLSB == 0 {
		p.NLSB = DefaultNLSB
	}
	if p.PairStride == 0 {
		p.PairStride = DefaultPairStride
	}
	if p.MaxSampleDelta == 0 {
		p.MaxSampleDelta = DefaultMaxSampleDelta
	}
	return p
}

// validate rejects parameter combinations no codec accepts.
func (p Params) validate() error {
	if p.NLSB < 1 || p.NLSB > 8 {
		return newParamsError("NLSB", p.NLSB, "must be between 1 and 8")
	}
	if p.PairStride < 1 {
		return newParamsError("PairStride", p.PairStride, "must be positive")
	}
	if p.MaxSampleDelta < 1 {
		return newParamsError("MaxSampleDelta", p.MaxSampleDelta, "must be positive")
	}
	return nil
}

// Codec embeds a bit sequence into one container format and extracts
// it back. Implementations are stateless and safe for concurrent use;
// Embed returns a new carrier and never mutates its input.
//
// The enumeration order of embedding units is fixed and identical
// between Embed and Extract. That order is the only synchronization
// between writer and reader — no position markers are stored in the
// carrier — so any implementation must preserve it exactly.
type Codec interface {
	// Format returns the format tag this codec serves.
	Format() Format

	// Capacity returns the number of payload bits the carrier can
	// hold under params. Structural and header regions are excluded.
	// Fails with ErrUnsupportedCarrier when the carrier does not meet
	// the format's constraints.
	Capacity(carrier []byte, params Params) (int, error)

	// Embed writes bits into a copy of carrier in unit enumeration
	// order and returns the copy. Units beyond the last consumed bit
	// are left identical to the source. The context is honored at
	// unit boundaries.
	Embed(ctx context.Context, carrier []byte, bits *BitStream, params Params) ([]byte, error)

	// Extract reads every embeddable bit of the carrier, in the same
	// unit order as Embed, without mutating it. The context is
	// honored at unit boundaries; an aborted extract yields a short
	// stream and ultimately ErrIncompleteFrame from the frame parser.
	Extract(ctx context.Context, carrier []byte, params Params) (*BitStream, error)
}

// Cipher is the password-based encryption collaborator. The ciphertext
// layout, including any embedded salt, is opaque to the rest of the
// package.
type Cipher interface {
	// Encrypt encrypts plaintext under a key derived from password.
	Encrypt(plaintext []byte, password string) ([]byte, error)

	// Decrypt reverses Encrypt. Fails with ErrAuthentication on a
	// wrong password or corrupted ciphertext.
	Decrypt(ciphertext []byte, password string) ([]byte, error)
}
