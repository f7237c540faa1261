package stego

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Processor orchestrates the full hide/recover pipeline: it selects
// the format codec by tag, calls the encryption collaborator, frames
// the ciphertext, validates capacity, and delegates the bit work to
// the codec.
//
// Processors are safe for concurrent use on distinct carriers; every
// operation is a pure transformation from an input carrier snapshot to
// a new output. Concurrent operations on the same carrier path must be
// serialized by the caller doing the file I/O.
type Processor struct {
	// Mutable configuration protected by mu
	mu     sync.RWMutex
	codecs map[Format]Codec
	cipher Cipher
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithCipher replaces the default PBKDF2/AES-GCM encryption
// collaborator.
func WithCipher(c Cipher) ProcessorOption {
	return func(p *Processor) { p.cipher = c }
}

// WithCodec registers or replaces the codec for its format tag.
func WithCodec(c Codec) ProcessorOption {
	return func(p *Processor) { p.codecs[c.Format()] = c }
}

// NewProcessor creates a Processor with the four built-in format
// codecs and the PBKDF2 cipher.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		codecs: builtinCodecs(),
		cipher: PBKDF2(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// builtinCodecs returns the default codec registry.
func builtinCodecs() map[Format]Codec {
	return map[Format]Codec{
		FormatImage: ImageCodec{},
		FormatAudio: AudioCodec{},
		FormatVideo: VideoCodec{},
		FormatText:  TextCodec{},
	}
}

// SetCipher replaces the encryption collaborator.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetCipher(c Cipher) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cipher = c
	return p
}

// SetCodec registers a codec for its format tag.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetCodec(c Codec) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codecs[c.Format()] = c
	return p
}

// Codec returns the registered codec for format.
func (p *Processor) Codec(format Format) (Codec, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// Capacity returns the payload bit capacity of carrier under params,
// without touching the carrier. Callers can size payloads up front:
// a ciphertext of n bytes needs FrameBits(n) bits.
func (p *Processor) Capacity(carrier []byte, format Format, params Params) (int, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return 0, err
	}
	codec, err := p.Codec(format)
	if err != nil {
		return 0, err
	}
	return codec.Capacity(carrier, params)
}

// Embed encrypts plaintext under password, frames the ciphertext, and
// hides the frame in a copy of carrier. The input carrier is never
// mutated, and capacity and structural checks run before any byte of
// the copy changes, so no partial carrier is ever returned.
func (p *Processor) Embed(ctx context.Context, carrier []byte, format Format, plaintext []byte, password string, params Params) ([]byte, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	codec, err := p.Codec(format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emitEmbedStart(ctx, format, len(carrier))

	var retErr error
	capacity := 0
	defer func() {
		emitEmbedComplete(ctx, format, len(carrier), capacity, time.Since(start), retErr)
	}()

	p.mu.RLock()
	cipher := p.cipher
	p.mu.RUnlock()

	ciphertext, err := cipher.Encrypt(plaintext, password)
	if err != nil {
		retErr = fmt.Errorf("encrypt: %w", err)
		return nil, retErr
	}

	capacity, err = codec.Capacity(carrier, params)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	frame := MarshalFrame(ciphertext)
	if frame.Len() > capacity {
		retErr = newCapacityError(format, frame.Len(), capacity)
		return nil, retErr
	}

	out, err := codec.Embed(ctx, carrier, frame, params)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return out, nil
}

// Extract recovers the plaintext hidden in carrier. Framing failures
// (ErrIncompleteFrame, ErrFrameLengthMismatch) mean no intact payload
// is present; ErrAuthentication means a payload is present but the
// password is wrong or the ciphertext was damaged.
func (p *Processor) Extract(ctx context.Context, carrier []byte, format Format, password string, params Params) ([]byte, error) {
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	codec, err := p.Codec(format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	emitExtractStart(ctx, format, len(carrier))

	var retErr error
	var plaintext []byte
	defer func() {
		emitExtractComplete(ctx, format, len(plaintext), time.Since(start), retErr)
	}()

	capacity, err := codec.Capacity(carrier, params)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	bits, err := codec.Extract(ctx, carrier, params)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	ciphertext, err := ParseFrame(bits, capacity)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	p.mu.RLock()
	cipher := p.cipher
	p.mu.RUnlock()

	plaintext, err = cipher.Decrypt(ciphertext, password)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return plaintext, nil
}
