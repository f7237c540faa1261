package stego

import (
	"context"
	"sync"
)

var (
	defaultProc *Processor
	defaultMu   sync.Mutex
)

// Default returns the shared package-level processor, building it on
// first use.
func Default() *Processor {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultProc == nil {
		defaultProc = NewProcessor()
	}
	return defaultProc
}

// Reset discards the shared processor so the next call to Default
// rebuilds it. This is primarily useful for test isolation.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultProc = nil
}

// Embed hides plaintext in carrier using the shared processor.
// See Processor.Embed.
func Embed(ctx context.Context, carrier []byte, format Format, plaintext []byte, password string, params Params) ([]byte, error) {
	return Default().Embed(ctx, carrier, format, plaintext, password, params)
}

// Extract recovers the plaintext hidden in carrier using the shared
// processor. See Processor.Extract.
func Extract(ctx context.Context, carrier []byte, format Format, password string, params Params) ([]byte, error) {
	return Default().Extract(ctx, carrier, format, password, params)
}

// Capacity reports the payload bit capacity of carrier using the
// shared processor. See Processor.Capacity.
func Capacity(carrier []byte, format Format, params Params) (int, error) {
	return Default().Capacity(carrier, format, params)
}
