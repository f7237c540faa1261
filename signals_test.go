package stego

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitEmbedStart(_ *testing.T) {
	// Should not panic
	emitEmbedStart(context.Background(), FormatAudio, 1024)
}

func TestEmitEmbedComplete_Success(_ *testing.T) {
	emitEmbedComplete(context.Background(), FormatAudio, 1024, 500, 100*time.Millisecond, nil)
}

func TestEmitEmbedComplete_Error(_ *testing.T) {
	emitEmbedComplete(context.Background(), FormatAudio, 1024, 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitExtractStart(_ *testing.T) {
	emitExtractStart(context.Background(), FormatImage, 2048)
}

func TestEmitExtractComplete_Success(_ *testing.T) {
	emitExtractComplete(context.Background(), FormatImage, 32, 100*time.Millisecond, nil)
}

func TestEmitExtractComplete_Error(_ *testing.T) {
	emitExtractComplete(context.Background(), FormatImage, 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	// Verify signals are properly initialized
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalEmbedStart", SignalEmbedStart},
		{"SignalEmbedComplete", SignalEmbedComplete},
		{"SignalExtractStart", SignalExtractStart},
		{"SignalExtractComplete", SignalExtractComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	// Verify keys are properly initialized
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyFormat", KeyFormat},
		{"KeyCarrierSize", KeyCarrierSize},
		{"KeyPayloadSize", KeyPayloadSize},
		{"KeyCapacityBits", KeyCapacityBits},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
