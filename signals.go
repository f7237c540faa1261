package stego

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for steganography events.
var (
	SignalEmbedStart      = capitan.NewSignal("stego.embed.start", "Embed operation beginning")
	SignalEmbedComplete   = capitan.NewSignal("stego.embed.complete", "Embed operation finished")
	SignalExtractStart    = capitan.NewSignal("stego.extract.start", "Extract operation beginning")
	SignalExtractComplete = capitan.NewSignal("stego.extract.complete", "Extract operation finished")
)

// Keys for typed event data.
var (
	KeyFormat       = capitan.NewStringKey("format")
	KeyCarrierSize  = capitan.NewIntKey("carrier_size")
	KeyPayloadSize  = capitan.NewIntKey("payload_size")
	KeyCapacityBits = capitan.NewIntKey("capacity_bits")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

// emitEmbedStart emits an event when an embed begins.
func emitEmbedStart(ctx context.Context, format Format, carrierSize int) {
	capitan.Emit(ctx, SignalEmbedStart,
		KeyFormat.Field(string(format)),
		KeyCarrierSize.Field(carrierSize),
	)
}

// emitEmbedComplete emits an event when an embed finishes.
func emitEmbedComplete(ctx context.Context, format Format, carrierSize, capacityBits int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(string(format)),
		KeyCarrierSize.Field(carrierSize),
		KeyCapacityBits.Field(capacityBits),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEmbedComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEmbedComplete, fields...)
	}
}

// emitExtractStart emits an event when an extract begins.
func emitExtractStart(ctx context.Context, format Format, carrierSize int) {
	capitan.Emit(ctx, SignalExtractStart,
		KeyFormat.Field(string(format)),
		KeyCarrierSize.Field(carrierSize),
	)
}

// emitExtractComplete emits an event when an extract finishes.
func emitExtractComplete(ctx context.Context, format Format, payloadSize int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(string(format)),
		KeyPayloadSize.Field(payloadSize),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalExtractComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalExtractComplete, fields...)
	}
}
