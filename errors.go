package stego

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownFormat indicates no codec is registered for the
	// requested format tag.
	ErrUnknownFormat = errors.New("unknown carrier format")

	// ErrUnsupportedCarrier indicates the carrier does not meet the
	// format's structural constraints (wrong magic, channel count,
	// bit depth, or compression).
	ErrUnsupportedCarrier = errors.New("unsupported carrier")

	// ErrCapacityExceeded indicates the framed payload does not fit
	// the carrier, or a per-unit adjustment tolerance was exceeded.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrIncompleteFrame indicates fewer extracted bits than the
	// declared frame length requires.
	ErrIncompleteFrame = errors.New("incomplete frame")

	// ErrFrameLengthMismatch indicates the declared frame length is
	// inconsistent with what the carrier could ever have held.
	ErrFrameLengthMismatch = errors.New("frame length mismatch")

	// ErrAuthentication indicates decryption failed: wrong password
	// or corrupted ciphertext.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInvalidParams indicates an embedding parameter is out of its
	// valid range.
	ErrInvalidParams = errors.New("invalid params")
)

// CarrierError reports a structural problem with a carrier.
// It wraps a sentinel error with the format and a human-readable detail.
type CarrierError struct {
	Err    error  // Underlying sentinel error (ErrUnsupportedCarrier, ...)
	Format Format // Format tag of the offending carrier
	Detail string // What exactly was wrong
}

func (e *CarrierError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s): %s", e.Err.Error(), e.Format, e.Detail)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Format)
}

func (e *CarrierError) Unwrap() error {
	return e.Err
}

// CapacityError reports that a payload does not fit a carrier.
// Need and Have are in bits.
type CapacityError struct {
	Format Format
	Need   int
	Have   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s (%s): payload needs %d bits, carrier holds %d",
		ErrCapacityExceeded.Error(), e.Format, e.Need, e.Have)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// FrameError reports a framing failure during extraction.
// Need and Have are in bits.
type FrameError struct {
	Err  error // ErrIncompleteFrame or ErrFrameLengthMismatch
	Need int   // Bits the declared frame requires, including the header
	Have int   // Bits actually available
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s: frame requires %d bits, have %d", e.Err.Error(), e.Need, e.Have)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// ParamsError reports an out-of-range embedding parameter.
type ParamsError struct {
	Name   string
	Value  int
	Reason string
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("%s: %s = %d %s", ErrInvalidParams.Error(), e.Name, e.Value, e.Reason)
}

func (e *ParamsError) Unwrap() error {
	return ErrInvalidParams
}

// newCarrierError creates a CarrierError for structural carrier failures.
func newCarrierError(format Format, detail string) error {
	return &CarrierError{
		Err:    ErrUnsupportedCarrier,
		Format: format,
		Detail: detail,
	}
}

// newCapacityError creates a CapacityError for payload-too-large failures.
func newCapacityError(format Format, need, have int) error {
	return &CapacityError{
		Format: format,
		Need:   need,
		Have:   have,
	}
}

// newFrameError creates a FrameError for extraction framing failures.
func newFrameError(sentinel error, need, have int) error {
	return &FrameError{
		Err:  sentinel,
		Need: need,
		Have: have,
	}
}

// newParamsError creates a ParamsError for out-of-range parameters.
func newParamsError(name string, value int, reason string) error {
	return &ParamsError{
		Name:   name,
		Value:  value,
		Reason: reason,
	}
}
