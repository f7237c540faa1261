package stego

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/image/bmp"
)

// Image container magic bytes.
var (
	pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	bmpMagic = []byte{'B', 'M'}
)

// ImageCodec hides payload bits in the low bits of pixel color
// channels of a PNG or BMP carrier. The embedding unit is one R, G,
// or B channel byte, enumerated per pixel in row-major order; the
// alpha channel is structural and excluded.
//
// The carrier is decoded, modified on the pixel plane, and re-encoded
// in its original lossless format, so the unit invariant holds over
// decoded pixels rather than raw file bytes.
type ImageCodec struct{}

// Format returns FormatImage.
func (ImageCodec) Format() Format { return FormatImage }

// decodeImage sniffs the container by magic bytes and decodes it into
// an NRGBA pixel plane, remembering which encoder to use on the way
// back out.
func decodeImage(carrier []byte) (*image.NRGBA, func(*bytes.Buffer, image.Image) error, error) {
	var (
		img image.Image
		err error
		enc func(*bytes.Buffer, image.Image) error
	)

	switch {
	case bytes.HasPrefix(carrier, pngMagic):
		img, err = png.Decode(bytes.NewReader(carrier))
		enc = func(w *bytes.Buffer, m image.Image) error { return png.Encode(w, m) }
	case bytes.HasPrefix(carrier, bmpMagic):
		img, err = bmp.Decode(bytes.NewReader(carrier))
		enc = func(w *bytes.Buffer, m image.Image) error { return bmp.Encode(w, m) }
	default:
		return nil, nil, newCarrierError(FormatImage, "not a PNG or BMP file")
	}
	if err != nil {
		return nil, nil, newCarrierError(FormatImage, "decode: "+err.Error())
	}

	bounds := img.Bounds()
	pix := image.NewNRGBA(bounds)
	draw.Draw(pix, bounds, img, bounds.Min, draw.Src)
	return pix, enc, nil
}

// Capacity returns width * height * 3 * NLSB bits.
func (ImageCodec) Capacity(carrier []byte, params Params) (int, error) {
	pix, _, err := decodeImage(carrier)
	if err != nil {
		return 0, err
	}
	bounds := pix.Bounds()
	return bounds.Dx() * bounds.Dy() * 3 * params.NLSB, nil
}

// Embed writes bits into the low NLSB bits of each pixel's R, G and B
// bytes, MSB-first within the slot, and re-encodes the image. Channels
// beyond the last consumed bit keep their source values.
func (ImageCodec) Embed(ctx context.Context, carrier []byte, bits *BitStream, params Params) ([]byte, error) {
	pix, encode, err := decodeImage(carrier)
	if err != nil {
		return nil, err
	}

	width := params.NLSB
	mask := byte(1<<width - 1)
	npix := len(pix.Pix) / 4

	off := 0
	for i := 0; i < npix && off < bits.Len(); i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for ch := 0; ch < 3 && off < bits.Len(); ch++ {
			idx := 4*i + ch
			pix.Pix[idx] = pix.Pix[idx]&^mask | bits.Group(off, width)
			off += width
		}
	}

	var buf bytes.Buffer
	if err := encode(&buf, pix); err != nil {
		return nil, newCarrierError(FormatImage, "encode: "+err.Error())
	}
	return buf.Bytes(), nil
}

// Extract reads the low NLSB bits of every pixel's R, G and B bytes in
// the same order Embed wrote them.
func (ImageCodec) Extract(ctx context.Context, carrier []byte, params Params) (*BitStream, error) {
	pix, _, err := decodeImage(carrier)
	if err != nil {
		return nil, err
	}

	width := params.NLSB
	mask := byte(1<<width - 1)
	npix := len(pix.Pix) / 4

	bits := NewBitStream(npix * 3 * width)
	for i := 0; i < npix; i++ {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return bits, nil
		}
		for ch := 0; ch < 3; ch++ {
			bits.AppendGroup(pix.Pix[4*i+ch]&mask, width)
		}
	}
	return bits, nil
}
