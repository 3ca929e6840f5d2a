package aei

import (
	"fmt"
	"image"
)

// RawCodec stores uncompressed RGBA8 pixels.
type RawCodec struct{}

// Name implements Codec.
func (RawCodec) Name() string {
	return "raw"
}

// Compress implements Compressor.
func (RawCodec) Compress(img *image.NRGBA, format Format, _ Quality) ([]byte, error) {
	if format.IsCompressed() {
		return nil, fmt.Errorf("%w: raw codec cannot compress %s", ErrUnsupportedFormat, format)
	}

	return toNRGBA(img).Pix, nil
}

// Decompress implements Decompressor.
func (RawCodec) Decompress(data []byte, format Format, width, height int, _ Quality) (*image.NRGBA, error) {
	if format.IsCompressed() {
		return nil, fmt.Errorf("%w: raw codec cannot decompress %s", ErrUnsupportedFormat, format)
	}

	expected := rawPayloadLength(width, height)
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrPayloadSize, expected, len(data))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data)

	return img, nil
}

// rawPayloadLength is the size of an uncompressed width x height payload.
func rawPayloadLength(width, height int) int {
	return width * height * 4
}
