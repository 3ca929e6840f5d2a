package aei

import (
	"fmt"
	"image"
	"io"

	"github.com/woozymasta/bcn"
)

// BCnCodec compresses and decompresses DXT1, DXT3 and DXT5 payloads with
// github.com/woozymasta/bcn.
type BCnCodec struct {
	// EncodeOptions are passed to the BCn encoder. A non-zero Quality
	// overrides their QualityLevel.
	EncodeOptions *bcn.EncodeOptions
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
}

// Name implements Codec.
func (*BCnCodec) Name() string {
	return "bcn"
}

// Compress implements Compressor.
func (c *BCnCodec) Compress(img *image.NRGBA, format Format, quality Quality) ([]byte, error) {
	bf := bcnFormat(format)
	if bf == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: bcn codec cannot compress %s", ErrUnsupportedFormat, format)
	}

	data, _, _, err := bcn.EncodeImageWithOptions(img, bf, c.encodeOptions(quality))
	if err != nil {
		return nil, fmt.Errorf("bcn encode %s: %w", format, err)
	}

	return data, nil
}

// Decompress implements Decompressor.
func (c *BCnCodec) Decompress(data []byte, format Format, width, height int, _ Quality) (*image.NRGBA, error) {
	bf := bcnFormat(format)
	if bf == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: bcn codec cannot decompress %s", ErrUnsupportedFormat, format)
	}

	expected := bcnDataLength(format, width, height)
	if len(data) != expected {
		return nil, fmt.Errorf("%w: %s %dx%d: expected %d, got %d", ErrPayloadSize, format, width, height, expected, len(data))
	}

	img, err := bcn.DecodeImageWithOptions(data, width, height, bf, c.DecodeOptions)
	if err != nil {
		return nil, fmt.Errorf("bcn decode %s: %w", format, err)
	}

	return toNRGBA(img), nil
}

// CompressedLength implements PayloadSizer. Mipmapped payloads do not
// declare a usable length, so only the top level is read.
func (*BCnCodec) CompressedLength(declared int, _ io.Reader, format Format, mipmapped bool, width, height int) (int, error) {
	if !mipmapped {
		return declared, nil
	}

	return bcnDataLength(format, width, height), nil
}

func (c *BCnCodec) encodeOptions(quality Quality) *bcn.EncodeOptions {
	if c.EncodeOptions == nil && quality == QualityNone {
		return nil
	}

	opts := &bcn.EncodeOptions{}
	if c.EncodeOptions != nil {
		*opts = *c.EncodeOptions
	}

	switch quality {
	case QualityLow:
		opts.QualityLevel = bcn.QualityLevelFast
	case QualityMedium:
		opts.QualityLevel = bcn.QualityLevelBalanced
	case QualityHigh:
		opts.QualityLevel = bcn.QualityLevelBest
	}

	return opts
}

func bcnFormat(format Format) bcn.Format {
	switch format {
	case FormatDXT1:
		return bcn.FormatDXT1
	case FormatDXT3:
		return bcn.FormatDXT3
	case FormatDXT5:
		return bcn.FormatDXT5
	default:
		return bcn.FormatUnknown
	}
}

// bcnDataLength is the payload size of one width x height level, or -1.
func bcnDataLength(format Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case FormatDXT1:
		return blocksW * blocksH * 8
	case FormatDXT3, FormatDXT5:
		return blocksW * blocksH * 16
	default:
		return -1
	}
}
