package aei

import (
	"errors"
	"fmt"
)

var (
	// ErrRead wraps every failure raised while decoding an AEI stream.
	ErrRead = errors.New("read AEI failed")
	// ErrWrite wraps every failure raised while encoding an AEI stream.
	ErrWrite = errors.New("write AEI failed")

	// ErrBadMagic indicates the stream does not start with the AEI magic token.
	ErrBadMagic = errors.New("bad AEI magic")
	// ErrTruncated indicates the stream ended inside a field.
	ErrTruncated = errors.New("truncated stream")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrPayloadSize indicates a payload length does not match the image dimensions.
	ErrPayloadSize = errors.New("payload size mismatch")

	// ErrInvalidFormat indicates a format byte that matches no known format.
	ErrInvalidFormat = errors.New("invalid compression format")
	// ErrUnsupportedFormat indicates no codec is registered for a format on this platform.
	ErrUnsupportedFormat = errors.New("unsupported compression format")
	// ErrUnsupportedFeature indicates content this package detects but does not implement.
	ErrUnsupportedFeature = errors.New("unsupported feature")
	// ErrNoFormat indicates neither the AEI nor the write options name a format.
	ErrNoFormat = errors.New("no compression format specified")
	// ErrInvalidQuality indicates a quality value outside the known tiers.
	ErrInvalidQuality = errors.New("invalid compression quality")
	// ErrCodecCapability indicates a codec was registered for a direction it cannot serve.
	ErrCodecCapability = errors.New("codec lacks capability")

	// ErrInvalidShape indicates a non-positive or oversized atlas shape.
	ErrInvalidShape = errors.New("invalid atlas shape")
	// ErrOutOfBounds indicates a texture box outside the atlas.
	ErrOutOfBounds = errors.New("texture out of bounds")
	// ErrDuplicateTexture indicates a texture with an identical box already exists.
	ErrDuplicateTexture = errors.New("texture already exists")
	// ErrTextureNotFound indicates no texture matches the requested box.
	ErrTextureNotFound = errors.New("texture not found")
	// ErrShapeShrink indicates a shape change would cut off an existing texture.
	ErrShapeShrink = errors.New("shape change would put texture out of bounds")
	// ErrImageSize indicates texture pixels do not match the texture box.
	ErrImageSize = errors.New("image dimensions do not match texture")
	// ErrImageMode indicates texture pixels are not 4-channel.
	ErrImageMode = errors.New("image is not RGBA")
	// ErrClosed indicates use of an AEI after Close.
	ErrClosed = errors.New("AEI is closed")

	// ErrOpenFile indicates AEI file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates AEI file creation failed.
	ErrCreateFile = errors.New("create file failed")
)

// InvalidFormatError reports a raw format byte that decodes to no known format.
type InvalidFormatError struct {
	Raw byte
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%v: 0x%02x", ErrInvalidFormat, e.Raw)
}

// Unwrap lets errors.Is match ErrInvalidFormat.
func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// UnsupportedFormatError reports a format with no usable codec.
type UnsupportedFormatError struct {
	Format    Format
	Direction Direction
	Platform  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%v: no %s codec for %s on %s", ErrUnsupportedFormat, e.Direction, e.Format, e.Platform)
}

// Unwrap lets errors.Is match ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
