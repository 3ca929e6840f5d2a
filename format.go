package aei

import "fmt"

// Format is an AEI compression format. Values are the identifiers stored in
// the format byte of the file header.
type Format uint8

const (
	FormatUnknown               Format = 0b00000000
	FormatUncompressed          Format = 0b00000011
	FormatUncompressedUI        Format = 0b00000001
	FormatUncompressedCubeMapPC Format = 0b10000001
	FormatUncompressedCubeMap   Format = 0b11000010
	FormatPVRTC12A              Format = 0b00001101
	FormatPVRTC14A              Format = 0b00010000
	FormatATC                   Format = 0b00010001
	FormatDXT1                  Format = 0b00100000
	FormatDXT3                  Format = 0b00100001
	FormatDXT5                  Format = 0b00100100
	FormatETC1                  Format = 0b01000000
	FormatETC2                  Format = 0b00010111
)

const (
	// MipmapFlag marks a mipmapped payload in the format byte.
	MipmapFlag = 0b00000010

	formatIDMask = ^uint8(MipmapFlag)
)

// formatInfo holds static per-format metadata.
type formatInfo struct {
	name       string
	compressed bool
	channels   int
	bitCount   int
	bgra       bool
	mipmaps    bool
}

var formatTable = []struct {
	format Format
	info   formatInfo
}{
	{FormatUnknown, formatInfo{name: "Unknown"}},
	{FormatUncompressed, formatInfo{name: "Uncompressed", channels: 4, bitCount: 8}},
	{FormatUncompressedUI, formatInfo{name: "Uncompressed_UI", channels: 4, bitCount: 8}},
	{FormatUncompressedCubeMapPC, formatInfo{name: "Uncompressed_CubeMap_PC", channels: 4, bitCount: 8}},
	{FormatUncompressedCubeMap, formatInfo{name: "Uncompressed_CubeMap", channels: 4, bitCount: 8}},
	{FormatPVRTC12A, formatInfo{name: "PVRTC12A", compressed: true, channels: 4, bitCount: 2, mipmaps: true}},
	{FormatPVRTC14A, formatInfo{name: "PVRTC14A", compressed: true, channels: 4, bitCount: 4, mipmaps: true}},
	{FormatATC, formatInfo{name: "ATC", compressed: true, channels: 4, bitCount: 4, mipmaps: true}},
	{FormatDXT1, formatInfo{name: "DXT1", compressed: true, channels: 3, bitCount: 4, mipmaps: true}},
	{FormatDXT3, formatInfo{name: "DXT3", compressed: true, channels: 4, bitCount: 8, mipmaps: true}},
	{FormatDXT5, formatInfo{name: "DXT5", compressed: true, channels: 4, bitCount: 8, mipmaps: true}},
	{FormatETC1, formatInfo{name: "ETC1", compressed: true, channels: 3, bitCount: 4, bgra: true, mipmaps: true}},
	{FormatETC2, formatInfo{name: "ETC2", compressed: true, channels: 3, bitCount: 8, bgra: true}},
}

func (f Format) info() (formatInfo, bool) {
	for _, e := range formatTable {
		if e.format == f {
			return e.info, true
		}
	}

	return formatInfo{}, false
}

// Formats returns every known format in declaration order.
func Formats() []Format {
	out := make([]Format, len(formatTable))
	for i, e := range formatTable {
		out[i] = e.format
	}

	return out
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, ok := f.info()
	return ok
}

// IsCompressed reports whether payloads of f are stored with an explicit
// length prefix. Only the raw formats (and Unknown) are not compressed.
func (f Format) IsCompressed() bool {
	info, _ := f.info()
	return info.compressed
}

// Channels returns the pixel channel count of the payload (3 or 4), or 0 for
// unknown formats.
func (f Format) Channels() int {
	info, _ := f.info()
	return info.channels
}

// BitsPerPixel returns the payload bit count per pixel.
func (f Format) BitsPerPixel() int {
	info, _ := f.info()
	return info.bitCount
}

// SwapsRedBlue reports whether payloads of f store blue before red.
func (f Format) SwapsRedBlue() bool {
	info, _ := f.info()
	return info.bgra
}

// SupportsMipmaps reports whether f can carry a mipmap chain.
func (f Format) SupportsMipmaps() bool {
	info, _ := f.info()
	return info.mipmaps
}

// Binary returns the wire byte for f.
func (f Format) Binary(mipmapped bool) byte {
	if mipmapped {
		return byte(f) | MipmapFlag
	}

	return byte(f)
}

func (f Format) String() string {
	if info, ok := f.info(); ok {
		return info.name
	}

	return fmt.Sprintf("Format(0x%02x)", uint8(f))
}

// FormatFromBinary decodes a raw format byte.
//
// Some raw formats carry the mipmap bit as part of their identifier, so an
// exact match is tried first and reported as not mipmapped. Otherwise the
// mipmap bit is cleared and the remainder must be a known format.
func FormatFromBinary(raw byte) (Format, bool, error) {
	if f := Format(raw); f.Valid() {
		return f, false, nil
	}

	f := Format(raw & formatIDMask)
	if !f.Valid() {
		return FormatUnknown, false, &InvalidFormatError{Raw: raw}
	}

	return f, raw&MipmapFlag != 0, nil
}
