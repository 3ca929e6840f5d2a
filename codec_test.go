package aei

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/woozymasta/bcn"
)

// fakeCodec compresses to a fixed payload and decompresses to a fixed image.
type fakeCodec struct {
	name       string
	compressed []byte
	decoded    *image.NRGBA

	lastInput *image.NRGBA
}

func (c *fakeCodec) Name() string { return c.name }

func (c *fakeCodec) Compress(img *image.NRGBA, _ Format, _ Quality) ([]byte, error) {
	c.lastInput = toNRGBA(img)
	return bytes.Clone(c.compressed), nil
}

func (c *fakeCodec) Decompress(_ []byte, _ Format, width, height int, _ Quality) (*image.NRGBA, error) {
	if c.decoded != nil {
		return toNRGBA(c.decoded), nil
	}
	return image.NewNRGBA(image.Rect(0, 0, width, height)), nil
}

// compressOnly has no Decompress method.
type compressOnly struct{}

func (compressOnly) Name() string { return "compress-only" }

func (compressOnly) Compress(*image.NRGBA, Format, Quality) ([]byte, error) { return nil, nil }

// fixedSizer forces the payload length.
type fixedSizer struct {
	fakeCodec
	length int
}

func (s *fixedSizer) CompressedLength(int, io.Reader, Format, bool, int, int) (int, error) {
	return s.length, nil
}

func TestRegistryLookupOrder(t *testing.T) {
	t.Parallel()

	pvr := &fakeCodec{name: "pvr"}
	etc := &fakeCodec{name: "etc"}
	dxt := &fakeCodec{name: "dxt"}

	r := NewRegistry(&RegistryOptions{Platform: "linux"})
	mustSupport(t, r, pvr, Support{Both: []Format{FormatPVRTC12A}})
	mustSupport(t, r, etc, Support{Decompresses: []Format{FormatETC1}})
	mustSupport(t, r, dxt, Support{Compresses: []Format{FormatDXT5}})

	tests := []struct {
		name   string
		format Format
		dir    Direction
		want   Codec
	}{
		{name: "compress-dxt5", format: FormatDXT5, dir: DirectionCompress, want: dxt},
		{name: "compress-pvrtc", format: FormatPVRTC12A, dir: DirectionCompress, want: pvr},
		{name: "decompress-etc1", format: FormatETC1, dir: DirectionDecompress, want: etc},
		{name: "decompress-pvrtc", format: FormatPVRTC12A, dir: DirectionDecompress, want: pvr},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.CodecFor(tc.format, tc.dir)
			if err != nil {
				t.Fatalf("CodecFor: %v", err)
			}
			if got != tc.want {
				t.Fatalf("CodecFor = %s, want %s", got.Name(), tc.want.Name())
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	mustSupport(t, r, &fakeCodec{name: "dxt"}, Support{Compresses: []Format{FormatDXT5}})

	_, err := r.Compressor(FormatPVRTC14A)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) || unsupported.Format != FormatPVRTC14A {
		t.Fatalf("expected UnsupportedFormatError for PVRTC14A, got %v", err)
	}

	// compress-only registrations do not serve decompression
	if _, err := r.Decompressor(FormatDXT5); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRegistryPlatformExclusion(t *testing.T) {
	t.Parallel()

	setup := func(platform string) *Registry {
		r := NewRegistry(&RegistryOptions{Platform: platform})
		mustSupport(t, r, &fakeCodec{name: "atc"}, Support{Decompresses: []Format{FormatATC}, NotOnPlatforms: []string{"windows"}})
		mustSupport(t, r, &fakeCodec{name: "raw"}, Support{Decompresses: []Format{FormatUncompressed}, NotOnPlatforms: []string{"linux"}})
		return r
	}

	windows := setup("windows")
	if _, err := windows.Decompressor(FormatATC); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("windows ATC: expected ErrUnsupportedFormat, got %v", err)
	}
	if c, err := windows.Decompressor(FormatUncompressed); err != nil || c.Name() != "raw" {
		t.Fatalf("windows Uncompressed = %v, %v", c, err)
	}

	linux := setup("linux")
	if _, err := linux.Decompressor(FormatUncompressed); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("linux Uncompressed: expected ErrUnsupportedFormat, got %v", err)
	}
	if c, err := linux.Decompressor(FormatATC); err != nil || c.Name() != "atc" {
		t.Fatalf("linux ATC = %v, %v", c, err)
	}
}

func TestRegistryPriorityWithExcludedFallback(t *testing.T) {
	t.Parallel()

	first := &fakeCodec{name: "first"}
	second := &fakeCodec{name: "second"}

	r := NewRegistry(&RegistryOptions{Platform: "linux"})
	mustSupport(t, r, first, Support{Both: []Format{FormatETC1}})
	mustSupport(t, r, second, Support{Both: []Format{FormatETC1}, NotOnPlatforms: []string{"linux"}})

	got, err := r.Compressor(FormatETC1)
	if err != nil {
		t.Fatalf("Compressor: %v", err)
	}
	if got != first {
		t.Fatalf("Compressor = %s, want first", got.Name())
	}

	// the first registration wins even when both are eligible
	r2 := NewRegistry(&RegistryOptions{Platform: "darwin"})
	mustSupport(t, r2, first, Support{Both: []Format{FormatETC1}})
	mustSupport(t, r2, second, Support{Both: []Format{FormatETC1}})
	if got, _ := r2.Decompressor(FormatETC1); got != first {
		t.Fatalf("Decompressor = %v, want first", got)
	}

	// an excluded earlier registration yields to a later one
	r3 := NewRegistry(&RegistryOptions{Platform: "linux"})
	mustSupport(t, r3, second, Support{Both: []Format{FormatETC1}, NotOnPlatforms: []string{"linux"}})
	mustSupport(t, r3, first, Support{Both: []Format{FormatETC1}})
	if got, _ := r3.Decompressor(FormatETC1); got != first {
		t.Fatalf("Decompressor = %v, want first", got)
	}
}

func TestRegistryRejectsMissingCapability(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	err := r.Register(FormatDXT5, DirectionDecompress, nil, compressOnly{})
	if !errors.Is(err, ErrCodecCapability) {
		t.Fatalf("expected ErrCodecCapability, got %v", err)
	}
	if err := r.Register(FormatDXT5, DirectionCompress, nil, compressOnly{}); err != nil {
		t.Fatalf("Register compress: %v", err)
	}
	if err := r.Register(Format(0x99), DirectionCompress, nil, compressOnly{}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if err := r.Register(FormatDXT5, DirectionCompress, nil, nil); !errors.Is(err, ErrCodecCapability) {
		t.Fatalf("nil codec: expected ErrCodecCapability, got %v", err)
	}
}

func TestDefaultRegistryBuiltins(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	if r != DefaultRegistry() {
		t.Fatalf("DefaultRegistry is not a singleton")
	}

	for _, f := range []Format{FormatUncompressed, FormatUncompressedUI, FormatUncompressedCubeMap, FormatUncompressedCubeMapPC} {
		c, err := r.Compressor(f)
		if err != nil || c.Name() != "raw" {
			t.Fatalf("Compressor(%s) = %v, %v", f, c, err)
		}
	}
	for _, f := range []Format{FormatDXT1, FormatDXT3, FormatDXT5} {
		c, err := r.Decompressor(f)
		if err != nil || c.Name() != "bcn" {
			t.Fatalf("Decompressor(%s) = %v, %v", f, c, err)
		}
	}
	if _, err := r.Decompressor(FormatATC); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decompressor(ATC): expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRawCodecRoundTrip(t *testing.T) {
	t.Parallel()

	img := testPattern(3, 2)
	data, err := RawCodec{}.Compress(img, FormatUncompressed, QualityNone)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(data) != 3*2*4 {
		t.Fatalf("payload length = %d", len(data))
	}

	got, err := RawCodec{}.Decompress(data, FormatUncompressed, 3, 2, QualityNone)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got.Pix, img.Pix) {
		t.Fatalf("raw round-trip mismatch")
	}

	if _, err := (RawCodec{}).Decompress(data[:5], FormatUncompressed, 3, 2, QualityNone); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("expected ErrPayloadSize, got %v", err)
	}
	if _, err := (RawCodec{}).Compress(img, FormatDXT5, QualityNone); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBCnCodecDXT5(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []byte{200, 40, 10, 255})
	}

	c := &BCnCodec{}
	data, err := c.Compress(img, FormatDXT5, QualityHigh)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(data) != bcnDataLength(FormatDXT5, 8, 8) {
		t.Fatalf("payload length = %d, want %d", len(data), bcnDataLength(FormatDXT5, 8, 8))
	}

	got, err := c.Decompress(data, FormatDXT5, 8, 8, QualityNone)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if got.Rect.Dx() != 8 || got.Rect.Dy() != 8 {
		t.Fatalf("unexpected size: %v", got.Rect)
	}

	if _, err := c.Decompress(data[:3], FormatDXT5, 8, 8, QualityNone); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("expected ErrPayloadSize, got %v", err)
	}
	if _, err := c.Compress(img, FormatATC, QualityNone); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBCnDataLengthTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		w      int
		h      int
		want   int
	}{
		{name: "dxt1-4x4", format: FormatDXT1, w: 4, h: 4, want: 8},
		{name: "dxt1-5x7", format: FormatDXT1, w: 5, h: 7, want: 32},
		{name: "dxt3-1x1", format: FormatDXT3, w: 1, h: 1, want: 16},
		{name: "dxt5-8x4", format: FormatDXT5, w: 8, h: 4, want: 32},
		{name: "atc", format: FormatATC, w: 4, h: 4, want: -1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := bcnDataLength(tc.format, tc.w, tc.h); got != tc.want {
				t.Fatalf("bcnDataLength(%s,%d,%d) = %d, want %d", tc.format, tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestBCnEncodeQualityLevels(t *testing.T) {
	t.Parallel()

	c := &BCnCodec{EncodeOptions: &bcn.EncodeOptions{Workers: 2}}
	if (&BCnCodec{}).encodeOptions(QualityNone) != nil {
		t.Fatalf("encodeOptions(none) without codec options is not nil")
	}

	tests := []struct {
		quality Quality
		want    bcn.EncodeOptions
	}{
		{quality: QualityLow, want: bcn.EncodeOptions{Workers: 2, QualityLevel: bcn.QualityLevelFast}},
		{quality: QualityMedium, want: bcn.EncodeOptions{Workers: 2, QualityLevel: bcn.QualityLevelBalanced}},
		{quality: QualityHigh, want: bcn.EncodeOptions{Workers: 2, QualityLevel: bcn.QualityLevelBest}},
	}

	for _, tc := range tests {
		got := c.encodeOptions(tc.quality)
		if got == nil || got.QualityLevel != tc.want.QualityLevel || got.Workers != tc.want.Workers {
			t.Fatalf("encodeOptions(%s) = %+v, want %+v", tc.quality, got, tc.want)
		}
	}
	if c.EncodeOptions.QualityLevel != 0 {
		t.Fatalf("encodeOptions mutated the codec options")
	}
}

func TestBCnCompressedLength(t *testing.T) {
	t.Parallel()

	c := &BCnCodec{}
	n, err := c.CompressedLength(123, nil, FormatDXT5, false, 8, 8)
	if err != nil || n != 123 {
		t.Fatalf("CompressedLength(not mipmapped) = %d, %v", n, err)
	}
	n, err = c.CompressedLength(123, nil, FormatDXT1, true, 8, 8)
	if err != nil || n != 32 {
		t.Fatalf("CompressedLength(mipmapped) = %d, %v", n, err)
	}
}

func mustSupport(t *testing.T, r *Registry, c Codec, s Support) {
	t.Helper()

	if err := r.Supports(c, s); err != nil {
		t.Fatalf("Supports(%s): %v", c.Name(), err)
	}
}

// testPattern builds a deterministic image with varying alpha.
func testPattern(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 30),       //nolint:gosec // bounded
				G: uint8(y * 30),       //nolint:gosec // bounded
				B: uint8((x + y) * 10), //nolint:gosec // bounded
				A: uint8(255 - x*y),    //nolint:gosec // bounded
			})
		}
	}

	return img
}
