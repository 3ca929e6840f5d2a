package aei

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

// benchAtlasImage builds a deterministic image used by IO benchmarks.
func benchAtlasImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Deterministic pattern with mixed low/high frequencies.
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),        //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff),       //nolint:gosec // bounded by mask
				B: uint8((x ^ y ^ (x >> 2)) & 0xff), //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}
	return img
}

// benchAtlas builds a 1024x1024 atlas split into a 4x4 grid of textures.
func benchAtlas(b *testing.B) *AEI {
	b.Helper()

	a, err := NewFromImage(benchAtlasImage(1024, 1024))
	if err != nil {
		b.Fatalf("prepare atlas: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if err := a.AddTexture(NewTexture(x*256, y*256, 256, 256), nil); err != nil {
				b.Fatalf("prepare atlas: %v", err)
			}
		}
	}

	return a
}

// benchInputPath prepares an AEI file for read benchmarks.
func benchInputPath(b *testing.B, a *AEI, opts *WriteOptions) string {
	b.Helper()

	path := filepath.Join(b.TempDir(), "atlas_input.aei")
	if err := a.WriteWithOptions(path, opts); err != nil {
		b.Fatalf("prepare input file: %v", err)
	}

	return path
}

func BenchmarkWriteDXT5(b *testing.B) {
	a := benchAtlas(b)
	path := filepath.Join(b.TempDir(), "atlas_write_dxt5.aei")
	opts := &WriteOptions{Format: FormatDXT5, Quality: QualityLow}

	b.ReportAllocs()
	b.SetBytes(int64(a.Width() * a.Height() * 4))
	b.ResetTimer()

	for b.Loop() {
		if err := a.WriteWithOptions(path, opts); err != nil {
			b.Fatalf("write: %v", err)
		}
	}
}

func BenchmarkEncodeUncompressed(b *testing.B) {
	a := benchAtlas(b)
	opts := &WriteOptions{Format: FormatUncompressed}
	var buf bytes.Buffer

	b.ReportAllocs()
	b.SetBytes(int64(a.Width() * a.Height() * 4))
	b.ResetTimer()

	for b.Loop() {
		buf.Reset()
		if err := a.Encode(&buf, opts); err != nil {
			b.Fatalf("encode: %v", err)
		}
	}
}

func BenchmarkReadDXT5(b *testing.B) {
	a := benchAtlas(b)
	path := benchInputPath(b, a, &WriteOptions{Format: FormatDXT5, Quality: QualityLow})

	b.ReportAllocs()
	b.SetBytes(int64(a.Width() * a.Height() * 4))
	b.ResetTimer()

	for b.Loop() {
		if _, err := Read(path); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

func BenchmarkReadUncompressed(b *testing.B) {
	a := benchAtlas(b)
	path := benchInputPath(b, a, &WriteOptions{Format: FormatUncompressed})

	b.ReportAllocs()
	b.SetBytes(int64(a.Width() * a.Height() * 4))
	b.ResetTimer()

	for b.Loop() {
		if _, err := Read(path); err != nil {
			b.Fatalf("read: %v", err)
		}
	}
}

func BenchmarkReadConfig(b *testing.B) {
	path := benchInputPath(b, benchAtlas(b), &WriteOptions{Format: FormatUncompressed})

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if _, err := ReadConfig(path); err != nil {
			b.Fatalf("read config: %v", err)
		}
	}
}
