package aei

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// ReadOptions configures AEI decoding.
type ReadOptions struct {
	// Registry supplies the decompressor. Nil uses DefaultRegistry.
	Registry *Registry
	Logger   hclog.Logger
}

// Config is the header of an AEI file.
type Config struct {
	Width     int
	Height    int
	Format    Format
	Mipmapped bool
	Textures  []Texture
}

// ReadConfig reads the AEI header at path without decoding pixel data.
func ReadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, readFailure(fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err))
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(bufio.NewReader(f))
}

// DecodeConfig reads an AEI header from r. Mipmapped files are reported,
// not rejected, and no codec is needed.
func DecodeConfig(r io.Reader) (Config, error) {
	format, mipmapped, err := readFormatHeader(r)
	if err != nil {
		return Config{}, readFailure(err)
	}

	cfg := Config{Format: format, Mipmapped: mipmapped}
	if err := readGeometry(r, &cfg); err != nil {
		return Config{}, readFailure(err)
	}

	return cfg, nil
}

// Read reads and decodes an AEI file.
func Read(path string) (*AEI, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes an AEI file with the given options.
func ReadWithOptions(path string, opts *ReadOptions) (*AEI, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readFailure(fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err))
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f), opts)
}

// Decode reads an AEI from r. Every failure wraps ErrRead together with
// its cause.
func Decode(r io.Reader, opts *ReadOptions) (*AEI, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	a, err := decode(r, opts)
	if err != nil {
		return nil, readFailure(err)
	}

	return a, nil
}

func readFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrRead, err)
}

func decode(r io.Reader, opts *ReadOptions) (*AEI, error) {
	logger := loggerOrDefault(opts.Logger).Named("read")
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	format, mipmapped, err := readFormatHeader(r)
	if err != nil {
		return nil, err
	}
	if mipmapped {
		return nil, fmt.Errorf("%w: mipmapped %s texture", ErrUnsupportedFeature, format)
	}

	decompressor, err := registry.Decompressor(format)
	if err != nil {
		return nil, err
	}

	cfg := Config{Format: format}
	if err := readGeometry(r, &cfg); err != nil {
		return nil, err
	}
	logger.Debug("decoded AEI header", "format", format, "width", cfg.Width, "height", cfg.Height, "textures", len(cfg.Textures))

	img, err := readImageContent(r, decompressor, cfg, mipmapped)
	if err != nil {
		return nil, err
	}

	symbols, err := readUint16(r, byteOrder)
	if err != nil {
		return nil, fmt.Errorf("symbol count: %w", err)
	}
	if symbols != 0 {
		return nil, fmt.Errorf("%w: %d symbol groups", ErrUnsupportedFeature, symbols)
	}

	rawQuality, err := readUint8Default(r, uint8(QualityNone))
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}
	quality, err := qualityFromBinary(rawQuality)
	if err != nil {
		return nil, err
	}

	a, err := NewFromImage(img)
	if err != nil {
		return nil, err
	}
	a.Format = format
	a.Quality = quality

	for _, t := range cfg.Textures {
		if err := a.AddTexture(t, nil); err != nil {
			return nil, err
		}
	}

	logger.Debug("decoded AEI", "quality", quality)
	return a, nil
}

// readFormatHeader checks the magic token and decodes the format byte.
func readFormatHeader(r io.Reader) (Format, bool, error) {
	magic, err := readBytes(r, len(Magic))
	if err != nil {
		return FormatUnknown, false, fmt.Errorf("magic: %w", err)
	}
	if string(magic) != Magic {
		return FormatUnknown, false, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}

	raw, err := readUint8(r)
	if err != nil {
		return FormatUnknown, false, fmt.Errorf("format: %w", err)
	}

	return FormatFromBinary(raw)
}

// readGeometry reads the atlas shape and texture boxes into cfg.
func readGeometry(r io.Reader, cfg *Config) error {
	var dims [3]uint16
	for i := range dims {
		v, err := readUint16(r, byteOrder)
		if err != nil {
			return fmt.Errorf("header: %w", err)
		}
		dims[i] = v
	}

	cfg.Width = int(dims[0])
	cfg.Height = int(dims[1])
	cfg.Textures = make([]Texture, 0, dims[2])

	for i := 0; i < int(dims[2]); i++ {
		var box [4]uint16
		for j := range box {
			v, err := readUint16(r, byteOrder)
			if err != nil {
				return fmt.Errorf("texture %d: %w", i, err)
			}
			box[j] = v
		}
		cfg.Textures = append(cfg.Textures, NewTexture(int(box[0]), int(box[1]), int(box[2]), int(box[3])))
	}

	return nil
}

func readImageContent(r io.Reader, decompressor Decompressor, cfg Config, mipmapped bool) (*image.NRGBA, error) {
	length := rawPayloadLength(cfg.Width, cfg.Height)
	if cfg.Format.IsCompressed() {
		n, err := readUint32(r, byteOrder)
		if err != nil {
			return nil, fmt.Errorf("payload length: %w", err)
		}
		length = int(n)
	}

	if sizer, ok := decompressor.(PayloadSizer); ok {
		n, err := sizer.CompressedLength(length, r, cfg.Format, mipmapped, cfg.Width, cfg.Height)
		if err != nil {
			return nil, fmt.Errorf("%s: payload length: %w", decompressor.Name(), err)
		}
		length = n
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: %d", ErrPayloadSize, length)
	}

	payload, err := readPayload(r, length)
	if err != nil {
		return nil, err
	}

	img, err := decompressor.Decompress(payload, cfg.Format, cfg.Width, cfg.Height, QualityNone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", decompressor.Name(), err)
	}
	if img.Rect.Dx() != cfg.Width || img.Rect.Dy() != cfg.Height {
		return nil, fmt.Errorf("%w: %s decoded %dx%d, want %dx%d",
			ErrImageSize, decompressor.Name(), img.Rect.Dx(), img.Rect.Dy(), cfg.Width, cfg.Height)
	}

	if cfg.Format.SwapsRedBlue() {
		swapRedBlue(img)
	}

	return img, nil
}

// readPayload reads exactly n bytes, growing the buffer as data arrives so a
// bogus length in a short stream cannot force a huge allocation.
func readPayload(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		return nil, fmt.Errorf("%w: payload: want %d bytes, got %d: %v", ErrTruncated, n, got, err)
	}

	return buf.Bytes(), nil
}
