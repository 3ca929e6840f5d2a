package aei

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Magic is the token every AEI file starts with.
const Magic = "AEImage\x00"

// WriteOptions configures AEI encoding. Zero fields fall back to the AEI
// defaults and DefaultRegistry.
type WriteOptions struct {
	// Format overrides AEI.Format.
	Format Format
	// Quality overrides AEI.Quality.
	Quality Quality
	// Registry supplies the compressor.
	Registry *Registry
	Logger   hclog.Logger
}

// Write encodes the AEI into a file at path.
func (a *AEI) Write(path string) error {
	return a.WriteWithOptions(path, nil)
}

// WriteWithOptions encodes the AEI into a file at path. The file is only
// created once encoding has succeeded.
func (a *AEI) WriteWithOptions(path string, opts *WriteOptions) error {
	var buf bytes.Buffer
	if err := a.Encode(&buf, opts); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return writeFailure(fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err))
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return writeFailure(err)
	}
	if err := f.Close(); err != nil {
		return writeFailure(err)
	}

	return nil
}

// Encode writes the AEI to w. Nothing is written when encoding fails.
func (a *AEI) Encode(w io.Writer, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}

	data, err := a.encode(opts)
	if err != nil {
		return writeFailure(err)
	}
	if _, err := w.Write(data); err != nil {
		return writeFailure(err)
	}

	return nil
}

func writeFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrWrite, err)
}

func (a *AEI) encode(opts *WriteOptions) ([]byte, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	logger := loggerOrDefault(opts.Logger).Named("write")
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	// a file must declare at least one texture
	textures := a.Textures()
	if len(textures) == 0 {
		textures = []Texture{NewTexture(0, 0, a.width, a.height)}
	}

	format := opts.Format
	if format == FormatUnknown {
		format = a.Format
	}
	if format == FormatUnknown {
		return nil, ErrNoFormat
	}
	if !format.Valid() {
		return nil, &InvalidFormatError{Raw: uint8(format)}
	}

	quality := opts.Quality
	if quality == QualityNone {
		quality = a.Quality
	}
	if !quality.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	logger.Debug("encoding AEI", "format", format, "quality", quality,
		"width", a.width, "height", a.height, "textures", len(textures))

	var buf bytes.Buffer
	if err := a.writeHeader(&buf, format, textures); err != nil {
		return nil, err
	}
	if err := a.writeImageContent(&buf, registry, format, quality); err != nil {
		return nil, err
	}

	// symbol groups are not supported, always zero
	buf.Write(encodeUint16(byteOrder, 0))

	if quality != QualityNone {
		buf.Write(encodeUint8(uint8(quality)))
	}

	logger.Debug("encoded AEI", "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (a *AEI) writeHeader(buf *bytes.Buffer, format Format, textures []Texture) error {
	buf.WriteString(Magic)
	buf.Write(encodeUint8(format.Binary(false)))

	if err := writeUint16s(buf, a.width, a.height, len(textures)); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for _, t := range textures {
		if err := writeUint16s(buf, t.X, t.Y, t.Width, t.Height); err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
	}

	return nil
}

func writeUint16s(buf *bytes.Buffer, values ...int) error {
	for _, v := range values {
		u, err := u16FromInt(v)
		if err != nil {
			return fmt.Errorf("%w: %d", err, v)
		}
		buf.Write(encodeUint16(byteOrder, u))
	}

	return nil
}

func (a *AEI) writeImageContent(buf *bytes.Buffer, registry *Registry, format Format, quality Quality) error {
	compressor, err := registry.Compressor(format)
	if err != nil {
		return err
	}

	// codecs always get a scratch copy, never the atlas itself
	src := toNRGBA(a.image)
	if format.SwapsRedBlue() {
		swapRedBlue(src)
	}

	payload, err := compressor.Compress(src, format, quality)
	if err != nil {
		return fmt.Errorf("%s: %w", compressor.Name(), err)
	}

	if format.IsCompressed() {
		n, err := u32FromInt(len(payload))
		if err != nil {
			return fmt.Errorf("payload length: %w", err)
		}
		buf.Write(encodeUint32(byteOrder, n))
	} else if expected := rawPayloadLength(a.width, a.height); len(payload) != expected {
		return fmt.Errorf("%w: %s: expected %d, got %d", ErrPayloadSize, compressor.Name(), expected, len(payload))
	}

	buf.Write(payload)
	return nil
}
