package aei

import (
	"fmt"
	"image"
	"io"
	"runtime"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Direction selects compression or decompression in the codec registry.
type Direction uint8

const (
	DirectionCompress Direction = iota
	DirectionDecompress
)

func (d Direction) String() string {
	switch d {
	case DirectionCompress:
		return "compress"
	case DirectionDecompress:
		return "decompress"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Codec is a pixel payload backend. A codec declares its capabilities by
// also implementing Compressor, Decompressor or both.
type Codec interface {
	Name() string
}

// Compressor encodes a 4-channel atlas into a payload for one format.
// Implementations must not retain img.
type Compressor interface {
	Codec
	Compress(img *image.NRGBA, format Format, quality Quality) ([]byte, error)
}

// Decompressor decodes a payload back into a width x height atlas.
// Implementations must not retain data.
type Decompressor interface {
	Codec
	Decompress(data []byte, format Format, width, height int, quality Quality) (*image.NRGBA, error)
}

// PayloadSizer lets a decompressor override the number of payload bytes to
// read when the declared length cannot be trusted. r is positioned at the
// start of the payload and must not be consumed.
type PayloadSizer interface {
	CompressedLength(declared int, r io.Reader, format Format, mipmapped bool, width, height int) (int, error)
}

// Support lists the formats a codec handles, for Registry.Supports.
type Support struct {
	Compresses   []Format
	Decompresses []Format
	Both         []Format
	// NotOnPlatforms lists GOOS values where the registration is skipped.
	NotOnPlatforms []string
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Platform overrides runtime.GOOS for platform exclusions.
	Platform string
	// Logger receives registration and lookup traces.
	Logger hclog.Logger
}

type registration struct {
	format         Format
	notOnPlatforms []string
	codec          Codec
}

// Registry maps formats and directions to codecs. Registration order is
// priority order.
type Registry struct {
	mu            sync.RWMutex
	platform      string
	logger        hclog.Logger
	compressors   []registration
	decompressors []registration
}

// NewRegistry returns an empty registry. Nil opts uses the host platform.
func NewRegistry(opts *RegistryOptions) *Registry {
	r := &Registry{platform: runtime.GOOS}
	var logger hclog.Logger
	if opts != nil {
		if opts.Platform != "" {
			r.platform = opts.Platform
		}
		logger = opts.Logger
	}
	r.logger = loggerOrDefault(logger).Named("codecs")

	return r
}

// Platform returns the platform used for exclusion checks.
func (r *Registry) Platform() string {
	return r.platform
}

// Register adds codec for format in direction dir, unless the registry
// platform is listed in notOnPlatforms at lookup time.
func (r *Registry) Register(format Format, dir Direction, notOnPlatforms []string, codec Codec) error {
	if codec == nil {
		return fmt.Errorf("%w: nil codec", ErrCodecCapability)
	}
	if !format.Valid() || format == FormatUnknown {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidFormat, uint8(format))
	}

	reg := registration{
		format:         format,
		notOnPlatforms: slices.Clone(notOnPlatforms),
		codec:          codec,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch dir {
	case DirectionCompress:
		if _, ok := codec.(Compressor); !ok {
			return fmt.Errorf("%w: %s cannot compress", ErrCodecCapability, codec.Name())
		}
		r.compressors = append(r.compressors, reg)
	case DirectionDecompress:
		if _, ok := codec.(Decompressor); !ok {
			return fmt.Errorf("%w: %s cannot decompress", ErrCodecCapability, codec.Name())
		}
		r.decompressors = append(r.decompressors, reg)
	default:
		return fmt.Errorf("%w: %s", ErrCodecCapability, dir)
	}

	r.logger.Trace("registered codec", "codec", codec.Name(), "format", format, "direction", dir, "not_on", notOnPlatforms)
	return nil
}

// Supports registers codec for every format in s, compresses first, then
// decompresses, then both directions.
func (r *Registry) Supports(codec Codec, s Support) error {
	for _, f := range s.Compresses {
		if err := r.Register(f, DirectionCompress, s.NotOnPlatforms, codec); err != nil {
			return err
		}
	}
	for _, f := range s.Decompresses {
		if err := r.Register(f, DirectionDecompress, s.NotOnPlatforms, codec); err != nil {
			return err
		}
	}
	for _, f := range s.Both {
		if err := r.Register(f, DirectionCompress, s.NotOnPlatforms, codec); err != nil {
			return err
		}
		if err := r.Register(f, DirectionDecompress, s.NotOnPlatforms, codec); err != nil {
			return err
		}
	}

	return nil
}

// CodecFor returns the highest priority codec for format and dir on the
// registry platform.
func (r *Registry) CodecFor(format Format, dir Direction) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []registration
	switch dir {
	case DirectionCompress:
		list = r.compressors
	case DirectionDecompress:
		list = r.decompressors
	}

	for _, reg := range list {
		if reg.format != format {
			continue
		}
		if slices.Contains(reg.notOnPlatforms, r.platform) {
			r.logger.Trace("skipping excluded codec", "codec", reg.codec.Name(), "format", format, "platform", r.platform)
			continue
		}

		r.logger.Debug("selected codec", "codec", reg.codec.Name(), "format", format, "direction", dir)
		return reg.codec, nil
	}

	return nil, &UnsupportedFormatError{Format: format, Direction: dir, Platform: r.platform}
}

// Compressor returns the compressor for format.
func (r *Registry) Compressor(format Format) (Compressor, error) {
	c, err := r.CodecFor(format, DirectionCompress)
	if err != nil {
		return nil, err
	}

	return c.(Compressor), nil
}

// Decompressor returns the decompressor for format.
func (r *Registry) Decompressor(format Format) (Decompressor, error) {
	c, err := r.CodecFor(format, DirectionDecompress)
	if err != nil {
		return nil, err
	}

	return c.(Decompressor), nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-in
// codecs: RawCodec for the uncompressed formats, then BCnCodec for DXT1,
// DXT3 and DXT5. Codecs registered on it later get lower priority.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
		registerBuiltinCodecs(defaultRegistry)
	})

	return defaultRegistry
}

func registerBuiltinCodecs(r *Registry) {
	builtin := []struct {
		codec   Codec
		support Support
	}{
		{
			codec: RawCodec{},
			support: Support{Both: []Format{
				FormatUncompressedUI,
				FormatUncompressed,
				FormatUncompressedCubeMapPC,
				FormatUncompressedCubeMap,
			}},
		},
		{
			codec:   &BCnCodec{},
			support: Support{Both: []Format{FormatDXT1, FormatDXT3, FormatDXT5}},
		},
	}

	for _, b := range builtin {
		if err := r.Supports(b.codec, b.support); err != nil {
			// static table, cannot fail
			panic(err)
		}
	}
}
