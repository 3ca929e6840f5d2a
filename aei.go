package aei

import (
	"fmt"
	"image"
	"slices"
)

// ClearMode selects whether RemoveTexture resets the texture pixels.
type ClearMode uint8

const (
	// ClearAuto clears the region only if pixels were supplied when the
	// texture was added.
	ClearAuto ClearMode = iota
	ClearAlways
	ClearNever
)

// textureEntry is one atlas texture. hasPixels records whether pixel
// content was supplied with it, as opposed to a metadata-only box sharing
// pixels with other textures.
type textureEntry struct {
	Texture
	hasPixels bool
}

// AEI is an atlas image: one pixel buffer and the texture boxes cut from it.
//
// Format and Quality are the defaults used by Encode when WriteOptions do
// not override them. FormatUnknown and QualityNone mean unset.
type AEI struct {
	Format  Format
	Quality Quality

	width    int
	height   int
	image    *image.NRGBA
	textures []textureEntry
}

// New returns a fully transparent width x height atlas with no textures.
func New(width, height int) (*AEI, error) {
	if err := checkShape(width, height); err != nil {
		return nil, err
	}

	return &AEI{
		width:  width,
		height: height,
		image:  image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// NewFromImage returns an atlas shaped like img holding a copy of its pixels.
// img is not retained.
func NewFromImage(img image.Image) (*AEI, error) {
	b := img.Bounds()
	if err := checkShape(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	return &AEI{
		width:  b.Dx(),
		height: b.Dy(),
		image:  toNRGBA(img),
	}, nil
}

func checkShape(width, height int) error {
	if width < 1 || height < 1 || width > maxUint16 || height > maxUint16 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}

	return nil
}

// Close releases the pixel buffer. It is safe to call more than once.
func (a *AEI) Close() error {
	a.image = nil
	a.textures = nil

	return nil
}

func (a *AEI) checkOpen() error {
	if a.image == nil {
		return ErrClosed
	}

	return nil
}

// Width returns the atlas width in pixels.
func (a *AEI) Width() int {
	return a.width
}

// Height returns the atlas height in pixels.
func (a *AEI) Height() int {
	return a.height
}

// Bounds returns the atlas rectangle.
func (a *AEI) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.width, a.height)
}

// SetShape resizes the atlas. Shrinking fails with ErrShapeShrink when any
// texture would fall outside the new shape. Pixels inside both shapes are
// kept, new area is transparent.
func (a *AEI) SetShape(width, height int) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := checkShape(width, height); err != nil {
		return err
	}

	if width < a.width || height < a.height {
		for _, t := range a.textures {
			if !t.within(width, height) {
				return fmt.Errorf("%w: resizing %dx%d to %dx%d cuts %s",
					ErrShapeShrink, a.width, a.height, width, height, t.Texture)
			}
		}
	}

	if width == a.width && height == a.height {
		return nil
	}

	resized := image.NewNRGBA(image.Rect(0, 0, width, height))
	copyPixels(resized, image.Point{}, a.image, a.image.Rect)
	a.image = resized
	a.width = width
	a.height = height

	return nil
}

// SetWidth is SetShape keeping the height.
func (a *AEI) SetWidth(width int) error {
	return a.SetShape(width, a.height)
}

// SetHeight is SetShape keeping the width.
func (a *AEI) SetHeight(height int) error {
	return a.SetShape(a.width, height)
}

// Image returns a copy of the whole atlas.
func (a *AEI) Image() (*image.NRGBA, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	return toNRGBA(a.image), nil
}

// Textures returns the texture boxes in insertion order.
func (a *AEI) Textures() []Texture {
	out := make([]Texture, len(a.textures))
	for i, t := range a.textures {
		out[i] = t.Texture
	}

	return out
}

// Len returns the number of textures.
func (a *AEI) Len() int {
	return len(a.textures)
}

func (a *AEI) validateBox(tex Texture) error {
	if !tex.within(a.width, a.height) {
		return fmt.Errorf("%w: %s in %dx%d atlas", ErrOutOfBounds, tex, a.width, a.height)
	}

	return nil
}

// find validates tex and returns the index of the entry with the same box,
// or -1.
func (a *AEI) find(tex Texture) (int, error) {
	if err := a.validateBox(tex); err != nil {
		return -1, err
	}

	return slices.IndexFunc(a.textures, func(e textureEntry) bool {
		return e.Texture == tex
	}), nil
}

func checkTextureImage(tex Texture, img image.Image) error {
	b := img.Bounds()
	if b.Size() != tex.Size() {
		return fmt.Errorf("%w: image %dx%d, texture %dx%d", ErrImageSize, b.Dx(), b.Dy(), tex.Width, tex.Height)
	}
	if !isFourChannel(img) {
		return fmt.Errorf("%w: %T", ErrImageMode, img)
	}

	return nil
}

// AddTexture appends tex to the atlas. When img is non-nil it must match the
// texture size and be RGBA; its pixels replace the atlas pixels under the
// box. A nil img records the box only, which allows overlapping textures
// sharing pixels. img is not retained.
func (a *AEI) AddTexture(tex Texture, img image.Image) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	i, err := a.find(tex)
	if err != nil {
		return err
	}
	if i >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateTexture, tex)
	}

	if img != nil {
		if err := checkTextureImage(tex, img); err != nil {
			return err
		}
		copyPixels(a.image, tex.Position(), img, img.Bounds())
	}

	a.textures = append(a.textures, textureEntry{Texture: tex, hasPixels: img != nil})
	return nil
}

// ReplaceTexture overwrites the pixels of an existing texture. The texture
// list is unchanged.
func (a *AEI) ReplaceTexture(tex Texture, img image.Image) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	i, err := a.find(tex)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTextureNotFound, tex)
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrImageSize)
	}
	if err := checkTextureImage(tex, img); err != nil {
		return err
	}

	copyPixels(a.image, tex.Position(), img, img.Bounds())
	return nil
}

// RemoveTexture removes the texture with the same box as tex, clearing its
// pixels according to mode.
func (a *AEI) RemoveTexture(tex Texture, mode ClearMode) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	i, err := a.find(tex)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTextureNotFound, tex)
	}

	entry := a.textures[i]
	a.textures = slices.Delete(a.textures, i, i+1)

	if mode == ClearAlways || (mode == ClearAuto && entry.hasPixels) {
		clearRect(a.image, entry.Rect())
	}

	return nil
}

// Texture returns a copy of the atlas pixels under tex. The box only needs
// to lie inside the atlas, it does not have to be a registered texture.
func (a *AEI) Texture(tex Texture) (*image.NRGBA, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if err := a.validateBox(tex); err != nil {
		return nil, err
	}

	return cropNRGBA(a.image, tex.Rect()), nil
}
