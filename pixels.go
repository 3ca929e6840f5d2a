package aei

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// isFourChannel reports whether img carries RGBA pixels.
func isFourChannel(img image.Image) bool {
	switch img.ColorModel() {
	case color.NRGBAModel, color.RGBAModel:
		return true
	default:
		return false
	}
}

// copyPixels writes the sr region of src into dst at dp, replacing the
// destination pixels. NRGBA sources are copied row by row so straight alpha
// survives unchanged; anything else goes through x/image/draw.
func copyPixels(dst *image.NRGBA, dp image.Point, src image.Image, sr image.Rectangle) {
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}.Intersect(dst.Rect)
	if dr.Empty() {
		return
	}
	sr = image.Rectangle{Min: sr.Min.Add(dr.Min.Sub(dp)), Max: sr.Min.Add(dr.Max.Sub(dp))}

	s, ok := src.(*image.NRGBA)
	if !ok {
		xdraw.Copy(dst, dr.Min, src, sr, xdraw.Src, nil)
		return
	}

	rowLen := dr.Dx() * 4
	for y := 0; y < dr.Dy(); y++ {
		di := dst.PixOffset(dr.Min.X, dr.Min.Y+y)
		si := s.PixOffset(sr.Min.X, sr.Min.Y+y)
		copy(dst.Pix[di:di+rowLen], s.Pix[si:si+rowLen])
	}
}

// toNRGBA returns a new NRGBA copy of img anchored at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	copyPixels(out, image.Point{}, img, b)

	return out
}

// cropNRGBA returns a copy of the r region of src anchored at the origin.
func cropNRGBA(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	copyPixels(out, image.Point{}, src, r)

	return out
}

// clearRect resets r to fully transparent black.
func clearRect(dst *image.NRGBA, r image.Rectangle) {
	xdraw.Draw(dst, r, image.Transparent, image.Point{}, xdraw.Src)
}

// swapRedBlue exchanges the red and blue channels of img in place.
func swapRedBlue(img *image.NRGBA) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			row[i], row[i+2] = row[i+2], row[i]
		}
	}
}
