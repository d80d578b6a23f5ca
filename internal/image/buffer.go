package image

import (
	"image"
	"image/color"
)

// PixelBuffer is an owned, row-major, non-premultiplied RGBA raster.
// It is produced once by the loader and treated as read-only afterwards.
type PixelBuffer struct {
	Width  int
	Height int
	// Pix holds 4 bytes (R, G, B, A) per pixel, row by row.
	Pix []uint8
}

// NewPixelBuffer allocates a fully transparent buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies any image into a new PixelBuffer.
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	buf := NewPixelBuffer(b.Dx(), b.Dy())
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < buf.Height; y++ {
			src := nrgba.Pix[(y+b.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride+(b.Min.X-nrgba.Rect.Min.X)*4:]
			copy(buf.Pix[y*buf.Width*4:(y+1)*buf.Width*4], src[:buf.Width*4])
		}
		return buf
	}
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			buf.SetNRGBA(x, y, c)
		}
	}
	return buf
}

// Len returns the number of pixels in the buffer.
func (b *PixelBuffer) Len() int {
	return b.Width * b.Height
}

// NRGBAAt returns the pixel at (x, y). Out of range coordinates yield a
// transparent pixel.
func (b *PixelBuffer) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	i := (y*b.Width + x) * 4
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// SetNRGBA writes the pixel at (x, y).
func (b *PixelBuffer) SetNRGBA(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Alpha returns the alpha channel of the top-left pixel, the value consumers
// use as the background transparency. An empty buffer reports 0.
func (b *PixelBuffer) Alpha() uint8 {
	if len(b.Pix) < 4 {
		return 0
	}
	return b.Pix[3]
}
