package cvid

import (
	"image"
	"image/color"
	"unsafe"
)

func (d *Decoder) initImage() {
	d.imRGBA = image.RGBA{
		Pix:    make([]byte, Width*Height*4),
		Stride: 4 * Width,
		Rect:   image.Rect(0, 0, Width, Height),
	}
}

// Image returns the framebuffer expanded to an *image.RGBA, each 5-bit
// channel shifted up to 8 bits. The image is owned by the decoder and
// overwritten by the next Image call.
func (d *Decoder) Image() *image.RGBA {
	pix := d.imRGBA.Pix
	for i, p := range d.fb {
		pix[4*i+0] = uint8(p&0x1f) << 3
		pix[4*i+1] = uint8(p>>5&0x1f) << 3
		pix[4*i+2] = uint8(p>>10&0x1f) << 3
		pix[4*i+3] = 0xff
	}

	return &d.imRGBA
}

// Pixels returns the framebuffer as a slice of color.RGBA, backed by
// the same storage as Image.
func (d *Decoder) Pixels() []color.RGBA {
	img := d.Image()
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), len(img.Pix)/4)
}
