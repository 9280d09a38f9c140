// Package cvid implements a Cinepak (CVID) elementary stream decoder.
//
// The input is raw CVID data without a container - no AVI or MOV, just
// frames back to back - at a fixed 320x240 resolution. Frames decode in
// place into a single BGR555 framebuffer owned by the decoder, which
// you can read between decode calls:
//
//	dec := cvid.New(data)
//	for dec.HasNextFrame() {
//	    if err := dec.ComputeFrame(); err != nil {
//	        // handle err
//	    }
//	    show(dec.Framebuffer())
//	}
//
// The framebuffer slice stays valid only until the next ComputeFrame
// call; inter-coded frames overwrite it partially, so copy it out if
// you need to keep a frame around.
//
// Cinepak is a proprietary format, so there's not much documentation to
// go off of. The main sources are Ferguson's description
// (https://multimedia.cx/mirror/cinepak.txt) and the FFmpeg source,
// with FFmpeg taken as the reference where the two differ.
package cvid

import (
	"errors"
	"image"
)

// Dimensions of the supported video, in pixels. CVID itself can carry
// other sizes, but this decoder targets one fixed mode and rejects
// anything else.
const (
	Width  = 320
	Height = 240
)

// Framerate of the raw stream in frames per second. CVID elementary
// streams carry no timing information; presentation pacing is up to
// the player.
const Framerate = 15.0

const (
	maxStrips  = 32  // same cap as FFmpeg
	maxEntries = 256 // entries are indexed by one byte

	frameHeaderSize = 10
	stripHeaderSize = 12
	chunkHeaderSize = 4
)

var (
	// ErrEOF is returned by ComputeFrame once the stream is exhausted.
	// It marks the normal end of the video, not a failure.
	ErrEOF = errors.New("cvid: no more frames")

	// ErrInvalidData is returned for any structural violation of the
	// bitstream: unknown tags, lengths that overrun their container,
	// bad strip bounds, or masks promising data that never arrives.
	ErrInvalidData = errors.New("cvid: invalid data")

	// ErrBadDimensions is returned when a frame header declares a
	// resolution other than 320x240.
	ErrBadDimensions = errors.New("cvid: bad dimensions")

	// ErrInternal is returned when an invariant the decoder itself must
	// uphold is violated. It signals a decoder bug, not bad input.
	ErrInternal = errors.New("cvid: internal decoder fault")
)

// cell is one codebook entry: four packed BGR555 colors. In a V4 block
// each color fills one pixel of a 2x2 quadrant; in a V1 block each
// color floods one whole 2x2 quadrant.
type cell [4]uint16

// strip is one horizontal band of the frame with its own bounds and
// codebooks. Strip records live in a fixed arena inside the Decoder
// and persist across frames, which is what makes codebook carry-over
// between frames work.
type strip struct {
	x0, x1 int
	y0, y1 int

	v4 [maxEntries]cell
	v1 [maxEntries]cell
}

// Decoder decodes one raw CVID stream. It borrows the input buffer,
// keeps a byte cursor into it, and owns the output framebuffer. A
// Decoder is not safe for concurrent use; give each stream its own.
type Decoder struct {
	data []byte
	pos  int

	strict bool

	strips [maxStrips]strip
	fb     []uint16

	imRGBA image.RGBA
}

// New creates a decoder over data, which must hold the complete
// stream. The decoder starts in strict mode; see SetStrict.
func New(data []byte) *Decoder {
	d := &Decoder{}
	d.fb = make([]uint16, Width*Height)
	d.strict = true
	d.initImage()
	d.Reset(data)

	return d
}

// Reset rebinds the decoder to data and rewinds it. The strip records
// and the framebuffer are zeroed, as on a fresh decoder.
func (d *Decoder) Reset(data []byte) {
	d.data = data
	d.Rewind()
}

// Rewind moves the cursor back to the first frame and clears all strip
// records and the framebuffer.
func (d *Decoder) Rewind() {
	d.pos = 0

	for i := range d.strips {
		d.strips[i] = strip{}
	}
	for i := range d.fb {
		d.fb[i] = 0
	}
}

// Strict reports whether strict validation is enabled.
func (d *Decoder) Strict() bool {
	return d.strict
}

// SetStrict toggles strict validation. Strict mode (the default)
// checks every length field, tag and bound and turns malformed input
// into ErrInvalidData.
//
// Disabling it skips all of those checks for speed and is ONLY safe
// for input that has already been validated elsewhere, e.g. checked
// once by a host-side tool before being embedded. Feeding malformed
// data to a non-strict decoder has undefined results, up to and
// including out-of-range panics.
func (d *Decoder) SetStrict(strict bool) {
	d.strict = strict
}

// Framebuffer returns the decoder's 320x240 framebuffer of packed
// BGR555 pixels in row-major order, 5 bits per channel, blue in bits
// 10-14, green in 5-9, red in 0-4, top bit unused. The slice is valid
// for reading until the next ComputeFrame call.
func (d *Decoder) Framebuffer() []uint16 {
	return d.fb
}

// HasNextFrame reports whether any undecoded data remains.
func (d *Decoder) HasNextFrame() bool {
	return d.pos < len(d.data)
}

func (d *Decoder) remaining() int {
	return len(d.data) - d.pos
}

// ComputeFrame decodes the next frame into the framebuffer and
// advances the cursor past it. It returns ErrEOF when no data remains.
// On any other error the frame is abandoned where it stands and the
// framebuffer may be partially updated.
func (d *Decoder) ComputeFrame() error {
	if !d.HasNextFrame() {
		return ErrEOF
	}

	if d.strict && d.remaining() < frameHeaderSize {
		return ErrInvalidData
	}

	header := d.data[d.pos:]

	if d.strict {
		if int(be16(header[4:])) != Width || int(be16(header[6:])) != Height {
			return ErrBadDimensions
		}
	}

	// Flags bit 0 clear means the frame is inter-coded and strips may
	// inherit the previous strip's codebooks.
	interCoded := header[0]&0x01 == 0
	stripCount := int(be16(header[8:]))

	// The declared frame length includes this header.
	frameStart := d.pos
	frameLength := int(be24(header[1:]))
	if d.strict && frameLength < frameHeaderSize {
		return ErrInvalidData
	}

	d.pos += frameHeaderSize

	if d.strict && stripCount > maxStrips {
		return ErrInvalidData
	}

	if stripCount == 0 {
		return nil
	}

	for i := 0; i < stripCount; i++ {
		if d.strict && d.remaining() < stripHeaderSize {
			return ErrInvalidData
		}

		// The strip length includes the strip header.
		stripLength := int(be16(d.data[d.pos+2:]))
		if d.strict {
			if stripLength < stripHeaderSize || stripLength > d.remaining() {
				return ErrInvalidData
			}
		}

		err := d.computeStrip(i, d.data[d.pos:d.pos+stripLength], interCoded)
		if err != nil {
			return err
		}

		d.pos += stripLength
	}

	if d.strict && d.pos != frameStart+frameLength {
		return ErrInvalidData
	}

	return nil
}
