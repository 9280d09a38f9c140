package cvid

import (
	"encoding/binary"
)

// CVID stores all multi-byte fields big-endian.

func be16(p []byte) uint16 {
	return binary.BigEndian.Uint16(p)
}

func be24(p []byte) uint32 {
	return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

// maskCursor hands out the bits of a sequence of 32-bit big-endian
// words embedded in a chunk payload, MSB first. A fresh word is pulled
// from the payload every 32 bits. The selective codebook update, the
// mixed intra selector mask and the inter instruction stream all use
// this same window.
type maskCursor struct {
	bits uint32
	left int
}

// next returns the next mask bit, refilling the window from the
// payload at *idx when it runs dry.
func (m *maskCursor) next(payload []byte, idx *int, strict bool) (bool, error) {
	if m.left == 0 {
		if strict && len(payload)-*idx < 4 {
			return false, ErrInvalidData
		}

		m.bits = binary.BigEndian.Uint32(payload[*idx:])
		m.left = 32
		*idx += 4
	}

	bit := m.bits&(1<<31) != 0
	m.bits <<= 1
	m.left--

	return bit, nil
}

// rest returns the unconsumed bits of the current window. After a
// selective codebook update these must all be zero, otherwise the mask
// promised entries the payload never carried.
func (m *maskCursor) rest() uint32 {
	return m.bits
}
