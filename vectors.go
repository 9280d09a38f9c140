package cvid

// computeIntraVectors paints every 4x4 cell of the strip from a 0x3000
// or 0x3200 chunk payload. In mixed mode a selector mask word precedes
// every 32 cells: a set bit means the cell is a V4 block with four
// index bytes, a clear bit a V1 block with one. Uniform mode is V1
// throughout and carries no mask.
func (d *Decoder) computeIntraVectors(payload []byte, s *strip, mixed bool) error {
	var sel maskCursor

	idx := 0
	for y := s.y0; y < s.y1; y += 4 {
		for x := s.x0; x < s.x1; x += 4 {
			useV4 := false
			if mixed {
				bit, err := sel.next(payload, &idx, d.strict)
				if err != nil {
					return err
				}
				useV4 = bit
			}

			if useV4 {
				if d.strict && len(payload)-idx < 4 {
					return ErrInvalidData
				}

				s.paintV4(d.fb, payload[idx:idx+4], y, x)
				idx += 4
			} else {
				if d.strict && len(payload)-idx < 1 {
					return ErrInvalidData
				}

				s.paintV1(d.fb, payload[idx], y, x)
				idx++
			}
		}
	}

	if d.strict && idx != len(payload) {
		return ErrInvalidData
	}

	return nil
}

// computeInterVectors paints the strip from a 0x3100 chunk payload.
// Each cell is prefixed by a short instruction code read bit by bit
// from the mask stream: 0 skips the cell (its pixels keep whatever the
// previous frame left there), 10 paints a V1 block, 11 a V4 block.
func (d *Decoder) computeInterVectors(payload []byte, s *strip) error {
	var instr maskCursor

	idx := 0
	for y := s.y0; y < s.y1; y += 4 {
		for x := s.x0; x < s.x1; x += 4 {
			// A zero first bit ends the code immediately; only after a
			// one bit is a second bit read.
			code := 0
			for i := 0; i < 2; i++ {
				bit, err := instr.next(payload, &idx, d.strict)
				if err != nil {
					return err
				}

				code <<= 1
				if bit {
					code |= 1
				}
				if code == 0 {
					break
				}
			}

			switch code {
			case 0b0:
				// Cell unchanged.

			case 0b10:
				if d.strict && len(payload)-idx < 1 {
					return ErrInvalidData
				}

				s.paintV1(d.fb, payload[idx], y, x)
				idx++

			case 0b11:
				if d.strict && len(payload)-idx < 4 {
					return ErrInvalidData
				}

				s.paintV4(d.fb, payload[idx:idx+4], y, x)
				idx += 4

			default:
				// Unreachable by construction; seeing it means the
				// decoder, not the input, is broken.
				return ErrInternal
			}
		}
	}

	if d.strict && idx != len(payload) {
		return ErrInvalidData
	}

	return nil
}

// paintV4 writes a V4 block at cell origin (y, x): one codebook entry
// per index byte, each entry coloring one 2x2 quadrant pixel by pixel
// in the order top-left, top-right, bottom-left, bottom-right.
func (s *strip) paintV4(fb []uint16, indices []byte, y, x int) {
	for q := 0; q < 4; q++ {
		c := &s.v4[indices[q]]

		base := (y+(q>>1)*2)*Width + x + (q&1)*2
		fb[base+0] = c[0]
		fb[base+1] = c[1]
		fb[base+Width+0] = c[2]
		fb[base+Width+1] = c[3]
	}
}

// paintV1 writes a V1 block at cell origin (y, x): one codebook entry
// whose four colors each flood one 2x2 quadrant of the cell.
func (s *strip) paintV1(fb []uint16, index byte, y, x int) {
	c := &s.v1[index]

	for q := 0; q < 4; q++ {
		base := (y+(q>>1)*2)*Width + x + (q&1)*2
		fb[base+0] = c[q]
		fb[base+1] = c[q]
		fb[base+Width+0] = c[q]
		fb[base+Width+1] = c[q]
	}
}
