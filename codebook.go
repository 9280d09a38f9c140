package cvid

// computeCodebook decodes a run of codebook entries from a 0x2n00
// chunk payload into book. In 12bpp mode each entry is six bytes, four
// luma samples plus a shared signed chroma pair; in 8bpp mode the
// chroma pair is omitted and taken as zero. When selective, a 32-bit
// mask word precedes every 32 entries and a clear bit leaves that
// entry's previous contents in place without consuming payload.
func (d *Decoder) computeCodebook(payload []byte, book *[maxEntries]cell, bpp12, selective bool) error {
	var mask maskCursor

	idx := 0
	for entry := 0; idx < len(payload); entry++ {
		// Checked before the mask bit so skipped entries can't walk the
		// index past the table either.
		if d.strict && entry >= maxEntries {
			return ErrInvalidData
		}

		if selective {
			update, err := mask.next(payload, &idx, d.strict)
			if err != nil {
				return err
			}
			if !update {
				continue
			}
		}

		if bpp12 {
			if d.strict && len(payload)-idx < 6 {
				return ErrInvalidData
			}

			u := int8(payload[idx+4])
			v := int8(payload[idx+5])
			book[entry] = cell{
				yuvToBGR555(payload[idx+0], u, v),
				yuvToBGR555(payload[idx+1], u, v),
				yuvToBGR555(payload[idx+2], u, v),
				yuvToBGR555(payload[idx+3], u, v),
			}

			idx += 6
		} else {
			if d.strict && len(payload)-idx < 4 {
				return ErrInvalidData
			}

			book[entry] = cell{
				yuvToBGR555(payload[idx+0], 0, 0),
				yuvToBGR555(payload[idx+1], 0, 0),
				yuvToBGR555(payload[idx+2], 0, 0),
				yuvToBGR555(payload[idx+3], 0, 0),
			}

			idx += 4
		}
	}

	// A set bit still pending in the mask window means the mask
	// announced entries the payload ran out before delivering.
	if d.strict && selective && mask.rest() != 0 {
		return ErrInvalidData
	}

	return nil
}

// yuvToBGR555 converts one luma sample and a signed chroma pair to a
// packed BGR555 color. The chroma samples being signed is not in the
// format's documentation, but it is what the reference does.
func yuvToBGR555(y uint8, u, v int8) uint16 {
	// Widen before the matrix multiply so nothing overflows.
	yp := int(y)
	up := int(u)
	vp := int(v)

	r := clamp255(yp + 2*vp)
	g := clamp255(yp - up/2 - vp)
	b := clamp255(yp + 2*up)

	return uint16(b>>3)<<10 | uint16(g>>3)<<5 | uint16(r>>3)
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}

	return v
}
