package cvid

// Strip header tags. Both values appear in the wild regardless of how
// the frame is coded, and any chunk type may follow either; the tag is
// validated but otherwise unused.
const (
	stripTagIntra = 0x1000
	stripTagInter = 0x1100
)

// computeStrip decodes one strip. data covers the whole strip starting
// at its 12-byte header; idx is the strip's position within the frame,
// used to reach the previous strip's record for coordinate
// continuation and codebook carry-over.
func (d *Decoder) computeStrip(idx int, data []byte, interCoded bool) error {
	s := &d.strips[idx]

	s.y0 = int(be16(data[4:]))
	s.x0 = int(be16(data[6:]))
	s.y1 = int(be16(data[8:]))
	s.x1 = int(be16(data[10:]))

	if d.strict {
		// Bounds are validated as decoded, before the continuation
		// rewrite below, matching the reference decoder. Strips that
		// don't start and end on multiples of four are not handled.
		if s.x1 > Width || s.y1 > Height {
			return ErrInvalidData
		}
		if s.x0%4 != 0 || s.x1%4 != 0 || s.y0%4 != 0 || s.y1%4 != 0 {
			return ErrInvalidData
		}
		if s.x0 >= s.x1 || s.y0 >= s.y1 {
			return ErrInvalidData
		}

		if tag := be16(data); tag != stripTagIntra && tag != stripTagInter {
			return ErrInvalidData
		}

		// The caller sized data from this very field.
		if int(be16(data[2:])) != len(data) {
			return ErrInternal
		}
	}

	// A top bound of zero on any strip but the first means the bounds
	// are relative: the strip starts where the previous one ended and
	// the decoded bottom value is its height. Only the vertical axis
	// works this way.
	if s.y0 == 0 && idx > 0 {
		prev := &d.strips[idx-1]
		s.y0 = prev.y1
		s.y1 = prev.y1 + s.y1

		// The raw checks above saw the pre-rewrite values, so the
		// stacked strip needs its own look before anything paints.
		if d.strict && (s.y1 > Height || s.y0 >= s.y1) {
			return ErrInvalidData
		}
	}

	// Inter-coded frames start each strip from the previous strip's
	// codebooks; chunks may then overwrite any part of them.
	if interCoded && idx > 0 {
		prev := &d.strips[idx-1]
		s.v4 = prev.v4
		s.v1 = prev.v1
	}

	for ci := stripHeaderSize; ci != len(data); {
		if d.strict && ci+chunkHeaderSize > len(data) {
			return ErrInvalidData
		}

		tag := be16(data[ci:])
		// The chunk length includes the 4-byte chunk header.
		length := int(be16(data[ci+2:]))

		if d.strict {
			if length < chunkHeaderSize || ci+length > len(data) {
				return ErrInvalidData
			}
		}

		payload := data[ci+chunkHeaderSize : ci+length]

		var err error
		switch tag {
		case 0x2000, 0x2100, 0x2200, 0x2300, 0x2400, 0x2500, 0x2600, 0x2700:
			// Codebook update. Bit 0x0200 picks the V1 table over V4,
			// bit 0x0400 drops the chroma pair (8bpp), bit 0x0100
			// makes the update selective.
			book := &s.v4
			if tag&0x0200 != 0 {
				book = &s.v1
			}
			err = d.computeCodebook(payload, book, tag&0x0400 == 0, tag&0x0100 != 0)

		case 0x3000, 0x3200:
			// Intra vectors; 0x3000 mixes V4 and V1 per selector mask,
			// 0x3200 is uniformly V1.
			err = d.computeIntraVectors(payload, s, tag&0x0200 == 0)

		case 0x3100:
			err = d.computeInterVectors(payload, s)

		default:
			return ErrInvalidData
		}
		if err != nil {
			return err
		}

		ci += length
	}

	return nil
}
