package qoi

import "bufio"

// chunk is one decoded or about to be encoded unit of the stream. Only the
// fields relevant to op are used.
type chunk struct {
	op byte

	// opRun, 1 to maxRun
	run int

	// opIndex
	index uint8

	// opDiff stores the per-channel differences. opLuma stores the green
	// difference in dg and the red and blue differences minus dg in dr and
	// db.
	dr, dg, db int8

	// opRGB, opRGBA
	px Pixel
}

func runChunk(n int) chunk {
	return chunk{op: opRun, run: n}
}

func indexChunk(p Pixel) chunk {
	return chunk{op: opIndex, index: p.hash()}
}

func between(v, lo, hi int8) bool {
	return lo <= v && v <= hi
}

// deltaChunk picks the smallest chunk that turns prev into p. Differences
// wrap around in 8 bits.
func deltaChunk(prev, p Pixel) chunk {
	if p.A != prev.A {
		return chunk{op: opRGBA, px: p}
	}

	dr := int8(p.R - prev.R)
	dg := int8(p.G - prev.G)
	db := int8(p.B - prev.B)

	if between(dr, -2, 1) && between(dg, -2, 1) && between(db, -2, 1) {
		return chunk{op: opDiff, dr: dr, dg: dg, db: db}
	}

	drDg, dbDg := dr-dg, db-dg
	if between(dg, -32, 31) && between(drDg, -8, 7) && between(dbDg, -8, 7) {
		return chunk{op: opLuma, dr: drDg, dg: dg, db: dbDg}
	}

	return chunk{op: opRGB, px: p}
}

// pixel reconstructs the pixel for any chunk other than a run.
func (c chunk) pixel(s *state) Pixel {
	prev := s.prev
	switch c.op {
	case opIndex:
		return s.cache[c.index]
	case opDiff:
		return Pixel{
			R: prev.R + uint8(c.dr),
			G: prev.G + uint8(c.dg),
			B: prev.B + uint8(c.db),
			A: prev.A,
		}
	case opLuma:
		return Pixel{
			R: prev.R + uint8(c.dg+c.dr),
			G: prev.G + uint8(c.dg),
			B: prev.B + uint8(c.dg+c.db),
			A: prev.A,
		}
	case opRGB:
		return Pixel{c.px.R, c.px.G, c.px.B, prev.A}
	default:
		return c.px
	}
}

func (c chunk) appendTo(b []byte) []byte {
	switch c.op {
	case opIndex:
		return append(b, opIndex|c.index)
	case opDiff:
		return append(b, opDiff|uint8(c.dr+2)<<4|uint8(c.dg+2)<<2|uint8(c.db+2))
	case opLuma:
		return append(b, opLuma|uint8(c.dg+32), uint8(c.dr+8)<<4|uint8(c.db+8))
	case opRun:
		return append(b, opRun|uint8(c.run-1))
	case opRGB:
		return append(b, opRGB, c.px.R, c.px.G, c.px.B)
	default:
		return append(b, opRGBA, c.px.R, c.px.G, c.px.B, c.px.A)
	}
}

// readChunk unpacks the next chunk. The 8-bit tags are checked first as
// they would otherwise look like runs.
func readChunk(r *bufio.Reader) (chunk, error) {
	b, err := r.ReadByte()
	if err != nil {
		return chunk{}, err
	}

	var tmp [4]byte
	switch b {
	case opRGB:
		if err := readFull(r, tmp[:3]); err != nil {
			return chunk{}, err
		}
		return chunk{op: opRGB, px: Pixel{R: tmp[0], G: tmp[1], B: tmp[2]}}, nil
	case opRGBA:
		if err := readFull(r, tmp[:4]); err != nil {
			return chunk{}, err
		}
		return chunk{op: opRGBA, px: Pixel{tmp[0], tmp[1], tmp[2], tmp[3]}}, nil
	}

	switch b & opMask {
	case opIndex:
		return chunk{op: opIndex, index: b &^ opMask}, nil
	case opDiff:
		return chunk{
			op: opDiff,
			dr: int8(b>>4&0x03) - 2,
			dg: int8(b>>2&0x03) - 2,
			db: int8(b&0x03) - 2,
		}, nil
	case opLuma:
		b2, err := r.ReadByte()
		if err != nil {
			return chunk{}, err
		}
		return chunk{
			op: opLuma,
			dr: int8(b2>>4) - 8,
			dg: int8(b&^opMask) - 32,
			db: int8(b2&0x0f) - 8,
		}, nil
	default:
		return runChunk(int(b&^opMask) + 1), nil
	}
}
