package qoi

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkLayout(t *testing.T) {
	tables := []struct {
		name string
		c    chunk
		b    []byte
	}{
		{"index", chunk{op: opIndex, index: 63}, []byte{0x3f}},
		{"diff low", chunk{op: opDiff, dr: -2, dg: -2, db: -2}, []byte{0x40}},
		{"diff high", chunk{op: opDiff, dr: 1, dg: 1, db: 1}, []byte{0x7f}},
		{"diff mixed", chunk{op: opDiff, dr: -1, dg: 0, db: 1}, []byte{0x5b}},
		{"luma low", chunk{op: opLuma, dr: -8, dg: -32, db: -8}, []byte{0x80, 0x00}},
		{"luma high", chunk{op: opLuma, dr: 7, dg: 31, db: 7}, []byte{0xbf, 0xff}},
		{"luma sample", chunk{op: opLuma, dr: 0, dg: 0, db: -5}, []byte{0xa0, 0x83}},
		{"run shortest", runChunk(1), []byte{0xc0}},
		{"run longest", runChunk(maxRun), []byte{0xfd}},
		{"rgb", chunk{op: opRGB, px: Pixel{1, 2, 3, 0}}, []byte{0xfe, 1, 2, 3}},
		{"rgba", chunk{op: opRGBA, px: Pixel{1, 2, 3, 4}}, []byte{0xff, 1, 2, 3, 4}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.b, table.c.appendTo(nil))

			c, err := readChunk(bufio.NewReader(bytes.NewReader(table.b)))
			require.Nil(t, err)
			assert.Equal(t, table.c, c)
		})
	}
}

func TestReadChunkShort(t *testing.T) {
	tables := [][]byte{
		{},
		{0xfe, 1, 2},
		{0xff, 1, 2, 3},
		{0x80},
	}

	for _, table := range tables {
		_, err := readChunk(bufio.NewReader(bytes.NewReader(table)))
		assert.True(t, isShort(err), "% x: %v", table, err)
	}

	_, err := readChunk(bufio.NewReader(bytes.NewReader(nil)))
	assert.Equal(t, io.EOF, err)
}

func TestChunkPixel(t *testing.T) {
	s := newState()
	s.fresh(Pixel{100, 100, 100, 200})
	s.fresh(Pixel{0, 0, 1, 255})

	tables := []struct {
		name string
		c    chunk
		p    Pixel
	}{
		{"index", chunk{op: opIndex, index: Pixel{100, 100, 100, 200}.hash()}, Pixel{100, 100, 100, 200}},
		{"diff wraps", chunk{op: opDiff, dr: -1, dg: -2, db: 1}, Pixel{255, 254, 2, 255}},
		{"luma", chunk{op: opLuma, dr: 7, dg: -32, db: -8}, Pixel{231, 224, 217, 255}},
		{"rgb keeps alpha", chunk{op: opRGB, px: Pixel{9, 8, 7, 0}}, Pixel{9, 8, 7, 255}},
		{"rgba", chunk{op: opRGBA, px: Pixel{9, 8, 7, 6}}, Pixel{9, 8, 7, 6}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.p, table.c.pixel(&s))
		})
	}
}
