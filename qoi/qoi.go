/*
Package qoi implements a QOI ("Quite OK Image") decoder and encoder.

A file is a 14 byte header (the "qoif" magic, big-endian width and height, a
channel count and a colorspace tag) followed by a stream of chunks and an 8
byte end marker. Every pixel is written as the first matching chunk out of a
run of the previous pixel, an index into a 64 entry cache of recently seen
colors, a small or luma-biased difference from the previous pixel, or the raw
RGB or RGBA values.

The encoder and decoder both keep the cache and the previous pixel so the
stream can only be produced and consumed sequentially.
*/
package qoi

import "image"

const (
	// Magic is the four byte tag that starts every QOI stream
	Magic = "qoif"

	headerSize = 14
	cacheSize  = 64
	maxRun     = 62

	// Guards against allocating absurd amounts of memory for a bogus header
	maxPixels = 400000000
)

// Chunk tags, the 2-bit ones occupy the top bits of the first byte
const (
	opIndex byte = 0x00
	opDiff  byte = 0x40
	opLuma  byte = 0x80
	opRun   byte = 0xc0
	opRGB   byte = 0xfe
	opRGBA  byte = 0xff

	opMask byte = 0xc0
)

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

func init() {
	image.RegisterFormat("qoi", Magic, Decode, DecodeConfig)
}
