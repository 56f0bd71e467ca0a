package quiteok

import (
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/bodgit/quiteok/qoi"
)

func formatSum(h hash.Hash) string {
	return fmt.Sprintf("%.*X", h.Size()<<1, h.Sum(nil))
}

// crcPixels computes the CRC-32 of the pixels as packed RGBA bytes, it
// doesn't depend on how the pixels were encoded.
func crcPixels(pixels []qoi.Pixel) string {
	h := crc32.NewIEEE()
	buf := make([]byte, 0, 4096)
	for _, p := range pixels {
		buf = append(buf, p.R, p.G, p.B, p.A)
		if len(buf) == cap(buf) {
			h.Write(buf)
			buf = buf[:0]
		}
	}
	h.Write(buf)
	return formatSum(h)
}
