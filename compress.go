package quiteok

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	qoiExt  = ".qoi"
	zstdExt = ".zst"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	return closeAll(rc.closers)
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (wc *writeCloser) Close() error {
	return closeAll(wc.closers)
}

// closeAll closes in order, innermost wrapper first, and returns the first
// error
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// openQOI opens a QOI file which may or may not be wrapped in zstd, this is
// detected from the content rather than the name
func openQOI(file string) (io.ReadCloser, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		f.Close()
		return nil, err
	}

	if !bytes.Equal(magic, zstdMagic) {
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}

	z, err := zstd.NewReader(br)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &readCloser{Reader: z, closers: []io.Closer{zstdReadCloser{z}, f}}, nil
}

// createQOI creates file, wrapping it in zstd if asked or if the name ends
// with .zst
func createQOI(file string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, err
	}

	if !compress && !strings.HasSuffix(file, zstdExt) {
		return f, nil
	}

	z, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &writeCloser{Writer: z, closers: []io.Closer{z, f}}, nil
}

// outputName returns the QOI file name for a source image
func outputName(file string, compress bool) string {
	name := strings.TrimSuffix(file, filepath.Ext(file)) + qoiExt
	if compress {
		name += zstdExt
	}
	return name
}
