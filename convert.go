package quiteok

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/quiteok/qoi"
)

var (
	errNoCatalog        = errors.New("no catalog database")
	errNotCataloged     = errors.New("file is not in the catalog")
	errChecksumMismatch = errors.New("pixel checksum mismatch")
)

func readQOI(file string) (qoi.Header, []qoi.Pixel, error) {
	r, err := openQOI(file)
	if err != nil {
		return qoi.Header{}, nil, err
	}
	defer r.Close()

	return qoi.DecodePixels(r)
}

// Info returns the header of a QOI file
func Info(file string) (qoi.Header, error) {
	r, err := openQOI(file)
	if err != nil {
		return qoi.Header{}, err
	}
	defer r.Close()

	return qoi.DecodeHeader(r)
}

func (c *Converter) writeQOI(dst string, compress bool, m image.Image) error {
	w, err := createQOI(dst, compress)
	if err != nil {
		return err
	}

	if err := c.cfg.encoder().Encode(w, m); err != nil {
		w.Close()
		os.Remove(dst)
		return err
	}

	if err := w.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return nil
}

// catalog reads back the freshly written dst and records it against src.
func (c *Converter) catalog(src, dst, sum string, compress bool) (*Conversion, error) {
	header, pixels, err := readQOI(dst)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dst, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, err
	}

	conv := &Conversion{
		Source:      src,
		SHA1:        sum,
		Path:        dst,
		Width:       int(header.Width),
		Height:      int(header.Height),
		Channels:    header.Channels,
		Colorspace:  header.Colorspace,
		RawSize:     int64(len(pixels)) * int64(header.Channels),
		EncodedSize: info.Size(),
		CRC:         crcPixels(pixels),
		Compressed:  compress,
	}

	if c.db != nil {
		if err := c.db.AddConversion(conv); err != nil {
			return nil, err
		}
	}

	return conv, nil
}

// EncodeFile converts the image in src to QOI and writes it to dst. The
// output is read back to record its checksum in the catalog.
func (c *Converter) EncodeFile(src, dst string) (*Conversion, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return nil, err
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	tee := io.TeeReader(f, h)
	m, format, err := image.Decode(tee)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	// Hash anything the decoder didn't need
	if _, err := io.Copy(ioutil.Discard, tee); err != nil {
		return nil, err
	}

	compress := c.cfg.Compress || strings.HasSuffix(dst, zstdExt)
	if err := c.writeQOI(dst, compress, m); err != nil {
		return nil, fmt.Errorf("%s: %w", dst, err)
	}

	conv, err := c.catalog(src, dst, formatSum(h), compress)
	if err != nil {
		// Nothing uncataloged is left behind
		os.Remove(dst)
		return nil, err
	}

	c.logger.Printf("Encoded \"%s\" (%s, %dx%d) to \"%s\", %d bytes\n", src, format, conv.Width, conv.Height, dst, conv.EncodedSize)

	return conv, nil
}

// DecodeFile converts the QOI file src, optionally zstd compressed, to a
// PNG file dst
func (c *Converter) DecodeFile(src, dst string) error {
	r, err := openQOI(src)
	if err != nil {
		return err
	}
	defer r.Close()

	m, err := qoi.Decode(r)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := png.Encode(f, m); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	c.logger.Printf("Decoded \"%s\" to \"%s\"\n", src, dst)

	return nil
}

// Verify decodes file and checks its pixels against the checksum recorded
// when it was written
func (c *Converter) Verify(file string) error {
	if c.db == nil {
		return errNoCatalog
	}

	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	conv, err := c.db.FindConversionByPath(file)
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("%s: %w", file, errNotCataloged)
	}

	_, pixels, err := readQOI(file)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if crc := crcPixels(pixels); crc != conv.CRC {
		return fmt.Errorf("%s: %w: expected %s, actual %s", file, errChecksumMismatch, conv.CRC, crc)
	}

	c.logger.Printf("Verified \"%s\" against \"%s\"\n", file, conv.Source)

	return nil
}
