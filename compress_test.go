package quiteok

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQOIContainer(t *testing.T) {
	dir := t.TempDir()
	data := []byte("qoif not really an image")

	tables := []struct {
		name     string
		compress bool
		zstd     bool
	}{
		{"plain.qoi", false, false},
		{"forced.qoi", true, true},
		{"named.qoi.zst", false, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			file := filepath.Join(dir, table.name)

			w, err := createQOI(file, table.compress)
			require.Nil(t, err)
			_, err = w.Write(data)
			require.Nil(t, err)
			require.Nil(t, w.Close())

			raw, err := ioutil.ReadFile(file)
			require.Nil(t, err)
			assert.Equal(t, table.zstd, len(raw) >= 4 && string(raw[:4]) == string(zstdMagic))

			r, err := openQOI(file)
			require.Nil(t, err)
			b, err := ioutil.ReadAll(r)
			require.Nil(t, err)
			require.Nil(t, r.Close())
			assert.Equal(t, data, b)
		})
	}
}

func TestOpenQOIShort(t *testing.T) {
	file := filepath.Join(t.TempDir(), "short.qoi")
	require.Nil(t, ioutil.WriteFile(file, []byte{1, 2}, 0644))

	r, err := openQOI(file)
	require.Nil(t, err)
	b, err := ioutil.ReadAll(r)
	require.Nil(t, err)
	assert.Equal(t, []byte{1, 2}, b)
	require.Nil(t, r.Close())

	_, err = openQOI(filepath.Join(t.TempDir(), "missing.qoi"))
	assert.True(t, os.IsNotExist(err))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "/a/b.qoi", outputName("/a/b.PNG", false))
	assert.Equal(t, "/a/b.c.qoi.zst", outputName("/a/b.c.jpeg", true))
}
