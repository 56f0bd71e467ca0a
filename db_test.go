package quiteok

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/quiteok/qoi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *CatalogDB {
	db, err := NewCatalogDB(filepath.Join(t.TempDir(), "test.db"))
	require.Nil(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestCatalogDB(t *testing.T) {
	db := newTestDB(t)

	c, err := db.FindConversionByPath("/nowhere.qoi")
	require.Nil(t, err)
	assert.Nil(t, c)

	conv := &Conversion{
		Source:      "/images/a.png",
		SHA1:        "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709",
		Path:        "/images/a.qoi",
		Width:       4,
		Height:      2,
		Channels:    qoi.RGBA,
		Colorspace:  qoi.Linear,
		RawSize:     32,
		EncodedSize: 30,
		CRC:         "0A1B2C3D",
		Compressed:  true,
	}
	require.Nil(t, db.AddConversion(conv))
	assert.NotEmpty(t, conv.ID)

	c, err = db.FindConversionByPath("/images/a.qoi")
	require.Nil(t, err)
	assert.Equal(t, conv, c)

	// Same source written somewhere else shares the source row
	other := *conv
	other.ID = ""
	other.Path = "/images/b.qoi"
	other.EncodedSize = 40
	require.Nil(t, db.AddConversion(&other))

	s, err := db.Stats()
	require.Nil(t, err)
	assert.Equal(t, Stats{Conversions: 2, RawSize: 64, EncodedSize: 70}, s)

	// Writing the same path again replaces the earlier record
	again := *conv
	again.ID = ""
	again.CRC = "FFFFFFFF"
	require.Nil(t, db.AddConversion(&again))

	c, err = db.FindConversionByPath("/images/a.qoi")
	require.Nil(t, err)
	assert.Equal(t, "FFFFFFFF", c.CRC)
	assert.NotEqual(t, conv.ID, c.ID)

	s, err = db.Stats()
	require.Nil(t, err)
	assert.Equal(t, 2, s.Conversions)
}

func TestStatsRatio(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.Ratio())
	assert.Equal(t, 0.25, Stats{RawSize: 400, EncodedSize: 100}.Ratio())
}
