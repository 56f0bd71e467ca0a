package quiteok

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/quiteok/qoi"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// CatalogDB records every conversion in a SQLite database.
type CatalogDB struct {
	db *sql.DB
}

// Conversion is a single source image written out as QOI.
type Conversion struct {
	ID          string
	Source      string
	SHA1        string
	Path        string
	Width       int
	Height      int
	Channels    qoi.Channels
	Colorspace  qoi.Colorspace
	RawSize     int64
	EncodedSize int64
	CRC         string
	Compressed  bool
}

// Stats summarises the catalog
type Stats struct {
	Conversions int
	RawSize     int64
	EncodedSize int64
}

// Ratio returns the encoded size as a fraction of the raw pixel size
func (s Stats) Ratio() float64 {
	if s.RawSize == 0 {
		return 0
	}
	return float64(s.EncodedSize) / float64(s.RawSize)
}

func NewCatalogDB(file string) (*CatalogDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Scan workers write concurrently and SQLite only has one writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS conversion (id TEXT PRIMARY KEY NOT NULL, source_id INTEGER NOT NULL, source_path TEXT NOT NULL, path TEXT NOT NULL UNIQUE, channels INTEGER NOT NULL, colorspace INTEGER NOT NULL, raw_size INTEGER NOT NULL, encoded_size INTEGER NOT NULL, crc TEXT NOT NULL, compressed INTEGER NOT NULL, FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &CatalogDB{
		db: db,
	}, nil
}

func (db *CatalogDB) Close() error {
	return db.db.Close()
}

func (db *CatalogDB) addSource(sha string, width, height int) (int64, error) {
	if _, err := db.db.Exec("INSERT OR IGNORE INTO source (sha1, width, height) VALUES (?, ?, ?)", sha, width, height); err != nil {
		return 0, err
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// AddConversion records c, replacing any earlier conversion written to the
// same path. A missing ID is generated.
func (db *CatalogDB) AddConversion(c *Conversion) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	source, err := db.addSource(c.SHA1, c.Width, c.Height)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO conversion (id, source_id, source_path, path, channels, colorspace, raw_size, encoded_size, crc, compressed) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", c.ID, source, c.Source, c.Path, c.Channels, c.Colorspace, c.RawSize, c.EncodedSize, c.CRC, c.Compressed); err != nil {
		return err
	}

	return nil
}

// FindConversionByPath returns the conversion written to path, or nil if
// there isn't one
func (db *CatalogDB) FindConversionByPath(path string) (*Conversion, error) {
	var c Conversion
	switch err := db.db.QueryRow("SELECT c.id, c.source_path, s.sha1, c.path, s.width, s.height, c.channels, c.colorspace, c.raw_size, c.encoded_size, c.crc, c.compressed FROM conversion AS c JOIN source AS s ON c.source_id = s.id WHERE c.path = ?", path).Scan(&c.ID, &c.Source, &c.SHA1, &c.Path, &c.Width, &c.Height, &c.Channels, &c.Colorspace, &c.RawSize, &c.EncodedSize, &c.CRC, &c.Compressed); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &c, nil
	default:
		return nil, err
	}
}

// Stats totals every recorded conversion
func (db *CatalogDB) Stats() (Stats, error) {
	var s Stats
	if err := db.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(raw_size), 0), COALESCE(SUM(encoded_size), 0) FROM conversion").Scan(&s.Conversions, &s.RawSize, &s.EncodedSize); err != nil {
		return Stats{}, err
	}
	return s, nil
}
