/*
Package quiteok is a library for converting images to and from the QOI
format, optionally keeping a catalog of every conversion so the output can
be verified later.
*/
package quiteok

import (
	"io/ioutil"
	"log"
)

// Converter converts and verifies files.
type Converter struct {
	db     *CatalogDB
	cfg    *Config
	logger *log.Logger
}

// New returns a Converter. db may be nil in which case conversions are not
// recorded, a nil cfg or logger uses the defaults.
func New(db *CatalogDB, cfg *Config, logger *log.Logger) *Converter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Converter{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}
