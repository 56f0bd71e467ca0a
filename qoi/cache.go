package qoi

// colorCache holds the last pixel stored in each hash bucket. Colliding
// pixels overwrite each other.
type colorCache [cacheSize]Pixel

func (c *colorCache) lookup(p Pixel) bool {
	return c[p.hash()] == p
}

func (c *colorCache) store(p Pixel) {
	c[p.hash()] = p
}

// state is the running state both the encoder and decoder keep. Every
// pixel passes through exactly one of repeat, indexed or fresh so the two
// sides can never disagree about the cache contents.
type state struct {
	cache colorCache
	prev  Pixel
}

// newState starts with every bucket and the previous pixel holding opaque
// black.
func newState() state {
	s := state{prev: startPixel}
	for i := range s.cache {
		s.cache[i] = startPixel
	}
	return s
}

// repeat handles a pixel covered by a run, nothing changes.
func (s *state) repeat() Pixel {
	return s.prev
}

// indexed handles a pixel that was found in the cache.
func (s *state) indexed(p Pixel) {
	s.prev = p
}

// fresh handles any other pixel, it always replaces its bucket.
func (s *state) fresh(p Pixel) {
	s.cache.store(p)
	s.prev = p
}
