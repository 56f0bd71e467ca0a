package quiteok

import (
	"errors"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/bodgit/quiteok/qoi"
	"sigs.k8s.io/yaml"
)

// Config controls how images are converted.
type Config struct {
	// Workers is the number of files converted concurrently by Scan
	Workers int `json:"workers"`
	// Extensions lists the source file extensions Scan picks up
	Extensions []string `json:"extensions"`
	// Channels is 0 to detect from the image, otherwise 3 or 4
	Channels int `json:"channels"`
	// Colorspace is either "srgb" or "linear"
	Colorspace string `json:"colorspace"`
	// Compress wraps the output in zstd
	Compress bool `json:"compress"`
	// Overwrite converts sources even if the output already exists
	Overwrite bool `json:"overwrite"`
	// MaxSize is the largest source file in bytes Scan will convert
	MaxSize int64 `json:"maxSize"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Workers:    4,
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif"},
		Colorspace: "srgb",
		MaxSize:    64 << (10 * 2),
	}
}

// LoadConfig reads a YAML configuration file, anything not set keeps its
// default value
func LoadConfig(file string) (*Config, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return cfg, nil
}

// Validate checks the configuration and normalizes the extensions
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	switch c.Channels {
	case 0, int(qoi.RGB), int(qoi.RGBA):
	default:
		return fmt.Errorf("invalid channels %d", c.Channels)
	}
	if _, err := c.colorspace(); err != nil {
		return err
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	return nil
}

func (c *Config) colorspace() (qoi.Colorspace, error) {
	switch strings.ToLower(c.Colorspace) {
	case "", "srgb":
		return qoi.SRGB, nil
	case "linear":
		return qoi.Linear, nil
	default:
		return 0, fmt.Errorf("invalid colorspace %q", c.Colorspace)
	}
}

func (c *Config) encoder() *qoi.Encoder {
	cs, _ := c.colorspace()
	return &qoi.Encoder{
		Channels:   qoi.Channels(c.Channels),
		Colorspace: cs,
	}
}
