package quiteok

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/quiteok/qoi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, s string) string {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(file, []byte(s), 0644))
	return file
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
workers: 2
extensions: [PNG, .gif]
channels: 4
colorspace: linear
compress: true
`))
	require.Nil(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{".png", ".gif"}, cfg.Extensions)
	assert.True(t, cfg.Compress)
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, DefaultConfig().MaxSize, cfg.MaxSize)
	assert.Equal(t, &qoi.Encoder{Channels: qoi.RGBA, Colorspace: qoi.Linear}, cfg.encoder())
}

func TestLoadConfigInvalid(t *testing.T) {
	tables := []string{
		"workers: 0",
		"channels: 2",
		"colorspace: cmyk",
		"workers: [",
	}

	for _, table := range tables {
		_, err := LoadConfig(writeConfig(t, table))
		assert.NotNil(t, err, table)
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Nil(t, cfg.Validate())
	assert.Equal(t, &qoi.Encoder{}, cfg.encoder())
}
