package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/evotri/evotri"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError), []string{"-in", "a.png", "-out", "b.png"})
	require.NoError(t, err)

	cfg, err := opts.engineConfig()
	require.NoError(t, err)
	assert.Equal(t, evotri.DefaultConfig().Mu, cfg.Mu)
	assert.Equal(t, methodEA, opts.Method)
	assert.Equal(t, evotri.MethodGaussian, opts.localSearchOptions().Method)
	assert.Nil(t, cfg.Outline)
}

func TestParseOptionsFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evotri.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mu = 30
ngen = 12
selection = "tournament"
outline = "#ff8000"
`), 0o644))

	opts, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError), []string{"-config", path, "-mu", "7"})
	require.NoError(t, err)
	assert.Equal(t, 7, opts.Mu)
	assert.Equal(t, 12, opts.NGen)
	assert.Equal(t, evotri.SelectTournament, opts.Selection)

	cfg, err := opts.engineConfig()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, cfg.Outline)
}

func TestParseOptionsMissingConfigFile(t *testing.T) {
	_, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError), []string{"-config", filepath.Join(t.TempDir(), "nope.toml")})
	assert.Error(t, err)
}

func TestEngineConfigValidates(t *testing.T) {
	opts, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError), []string{"-selection", "roulette"})
	require.NoError(t, err)
	_, err = opts.engineConfig()
	assert.ErrorIs(t, err, evotri.ErrConfig)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 11, B: 12, A: 255}, c)

	c, err = parseHexColor("ffffff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c)

	_, err = parseHexColor("#fff")
	assert.Error(t, err)
	_, err = parseHexColor("#gggggg")
	assert.Error(t, err)
}

func TestSaveIgnoresEngineOptions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	opts, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError),
		[]string{"-method", "local_search", "-selection", "roulette", "-out", out})
	require.NoError(t, err)

	ref, err := evotri.NewReference(image.NewNRGBA(image.Rect(0, 0, 6, 4)), evotri.RefOptions{EdgeThreshold: -1})
	require.NoError(t, err)

	require.NoError(t, save(opts, ref, []int{2, 1, 4, 3}))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	opts.Outline = "#12"
	assert.Error(t, save(opts, ref, []int{2, 1}))
}

func TestLocalSearchOptionsCarryEdgeRate(t *testing.T) {
	opts, err := parseOptions(flag.NewFlagSet("evotri", flag.ContinueOnError), []string{"-edge-rate", "0.25", "-denoise", "0"})
	require.NoError(t, err)
	assert.Equal(t, 0.25, opts.localSearchOptions().EdgeRate)
	assert.Equal(t, 0, opts.refOptions().Denoise)
}
