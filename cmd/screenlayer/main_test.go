package main

import (
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, args ...string) error {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return newApp().Run(append([]string{"screenlayer"}, args...))
}

func TestHeadlessRunSavesSnapshots(t *testing.T) {
	dir := t.TempDir()

	err := runArgs(t,
		"--backend", "headless",
		"--width", "32", "--height", "24", "--bpp", "24",
		"--frames", "5",
		"--script", "right*2,next,down",
		"--snapshot-interval", "2",
		"--snapshot-dir", dir,
		"--snapshot-format", "bmp",
	)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "screenlayer_frame_*.bmp"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestHeadlessWithImage(t *testing.T) {
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{G: 0xFF, A: 0xFF})
	imgPath := filepath.Join(dir, "sprite.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	err = runArgs(t,
		"--backend", "headless",
		"--frames", "1",
		"--image", imgPath,
		"--snapshot-interval", "1",
		"--snapshot-dir", dir,
	)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "sprite_frame_1_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"headless without frames", []string{"--backend", "headless"}},
		{"bad bit depth", []string{"--backend", "headless", "--frames", "1", "--bpp", "16"}},
		{"bad script", []string{"--backend", "headless", "--frames", "1", "--script", "jump"}},
		{"bad format", []string{"--backend", "headless", "--frames", "1", "--snapshot-format", "gif"}},
		{"unknown backend", []string{"--backend", "vga"}},
		{"missing image", []string{"--backend", "headless", "--frames", "1", "--image", "/nonexistent.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, runArgs(t, tt.args...))
		})
	}
}
