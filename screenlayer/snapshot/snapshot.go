// Package snapshot saves the contents of video memory as image files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-screenlayer/screenlayer/vram"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format is an output image format
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case PNG, BMP:
		return f, nil
	case "":
		return PNG, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q", name)
	}
}

// ToImage copies the frame into an RGBA image
func ToImage(frame vram.Frame) *image.RGBA {
	res := frame.Resolution()
	img := image.NewRGBA(image.Rect(0, 0, int(res.W), int(res.H)))

	for y := uint32(0); y < res.H; y++ {
		for x := uint32(0); x < res.W; x++ {
			c := frame.ColorAt(x, y)
			i := img.PixOffset(int(x), int(y))
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}

// Encode writes the frame to w, scaled up by an integer factor using nearest
// neighbour sampling so individual pixels stay sharp
func Encode(w io.Writer, frame vram.Frame, format Format, scale int) error {
	var img image.Image = ToImage(frame)
	if scale > 1 {
		b := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		img = scaled
	}

	switch format {
	case PNG, "":
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// SaveToDir saves the frame with a timestamp to a specific directory, or to
// the working directory if directory is empty. It returns the file path.
func SaveToDir(frame vram.Frame, baseName, directory string, format Format, scale int) (string, error) {
	if format == "" {
		format = PNG
	}
	if scale < 1 {
		scale = 1
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", baseName, timestamp, format)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := Encode(file, frame, format, scale); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", format, err)
	}

	res := frame.Resolution()
	slog.Info("Snapshot saved", "path", filePath, "size", res.String(), "scale", scale, "format", string(format))
	return filePath, nil
}

// PrepareDir returns the directory snapshots should go to, creating it if
// needed. An empty directory gets a fresh temporary one.
func PrepareDir(directory string) (string, error) {
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "screenlayer-snapshots-*")
		if err != nil {
			return "", fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		return tempDir, nil
	}

	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return directory, nil
}
