package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-screenlayer/screenlayer"
	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/backend/headless"
	"github.com/valerio/go-screenlayer/screenlayer/backend/sdl2"
	"github.com/valerio/go-screenlayer/screenlayer/backend/terminal"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/input"
	"github.com/valerio/go-screenlayer/screenlayer/scene"
	"github.com/valerio/go-screenlayer/screenlayer/snapshot"
	"github.com/valerio/go-screenlayer/screenlayer/timing"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
	_ "golang.org/x/image/bmp"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		slog.Error("Error running screenlayer", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "screenlayer"
	app.Description = "Layered framebuffer compositor demo"
	app.Usage = "screenlayer [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "Screen width in pixels",
			Value: 160,
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "Screen height in pixels",
			Value: 96,
		},
		cli.IntFlag{
			Name:  "bpp",
			Usage: "Bits per pixel of the pseudo VRAM (24 or 32)",
			Value: 32,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Output backend: terminal, headless or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "Actions replayed one per frame in headless mode, e.g. \"right*3,next,down\"",
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "Frames per second for interactive backends",
			Value: timing.DefaultFPS,
		},
		cli.IntFlag{
			Name:  "step",
			Usage: "Pixels a layer slides per movement action",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "image",
			Usage: "PNG or BMP file added as the topmost layer",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save snapshots (default: temp directory in headless mode, current directory otherwise)",
		},
		cli.StringFlag{
			Name:  "snapshot-format",
			Usage: "Snapshot image format: png or bmp",
			Value: string(snapshot.PNG),
		},
		cli.IntFlag{
			Name:  "snapshot-scale",
			Usage: "Integer upscale factor for snapshots and the SDL2 window",
			Value: 1,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runDemo
	return app
}

func runDemo(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("debug") {
		logLevel = slog.LevelDebug
	}

	bpp := c.Int("bpp")
	if bpp != vram.BitsPerPixel24 && bpp != vram.BitsPerPixel32 {
		return fmt.Errorf("unsupported bit depth %d, use 24 or 32", bpp)
	}
	width, height := c.Int("width"), c.Int("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", width, height)
	}

	format, err := snapshot.ParseFormat(c.String("snapshot-format"))
	if err != nil {
		return err
	}

	snapConfig := backend.SnapshotConfig{
		Interval:  c.Int("snapshot-interval"),
		Directory: c.String("snapshot-dir"),
		Format:    string(format),
		Scale:     c.Int("snapshot-scale"),
		BaseName:  "screenlayer",
	}

	var img image.Image
	if path := c.String("image"); path != "" {
		img, err = loadImage(path)
		if err != nil {
			return err
		}
		snapConfig.BaseName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	b, handler, limiter, err := buildBackend(c, logLevel, &snapConfig)
	if err != nil {
		return err
	}

	res := geom.Sz(uint32(width), uint32(height))
	ctrl := screenlayer.NewWithMemory(res, uint32(bpp), make(vram.Buffer, vram.Len(res, uint32(bpp))))

	s, err := scene.New(ctrl, scene.Options{
		Title:    c.App.Name,
		Step:     c.Int("step"),
		Image:    img,
		ImageAt:  geom.Pt(width/2, height/4),
		Snapshot: snapConfig,
		Input:    handler,
	})
	if err != nil {
		return err
	}

	err = b.Init(backend.Config{
		Title:    c.App.Name,
		Scale:    snapConfig.Scale,
		Status:   s.Status,
		Snapshot: snapConfig,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	err = s.Run(context.Background(), b, limiter)
	if stopper, ok := limiter.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if err != nil {
		return err
	}

	if paths := s.Snapshots(); len(paths) > 0 {
		slog.Info("Snapshots saved", "count", len(paths), "last", paths[len(paths)-1])
	}
	return nil
}

// buildBackend picks the backend named by --backend, along with the input
// handler and frame limiter that suit it.
func buildBackend(c *cli.Context, logLevel slog.Level, snapConfig *backend.SnapshotConfig) (backend.Backend, *input.Handler, timing.Limiter, error) {
	switch name := c.String("backend"); name {
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		script, err := input.ParseScript(c.String("script"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid --script: %w", err)
		}

		headless.InitLogging(logLevel)

		if snapConfig.Interval > 0 {
			dir, err := snapshot.PrepareDir(snapConfig.Directory)
			if err != nil {
				return nil, nil, nil, err
			}
			snapConfig.Directory = dir
		}

		return headless.New(frames, script), input.NewHandlerWithDelay(0), timing.NewNoOpLimiter(), nil

	case "terminal":
		return terminal.New(logLevel), input.NewHandler(), timing.NewTickerLimiter(c.Int("fps")), nil

	case "sdl2":
		return sdl2.New(), input.NewHandler(), timing.NewTickerLimiter(c.Int("fps")), nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	slog.Debug("Image loaded", "path", path, "format", format, "bounds", img.Bounds())
	return img, nil
}
