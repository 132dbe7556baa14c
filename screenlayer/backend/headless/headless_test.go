package headless_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/backend/headless"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

func newFrame() *vram.Writer {
	return vram.New(geom.Sz(4, 4), 32, make(vram.Buffer, 64))
}

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		h := headless.New(3, nil)

		err := h.Init(backend.Config{Title: "Test"})
		assert.NoError(t, err)

		frame := newFrame()

		for i := 0; i < 3; i++ {
			events, err := h.Update(frame)
			assert.NoError(t, err)

			if i < 2 {
				assert.Empty(t, events)
			} else {
				assert.Len(t, events, 1)
				assert.Equal(t, action.Quit, events[0].Action)
				assert.Equal(t, event.Press, events[0].Type)
			}
		}

		assert.NoError(t, h.Cleanup())
	})

	t.Run("replays script one action per frame", func(t *testing.T) {
		script := []action.Action{action.LayerRight, action.LayerNext}
		h := headless.New(5, script)
		require.NoError(t, h.Init(backend.Config{}))

		frame := newFrame()
		var got []action.Action
		for i := 0; i < 5; i++ {
			events, err := h.Update(frame)
			require.NoError(t, err)
			for _, e := range events {
				got = append(got, e.Action)
			}
		}

		assert.Equal(t, []action.Action{action.LayerRight, action.LayerNext, action.Quit}, got)
	})

	t.Run("zero frames is rejected", func(t *testing.T) {
		h := headless.New(0, nil)
		assert.Error(t, h.Init(backend.Config{}))
	})

	t.Run("periodic and final snapshots", func(t *testing.T) {
		dir := t.TempDir()
		h := headless.New(5, nil)
		require.NoError(t, h.Init(backend.Config{
			Snapshot: backend.SnapshotConfig{
				Interval:  2,
				Directory: dir,
				Format:    "png",
				Scale:     1,
				BaseName:  "test",
			},
		}))

		frame := newFrame()
		for i := 0; i < 5; i++ {
			_, err := h.Update(frame)
			require.NoError(t, err)
		}

		// frames 2 and 4, plus the final frame 5
		require.Len(t, h.Saved(), 3)
		for _, path := range h.Saved() {
			_, err := os.Stat(path)
			assert.NoError(t, err)
		}
	})
}

func TestHeadlessDefaultSnapshotName(t *testing.T) {
	dir := t.TempDir()
	h := headless.New(1, nil)
	require.NoError(t, h.Init(backend.Config{
		Snapshot: backend.SnapshotConfig{Interval: 1, Directory: dir},
	}))

	_, err := h.Update(newFrame())
	require.NoError(t, err)

	require.Len(t, h.Saved(), 1)
	assert.True(t, strings.HasPrefix(filepath.Base(h.Saved()[0]), "screenlayer_frame_1_"))
}

func TestHeadlessImplementsBackend(t *testing.T) {
	// Compile-time check that headless.Backend implements backend.Backend
	var _ backend.Backend = (*headless.Backend)(nil)
}
