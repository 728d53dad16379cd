package cli

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"design-canvas/internal/config"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, launch LaunchFunc, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(launch)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	l := newLogger(io.Discard, log.DebugLevel)
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
}

func TestRootWithoutLauncher(t *testing.T) {
	_, err := run(t, nil)
	assert.ErrorIs(t, err, ErrNoWindow)
}

func TestRootPassesConfigToLauncher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte("[viewport]\nzoom = 0.5\n"), 0o644))

	var got LaunchOptions
	_, err := run(t, func(ctx context.Context, opts LaunchOptions) error {
		got = opts
		return nil
	}, "--config", path, "--watch")
	require.NoError(t, err)

	assert.Equal(t, path, got.ConfigPath)
	assert.True(t, got.Watch)
	assert.True(t, got.Demo)
	assert.Equal(t, 0.5, got.Config.Viewport.Zoom)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rulers]\nthickness = 0\n"), 0o644))

	launched := false
	_, err := run(t, func(context.Context, LaunchOptions) error {
		launched = true
		return nil
	}, "-c", path)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.False(t, launched)
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, nil, "--version")
	require.NoError(t, err)
	assert.Equal(t, "design-canvas 0.1.0 (commit unknown, built unknown)\n", out)
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	out, err := run(t, nil, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[guides]")
	assert.Contains(t, out, "margin_px")
	assert.Contains(t, out, "[rulers]")

	parsed, err := config.Parse(out, config.Config{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), parsed)
}

func TestRenderSnapshotSnapsHeader(t *testing.T) {
	img, report, err := RenderSnapshot(config.Default(), SnapshotOptions{Width: 1280, Height: 860, DragX: 3})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 1280, 860), img.Bounds())
	assert.Equal(t, "header", report.Target)
	require.True(t, report.Outcome.Resolution.Snapped())
	require.NotNil(t, report.Outcome.Resolution.X)
	assert.Equal(t, 450.0, report.Outcome.Resolution.X.Value)
	assert.Nil(t, report.Outcome.Resolution.Y)
	assert.Len(t, report.Outcome.Lines, 1)
	assert.True(t, report.Rulers.Drawn)
	assert.Positive(t, report.Rulers.Top.Major)
	assert.Positive(t, report.Rulers.Left.Major)
	assert.Zero(t, report.PendingAfterRelease)
}

func TestRenderSnapshotAltBypasses(t *testing.T) {
	_, report, err := RenderSnapshot(config.Default(), SnapshotOptions{Width: 1280, Height: 860, DragX: 3, Alt: true})
	require.NoError(t, err)
	assert.False(t, report.Outcome.Resolution.Snapped())
	assert.Empty(t, report.Outcome.Lines)
}

func TestRenderSnapshotWithoutRulers(t *testing.T) {
	cfg := config.Default()
	cfg.Rulers.Enabled = false
	_, report, err := RenderSnapshot(cfg, SnapshotOptions{Width: 640, Height: 480, Zoom: 0.5, DPR: 2})
	require.NoError(t, err)
	assert.False(t, report.Rulers.Drawn)
}

func TestRenderSnapshotExplicitViewport(t *testing.T) {
	opts := SnapshotOptions{Width: 1280, Height: 860, Viewport: []float64{0.5, 0, 0, 0.5, 100, 40}, Zoom: 3}
	_, report, err := RenderSnapshot(config.Default(), opts)
	require.NoError(t, err)
	assert.Equal(t, [6]float64{0.5, 0, 0, 0.5, 100, 40}, report.Viewport)
	assert.True(t, report.Rulers.Drawn)

	opts.Viewport = []float64{1, 0, 0}
	_, _, err = RenderSnapshot(config.Default(), opts)
	assert.Error(t, err)
}

func TestRenderSnapshotNegativeViewportDrawsNoRulers(t *testing.T) {
	opts := SnapshotOptions{Width: 640, Height: 480, Viewport: []float64{-1, 0, 0, -1, 640, 480}, DragX: 3}
	_, report, err := RenderSnapshot(config.Default(), opts)
	require.NoError(t, err)
	assert.False(t, report.Rulers.Drawn)
	assert.False(t, report.Outcome.Resolution.Snapped())
	assert.Empty(t, report.Outcome.Lines)
}

func TestRenderSnapshotRejectsEmptyView(t *testing.T) {
	_, _, err := RenderSnapshot(config.Default(), SnapshotOptions{Width: 0, Height: 860})
	assert.Error(t, err)
}

func TestSnapshotCommandWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	err := ExecuteSnapshot(context.Background(), []string{"--out", out, "--width", "320", "--height", "240", "--drag-x", "2"})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}
