package cli

import (
	"fmt"
	"image"
	"io"
	"os"

	"design-canvas/internal/app"
	"design-canvas/internal/config"
	"design-canvas/internal/guides"
	"design-canvas/internal/paint"
	"design-canvas/internal/ruler"
	"design-canvas/internal/scene"
	"design-canvas/internal/snap"
	"design-canvas/internal/surface"
	"design-canvas/pkg/colorutil"
	"design-canvas/pkg/geometry"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

const snapshotPadding = 40

// SnapshotOptions describes a headless render. Sizes are CSS pixels.
type SnapshotOptions struct {
	Width, Height float64
	DPR           float64
	// Viewport, when set, is the full [a b c d e f] viewport matrix and
	// takes precedence over Zoom.
	Viewport []float64
	// Zoom fixes the viewport scale; zero fits the workspace to the view.
	Zoom         float64
	PanX, PanY   float64
	DragX, DragY float64
	// Alt holds the Alt key during the drag.
	Alt bool
}

// SnapshotReport describes what a snapshot rendered.
type SnapshotReport struct {
	Target   string
	Viewport [6]float64
	Outcome  snap.Outcome
	Rulers   ruler.Frame
	// PendingAfterRelease is the guide buffer size once the pointer is
	// released after the frame; it is always zero.
	PendingAfterRelease int
}

// RenderSnapshot seeds the demo layout, drags its first shape by
// (DragX, DragY) screen pixels and renders the frame taken mid-drag: the
// scene, the guides and the rulers. The pointer is released afterwards.
func RenderSnapshot(cfg config.Config, opts SnapshotOptions) (*image.RGBA, SnapshotReport, error) {
	var report SnapshotReport
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, report, fmt.Errorf("snapshot size must be positive, got %vx%v", opts.Width, opts.Height)
	}
	if opts.DPR <= 0 {
		opts.DPR = 1
	}
	if n := len(opts.Viewport); n != 0 && n != 6 {
		return nil, report, fmt.Errorf("viewport needs 6 values, got %d", n)
	}

	state := app.NewState(cfg)
	state.SeedDemo()
	sc := state.Scene
	switch {
	case len(opts.Viewport) == 6:
		sc.SetViewportTransform(geometry.FromViewport([6]float64(opts.Viewport)))
	case opts.Zoom > 0:
		sc.SetViewportTransform(geometry.Scale(opts.Zoom, opts.Zoom))
	default:
		state.FitWorkspace(opts.Width, opts.Height, snapshotPadding)
	}
	sc.Pan(opts.PanX, opts.PanY)
	report.Viewport = sc.ViewportTransform().Viewport()

	view := surface.New()
	view.Resize(opts.Width, opts.Height, opts.DPR)

	overlay := guides.New(sc, state.Engine, surface.New(), state.GuideOptions())
	overlay.Surface().Resize(opts.Width, opts.Height, opts.DPR)
	overlay.OnSnap(func(out snap.Outcome) { report.Outcome = out })
	if state.GuidesEnabled() {
		overlay.Enable()
	}

	rulers := ruler.New(sc, state.RulerOptions())
	rulers.Resize(opts.Width, opts.Height, opts.DPR)
	if state.RulersEnabled() {
		rulers.Enable()
	}

	target := firstShape(sc)
	if target == nil {
		return nil, report, fmt.Errorf("snapshot scene has no shapes")
	}
	report.Target = target.Name

	var mods scene.Modifier
	if opts.Alt {
		mods = scene.ModAlt
	}
	vp := sc.ViewportTransform()
	grab := vp.Apply(target.CenterPoint())
	release := grab.Add(geometry.Point2D{X: opts.DragX, Y: opts.DragY})
	sc.PointerDown(grab, mods)
	sc.PointerMove(release, mods)

	sc.Render(func() {
		paint.Scene(view, sc, paint.DefaultOptions())
	})
	img := compose(view, overlay.Surface(), rulers)
	report.Rulers = rulers.LastFrame()

	sc.PointerUp(release, mods)
	report.PendingAfterRelease = overlay.Pending()
	return img, report, nil
}

func firstShape(sc *scene.Scene) *scene.Shape {
	for _, o := range sc.Objects() {
		if sh, ok := o.(*scene.Shape); ok && o != sc.Workspace() && sh.Selectable() {
			return sh
		}
	}
	return nil
}

// compose stacks the scene, the guide overlay and, when enabled, the
// rulers with their backgrounds and corner.
func compose(view, overlay *surface.Surface, r *ruler.Renderer) *image.RGBA {
	base := view.Image()
	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, image.Point{}, draw.Src)
	if top := overlay.Image(); top != nil {
		draw.Draw(out, out.Bounds(), top, image.Point{}, draw.Over)
	}
	if !r.Enabled() {
		return out
	}

	bg := image.NewUniform(colorutil.RulerBackground)
	for _, s := range []*surface.Surface{r.Top(), r.Left()} {
		strip := s.Image()
		if strip == nil {
			continue
		}
		rect := strip.Bounds()
		draw.Draw(out, rect, bg, image.Point{}, draw.Src)
		draw.Draw(out, rect, strip, image.Point{}, draw.Over)
	}
	th, _ := surface.DeviceSize(r.Thickness(), r.Thickness(), view.DPR())
	draw.Draw(out, image.Rect(0, 0, th, th), bg, image.Point{}, draw.Src)
	return out
}

// writePNG encodes img through a gg context.
func writePNG(w io.Writer, img image.Image) error {
	return gg.NewContextForImage(img).EncodePNG(w)
}

func newSnapshotCmd(configPath *string) *cobra.Command {
	var (
		opts SnapshotOptions
		out  string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a drag with its guides and rulers to PNG",
		Long: `Snapshot builds the demo layout, drags its first shape and renders the
frame taken mid-drag, including alignment guides and rulers, to a PNG file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			img, report, err := RenderSnapshot(cfg, opts)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := writePNG(f, img); err != nil {
				f.Close()
				return fmt.Errorf("encode %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			logger.Info("snapshot written",
				"out", out,
				"target", report.Target,
				"viewport", report.Viewport,
				"snapped", report.Outcome.Resolution.Snapped(),
				"guides", len(report.Outcome.Lines),
				"ticks", report.Rulers.Top.Total()+report.Rulers.Left.Total())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.Width, "width", 1280, "view width in CSS pixels")
	flags.Float64Var(&opts.Height, "height", 860, "view height in CSS pixels")
	flags.Float64Var(&opts.DPR, "dpr", 1, "device pixel ratio")
	flags.Float64SliceVar(&opts.Viewport, "viewport", nil, "viewport matrix a,b,c,d,e,f (overrides --zoom)")
	flags.Float64Var(&opts.Zoom, "zoom", 0, "viewport zoom (0 fits the workspace)")
	flags.Float64Var(&opts.PanX, "pan-x", 0, "horizontal pan in CSS pixels")
	flags.Float64Var(&opts.PanY, "pan-y", 0, "vertical pan in CSS pixels")
	flags.Float64Var(&opts.DragX, "drag-x", 0, "horizontal drag distance in CSS pixels")
	flags.Float64Var(&opts.DragY, "drag-y", 0, "vertical drag distance in CSS pixels")
	flags.BoolVar(&opts.Alt, "alt", false, "hold Alt while dragging")
	flags.StringVarP(&out, "out", "o", "snapshot.png", "output PNG path")
	return cmd
}
