// Package window draws the cosmic zoom in a desktop window with ebiten.
package window

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	"github.com/matzehuels/cosmicscale/pkg/viewer"
)

var (
	background = color.RGBA{R: 5, G: 5, B: 12, A: 255}
	highlight  = color.RGBA{R: 255, G: 213, B: 79, A: 255}
	electron   = color.RGBA{R: 200, G: 230, B: 255, A: 255}
	quark      = color.RGBA{R: 255, G: 120, B: 120, A: 255}
)

var controls = []string{
	"Wheel / Up-Down: zoom   Shift: x10   Home/End: limits   Q/Esc: quit",
}

// Game implements ebiten.Game for the cosmic zoom.
type Game struct {
	ctx     context.Context
	frame   *scale.Frame
	zoom    viewer.Zoom
	current float64
	scene   viewer.Scene
	width   int
	height  int
	logger  *log.Logger
	last    time.Time
}

// New creates a Game that evaluates frame at the start exponent.
func New(ctx context.Context, frame *scale.Frame, opts viewer.Options) (*Game, error) {
	if err := opts.Zoom.Validate(); err != nil {
		return nil, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}
	g := &Game{
		ctx:     ctx,
		frame:   frame,
		zoom:    opts.Zoom,
		current: opts.Zoom.Clamp(opts.Start),
		width:   opts.Width,
		height:  opts.Height,
		logger:  opts.Logger,
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	return g, nil
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, frame *scale.Frame, opts viewer.Options) error {
	g, err := New(ctx, frame, opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update reads input, advances the exponent, and re-evaluates the scene.
func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.current = g.zoom.Apply(g.current, readInput())

	now := time.Now()
	dt := time.Second / time.Duration(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	res, err := g.frame.Step(g.ctx, g.current)
	if err != nil {
		g.logger.Debug("frame skipped", "current", g.current, "err", err)
	}
	if res != nil {
		scale.Animate(res, dt)
	}
	g.scene = viewer.BuildScene(res, g.baseRadius(), g.maxRadius())
	return nil
}

func readInput() viewer.Input {
	_, wheel := ebiten.Wheel()
	return viewer.Input{
		Wheel:  wheel,
		Out:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		In:     ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Coarse: ebiten.IsKeyPressed(ebiten.KeyShift),
		Home:   inpututil.IsKeyJustPressed(ebiten.KeyHome),
		End:    inpututil.IsKeyJustPressed(ebiten.KeyEnd),
	}
}

// baseRadius is the on-screen radius of an entity at scale factor 1.
func (g *Game) baseRadius() float64 {
	return float64(min(g.width, g.height)) / 8
}

// maxRadius caps huge bodies a little beyond the screen diagonal.
func (g *Game) maxRadius() float64 {
	return math.Hypot(float64(g.width), float64(g.height))
}

// Draw renders the scene and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	cx, cy := float32(g.width)/2, float32(g.height)/2

	for _, sp := range g.scene.Sprites {
		r := float32(sp.Radius)
		if r < 0.5 {
			continue
		}
		switch sp.Shape {
		case viewer.ShapeBox:
			vector.DrawFilledRect(screen, cx-r, cy-r, 2*r, 2*r, sp.Color, true)
		default:
			vector.DrawFilledCircle(screen, cx, cy, r, sp.Color, true)
			// Surface marker shows the idle spin.
			mx := cx + r*0.8*float32(math.Cos(sp.Rotation))
			my := cy + r*0.8*float32(math.Sin(sp.Rotation))*0.3
			vector.DrawFilledCircle(screen, mx, my, max(r*0.05, 1), background, true)
		}
		for i, off := range sp.Quarks {
			a := sp.Rotation + float64(i)*2*math.Pi/float64(len(sp.Quarks))
			qr := r * float32(0.45+off)
			qx := cx + qr*float32(math.Cos(a))
			qy := cy + qr*float32(math.Sin(a))
			vector.DrawFilledCircle(screen, qx, qy, max(r*0.12, 1), quark, true)
		}
		if sp.HasOrbit {
			ex := cx + r*1.6*float32(math.Cos(sp.Orbit))
			ey := cy + r*1.6*float32(math.Sin(sp.Orbit))
			vector.StrokeCircle(screen, cx, cy, r*1.6, 1, electron, true)
			vector.DrawFilledCircle(screen, ex, ey, max(r*0.08, 2), electron, true)
		}
		if sp.Active {
			vector.StrokeCircle(screen, cx, cy, r+3, 2, highlight, true)
		}
	}

	ebitenutil.DebugPrintAt(screen, g.scene.Title, 10, 10)
	ebitenutil.DebugPrintAt(screen, g.scene.Body, 10, 30)
	ebitenutil.DebugPrintAt(screen, g.scene.Readout, 10, 50)
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, g.height-20*(len(controls)-i)-10)
	}
}

// Layout tracks the window size so the scene stays centred after resizing.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
