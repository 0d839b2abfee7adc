package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/viewer"
	"go.uber.org/zap"
)

// dragStep is the orbit in degrees per cell of mouse drag.
const dragStep = 3.0

// session is the interactive terminal view. All state is owned by the
// goroutine running loop.
type session struct {
	term   *uv.Terminal
	viewer *viewer.Viewer
	scene  *models.Store
	cfg    config.TerminalConfig
	reset  func() error
	motion *motion
	hud    *hud

	width, height int
	dirty         bool

	mouseDown    bool
	lastX, lastY int
}

func runTerminal(cfg *config.Config, v *viewer.Viewer, scene *models.Store, reset func() error) error {
	fps := max(cfg.Terminal.FPS, 1)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &session{
		term:   term,
		viewer: v,
		scene:  scene,
		cfg:    cfg.Terminal,
		reset:  reset,
		motion: newMotion(fps),
		hud:    newHUD(scene),
		width:  width,
		height: height,
		dirty:  true,
	}
	s.hud.show = cfg.Terminal.ShowHUD

	logger.Info("terminal view started",
		zap.Int("cols", width),
		zap.Int("rows", height),
		zap.Int("fps", fps))
	return s.loop(ctx, fps)
}

func (s *session) loop(ctx context.Context, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := s.term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := s.handle(ev)
			if err != nil || quit {
				return err
			}

		case <-ticker.C:
			if dv, dh, dz, moving := s.motion.Step(); moving {
				s.viewer.RotateCam(dv, dh)
				s.viewer.ZoomCam(dz)
				s.dirty = true
			}
			if s.dirty {
				if err := s.draw(); err != nil {
					logger.Error("frame failed", zap.Error(err))
					return err
				}
			}
		}
	}
}

// handle applies one input event and reports whether to quit.
func (s *session) handle(ev uv.Event) (bool, error) {
	step, zoom := s.cfg.OrbitStep, s.cfg.ZoomStep

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		s.width, s.height = ev.Width, ev.Height
		s.term.Erase()
		s.term.Resize(s.width, s.height)
		s.dirty = true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "q", "ctrl+c"):
			return true, nil
		case ev.MatchString("w", "up"):
			s.motion.Nudge(step, 0, 0)
		case ev.MatchString("s", "down"):
			s.motion.Nudge(-step, 0, 0)
		case ev.MatchString("a", "left"):
			s.motion.Nudge(0, -step, 0)
		case ev.MatchString("d", "right"):
			s.motion.Nudge(0, step, 0)
		case ev.MatchString("+", "="):
			s.motion.Nudge(0, 0, -zoom)
		case ev.MatchString("-", "_"):
			s.motion.Nudge(0, 0, zoom)
		case ev.MatchString("r"):
			s.toggleRenderMode()
		case ev.MatchString("p"):
			s.toggleProjection()
		case ev.MatchString("0"):
			s.motion.Stop()
			if err := s.reset(); err != nil {
				return false, err
			}
			s.dirty = true
		case ev.MatchString("h", "?", "shift+/"):
			s.hud.show = !s.hud.show
			s.dirty = true
		}

	case uv.MouseClickEvent:
		s.mouseDown = true
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		s.mouseDown = false

	case uv.MouseMotionEvent:
		if s.mouseDown {
			dx, dy := ev.X-s.lastX, ev.Y-s.lastY
			s.motion.Nudge(float64(dy)*dragStep, float64(-dx)*dragStep, 0)
			s.lastX, s.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.motion.Nudge(0, 0, -zoom)
		case uv.MouseWheelDown:
			s.motion.Nudge(0, 0, zoom)
		}
	}
	return false, nil
}

func (s *session) toggleRenderMode() {
	next := viewer.RayTrace
	if s.viewer.RenderMode() == viewer.RayTrace {
		next = viewer.Rasterize
	}
	_ = s.viewer.SetRenderMode(next)
	logger.Debug("render mode", zap.Stringer("mode", next))
	s.dirty = true
}

func (s *session) toggleProjection() {
	next := render.Orthographic
	if s.viewer.ProjectionMode() == render.Orthographic {
		next = render.Perspective
	}
	_ = s.viewer.SetProjectionMode(next)
	logger.Debug("projection", zap.Stringer("projection", next))
	s.dirty = true
}

// draw renders the scene into the whole terminal and flushes it.
func (s *session) draw() error {
	if s.width <= 0 || s.height <= 0 {
		return nil
	}
	area := uv.Rect(0, 0, s.width, s.height)

	start := time.Now()
	raster, err := s.viewer.Render(render.TerminalDisplay(s.width, s.height), s.scene)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	raster.Draw(s.term, area)

	s.hud.frameDone(time.Since(start))
	s.hud.draw(s.term, s.width, s.height, s.viewer)

	if err := s.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	s.dirty = false
	return nil
}

// hud is a one line status overlay with an FPS counter.
type hud struct {
	show      bool
	meshes    int
	faces     int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	lastFrame time.Duration
}

func newHUD(scene *models.Store) *hud {
	h := &hud{meshes: scene.Len(), fpsTime: time.Now()}
	for _, k := range scene.Keys() {
		if m, ok := scene.Lookup(k); ok {
			h.faces += m.FaceCount()
		}
	}
	return h
}

// frameDone records one drawn frame.
func (h *hud) frameDone(took time.Duration) {
	h.lastFrame = took
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

var (
	hudFg = color.RGBA{230, 230, 230, 255}
	hudBg = color.RGBA{20, 20, 28, 255}
	hudDm = color.RGBA{150, 150, 120, 255}
)

func (h *hud) draw(scr uv.Screen, width, height int, v *viewer.Viewer) {
	if !h.show {
		return
	}
	status := fmt.Sprintf(" %s | %s | %d meshes, %d faces | %.0f FPS, %s ",
		v.RenderMode(), v.ProjectionMode(), h.meshes, h.faces,
		h.fps, h.lastFrame.Round(time.Millisecond))
	drawText(scr, 0, 0, width, status, hudFg, hudBg)

	if height > 1 {
		hint := " arrows orbit | +/- zoom | r renderer | p projection | 0 reset | h hud | q quit "
		drawText(scr, 0, height-1, width, hint, hudDm, hudBg)
	}
}

// drawText writes ASCII text into row y starting at column x, clipped at
// width.
func drawText(scr uv.Screen, x, y, width int, text string, fg, bg color.Color) {
	for i, r := range text {
		if x+i >= width {
			return
		}
		scr.SetCell(x+i, y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: bg},
		})
	}
}
