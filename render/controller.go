package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/format"
)

var (
	ErrNoScene = errors.New("no scene to render")
	ErrClosed  = errors.New("controller closed")
	ErrMark    = errors.New("mark not found")
)

// DefaultFPS is the frame rate of Play when none is given.
var DefaultFPS = 30

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "render"))
}

// Clock gives the time to a controller.
type Clock interface {
	Now() time.Time
	After(time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Controller owns the drawing of one chart. Each Update replaces the scene
// and restarts its entrance transition; the document is rebuilt from the
// scene on every frame.
type Controller struct {
	mu       sync.Mutex
	renderer Renderer
	clock    Clock

	scene   Scene
	ready   bool
	started time.Time
	hover   *Tooltip
	gen     uint64

	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

func NewController(r Renderer, clock Clock) *Controller {
	if r == nil {
		r = SVGRenderer{}
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Controller{
		renderer: r,
		clock:    clock,
	}
}

// Update replaces the scene. A running Play is cancelled and has returned
// when Update returns. Hover state is reset.
func (c *Controller) Update(scene Scene) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	done := c.stop()
	c.scene = scene
	c.ready = true
	c.hover = nil
	c.started = c.clock.Now()
	c.mu.Unlock()

	wait(done)
	return nil
}

// Stop cancels a running Play without touching the scene.
func (c *Controller) Stop() {
	c.mu.Lock()
	done := c.stop()
	c.mu.Unlock()
	wait(done)
}

// Close cancels a running Play and releases the scene. Every later call
// returns ErrClosed.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	done := c.stop()
	c.closed = true
	c.ready = false
	c.hover = nil
	c.scene = Scene{}
	c.mu.Unlock()

	wait(done)
	return nil
}

// Scene returns the current scene.
func (c *Controller) Scene() (Scene, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene, c.ready
}

// SetFormatters replaces the formatters of the scene. They are used by the
// tooltips built after the call.
func (c *Controller) SetFormatters(set map[string]format.Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Options.Formatters = set
}

// Length returns the duration of the entrance transition of the scene.
func (c *Controller) Length() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return 0
	}
	return c.renderer.Length(c.scene)
}

// Frame draws the scene as it is elapsed after the start of its transition.
func (c *Controller) Frame(elapsed time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame(elapsed)
}

// Snapshot draws the scene once its transition is over.
func (c *Controller) Snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return nil, ErrNoScene
	}
	return c.frame(c.renderer.Length(c.scene))
}

// Render writes the scene as it is now.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return ErrNoScene
	}
	state := State{
		Elapsed: c.clock.Now().Sub(c.started),
		Hover:   c.hover,
	}
	return c.renderer.Render(w, c.scene, state)
}

// Play draws the transition of the scene at fps frames per second and gives
// every frame to sink until the transition is over. It returns early when ctx
// is done, when sink fails or when the scene is replaced. sink must not call
// Update, Stop or Close.
func (c *Controller) Play(ctx context.Context, fps int, sink func([]byte) error) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.ready {
		c.mu.Unlock()
		return ErrNoScene
	}
	prev := c.stop()
	ctx, cancel := context.WithCancel(ctx)
	var (
		done   = make(chan struct{})
		gen    = c.gen
		length = c.renderer.Length(c.scene)
	)
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	wait(prev)
	defer func() {
		c.mu.Lock()
		if c.done == done {
			c.cancel, c.done = nil, nil
		}
		c.mu.Unlock()
		cancel()
		close(done)
	}()

	interval := time.Second / time.Duration(fps)
	logger().Debug("play", slog.Duration("length", length), slog.Int("fps", fps))
	for {
		frame, elapsed, ok, err := c.next(gen)
		if !ok || err != nil {
			return err
		}
		if err := sink(frame); err != nil {
			return err
		}
		if elapsed >= length {
			return nil
		}
		select {
		case <-ctx.Done():
			if c.superseded(gen) {
				return nil
			}
			return ctx.Err()
		case <-c.clock.After(interval):
		}
	}
}

// Enter puts the mark identified by id in the hovered state and returns its
// tooltip.
func (c *Controller) Enter(id string) (Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return Tooltip{}, ErrNoScene
	}
	for _, m := range c.scene.Geometry.Marks() {
		if m.ID != id {
			continue
		}
		measurer := c.scene.Options.Measurer
		if measurer == nil {
			measurer = chartdeck.DefaultMeasurer
		}
		tip := makeTooltip(m, c.scene, measurer)
		c.hover = &tip
		return tip, nil
	}
	return Tooltip{}, ErrMark
}

// Leave resets the hovered state of the mark identified by id.
func (c *Controller) Leave(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hover != nil && c.hover.ID == id {
		c.hover = nil
	}
}

// MouseLeave resets the hovered state whatever the hovered mark.
func (c *Controller) MouseLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hover = nil
}

// Hovered returns the tooltip of the hovered mark if any.
func (c *Controller) Hovered() (Tooltip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hover == nil {
		return Tooltip{}, false
	}
	return *c.hover, true
}

// Playing reports whether a Play is running.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Controller) next(gen uint64) ([]byte, time.Duration, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || !c.ready {
		return nil, 0, false, nil
	}
	elapsed := c.clock.Now().Sub(c.started)
	frame, err := c.frame(elapsed)
	return frame, elapsed, true, err
}

func (c *Controller) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

func (c *Controller) frame(elapsed time.Duration) ([]byte, error) {
	if !c.ready {
		return nil, ErrNoScene
	}
	var (
		buf   bytes.Buffer
		state = State{
			Elapsed: elapsed,
			Hover:   c.hover,
		}
	)
	if err := c.renderer.Render(&buf, c.scene, state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stop cancels the running play and bumps the generation. The caller waits
// on the returned channel after releasing the lock.
func (c *Controller) stop() chan struct{} {
	c.gen++
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	done := c.done
	c.cancel, c.done = nil, nil
	return done
}

func wait(done chan struct{}) {
	if done != nil {
		<-done
	}
}
