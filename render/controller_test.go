package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/format"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After moves the clock forward immediately.
func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

func lineScene(t *testing.T) Scene {
	t.Helper()
	rows := dataset.ArrayToPoints([][]any{
		{"month", "sales"},
		{"Jan", 100},
		{"Feb", 200},
	})
	cfg := config.New(config.Line).(*config.LineConfig)
	cfg.XAxisKey = "month"
	cfg.YAxisKeys = []string{"sales"}
	opts := chartdeck.Options{
		Series: []config.SeriesConfig{
			{ID: "s-1", Name: "sales", DataColumn: "sales", Visible: true},
		},
	}
	geo, err := chartdeck.Compute(cfg, rows, chartdeck.Size{Width: 800, Height: 400}, opts)
	if err != nil {
		t.Fatalf("compute: %s", err)
	}
	return Scene{
		Geometry: geo,
		Config:   cfg,
		Style:    LightStyle(),
		Animate:  true,
		Duration: 300 * time.Millisecond,
		Easing:   Linear,
	}
}

func pieScene(t *testing.T) Scene {
	t.Helper()
	rows := dataset.ArrayToPoints([][]any{
		{"fruit", "count"},
		{"apple", 6},
		{"pear", 3},
		{"plum", 1},
	})
	cfg := config.New(config.Pie).(*config.PieConfig)
	cfg.LabelKey = "fruit"
	cfg.ValueKey = "count"
	cfg.ShowLabels = true
	cfg.ShowLegend = false
	geo, err := chartdeck.Compute(cfg, rows, chartdeck.Size{Width: 600, Height: 400}, chartdeck.Options{})
	if err != nil {
		t.Fatalf("compute: %s", err)
	}
	return Scene{
		Geometry: geo,
		Config:   cfg,
		Style:    LightStyle(),
		Animate:  true,
		Duration: 500 * time.Millisecond,
		Easing:   CubicInOut,
	}
}

func TestControllerNoScene(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	if _, err := ctrl.Snapshot(); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
	if _, err := ctrl.Enter("sales-0"); !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
	err := ctrl.Play(context.Background(), 10, func([]byte) error { return nil })
	if !errors.Is(err, ErrNoScene) {
		t.Errorf("expected ErrNoScene, got %v", err)
	}
}

func TestControllerIdempotent(t *testing.T) {
	var (
		ctrl  = NewController(nil, &fakeClock{})
		scene = lineScene(t)
	)
	if err := ctrl.Update(scene); err != nil {
		t.Fatalf("update: %s", err)
	}
	fst, err := ctrl.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %s", err)
	}
	if err := ctrl.Update(scene); err != nil {
		t.Fatalf("update: %s", err)
	}
	snd, err := ctrl.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %s", err)
	}
	if !bytes.Equal(fst, snd) {
		t.Errorf("rendering the same scene twice gives different documents")
	}
	if !bytes.Contains(fst, []byte("<svg")) {
		t.Errorf("svg document expected")
	}
}

func TestControllerFrames(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	if err := ctrl.Update(pieScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	want := 500*time.Millisecond + LabelDelay + LabelFade
	if got := ctrl.Length(); got != want {
		t.Errorf("length mismatched! want %s, got %s", want, got)
	}
	start, err := ctrl.Frame(0)
	if err != nil {
		t.Fatalf("frame: %s", err)
	}
	end, err := ctrl.Frame(ctrl.Length())
	if err != nil {
		t.Fatalf("frame: %s", err)
	}
	if bytes.Equal(start, end) {
		t.Errorf("first and last frames should differ")
	}
	if bytes.Contains(start, []byte("apple")) {
		t.Errorf("labels should not be visible before the sweep is over")
	}
	if !bytes.Contains(end, []byte("apple")) {
		t.Errorf("labels should be visible at the end of the transition")
	}
}

func TestControllerPlay(t *testing.T) {
	var (
		clock  = &fakeClock{}
		ctrl   = NewController(nil, clock)
		frames int
	)
	if err := ctrl.Update(lineScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	err := ctrl.Play(context.Background(), 10, func(b []byte) error {
		frames++
		return nil
	})
	if err != nil {
		t.Fatalf("play: %s", err)
	}
	// 300ms at 10 fps: frames at 0, 100, 200 and 300ms
	if frames != 4 {
		t.Errorf("expected 4 frames, got %d", frames)
	}
	if ctrl.Playing() {
		t.Errorf("controller should not be playing anymore")
	}
}

func TestControllerUpdateCancelsPlay(t *testing.T) {
	var (
		ctrl    = NewController(nil, SystemClock)
		scene   = lineScene(t)
		started = make(chan struct{})
		result  = make(chan error, 1)
		once    sync.Once
	)
	scene.Duration = time.Hour
	if err := ctrl.Update(scene); err != nil {
		t.Fatalf("update: %s", err)
	}
	go func() {
		result <- ctrl.Play(context.Background(), 1, func([]byte) error {
			once.Do(func() { close(started) })
			return nil
		})
	}()
	<-started
	if err := ctrl.Update(lineScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	if ctrl.Playing() {
		t.Errorf("update should have stopped the running play")
	}
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("superseded play should return nil, got %s", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("play still running after update")
	}
}

func TestControllerClose(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	if err := ctrl.Update(lineScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	if err := ctrl.Close(); err != nil {
		t.Fatalf("close: %s", err)
	}
	if err := ctrl.Update(lineScene(t)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := ctrl.Close(); err != nil {
		t.Errorf("closing twice should not fail: %s", err)
	}
}

func TestControllerHover(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	if err := ctrl.Update(lineScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	if _, err := ctrl.Enter("unknown"); !errors.Is(err, ErrMark) {
		t.Errorf("expected ErrMark, got %v", err)
	}
	tip, err := ctrl.Enter("sales-1")
	if err != nil {
		t.Fatalf("enter: %s", err)
	}
	if tip.Title != "Feb" {
		t.Errorf("tooltip title mismatched! want Feb, got %s", tip.Title)
	}
	if len(tip.Lines) != 1 || tip.Lines[0] != "sales: 200" {
		t.Errorf("tooltip lines mismatched! got %v", tip.Lines)
	}
	frame, _ := ctrl.Snapshot()
	if !bytes.Contains(frame, []byte("tooltip")) {
		t.Errorf("hovered frame should contain the tooltip")
	}

	ctrl.Leave("sales-0")
	if _, ok := ctrl.Hovered(); !ok {
		t.Errorf("leaving another mark should keep the hover state")
	}
	ctrl.Leave("sales-1")
	if _, ok := ctrl.Hovered(); ok {
		t.Errorf("hover state should be reset")
	}

	ctrl.Enter("sales-0")
	ctrl.MouseLeave()
	if _, ok := ctrl.Hovered(); ok {
		t.Errorf("mouse leave should reset every hover state")
	}
	frame, _ = ctrl.Snapshot()
	if bytes.Contains(frame, []byte("tooltip")) {
		t.Errorf("tooltip should be removed after mouse leave")
	}
}

func TestControllerFormattersAtHover(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	if err := ctrl.Update(lineScene(t)); err != nil {
		t.Fatalf("update: %s", err)
	}
	ctrl.SetFormatters(map[string]format.Func{
		"sales": format.Get(format.Currency, ""),
	})
	tip, err := ctrl.Enter("sales-1")
	if err != nil {
		t.Fatalf("enter: %s", err)
	}
	if got := strings.Join(tip.Lines, ""); got != "sales: $200" {
		t.Errorf("formatted tooltip mismatched! want sales: $200, got %s", got)
	}
}

func TestTooltipInsideFrame(t *testing.T) {
	ctrl := NewController(nil, &fakeClock{})
	scene := lineScene(t)
	if err := ctrl.Update(scene); err != nil {
		t.Fatalf("update: %s", err)
	}
	outer := scene.Geometry.Frame().Outer
	for _, m := range scene.Geometry.Marks() {
		tip, err := ctrl.Enter(m.ID)
		if err != nil {
			t.Fatalf("enter: %s", err)
		}
		b := tip.Box
		if b.X < outer.X || b.Y < outer.Y || b.Right() > outer.Right() || b.Bottom() > outer.Bottom() {
			t.Errorf("%s: tooltip outside of chart: %+v", m.ID, b)
		}
	}
}

func TestRenderPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	p := Placeholder{
		Title: "No series",
		Hint:  "add a series to draw the chart",
	}
	if err := RenderPlaceholder(&buf, p, chartdeck.Size{}, DarkStyle(), false); err != nil {
		t.Fatalf("placeholder: %s", err)
	}
	str := buf.String()
	for _, want := range []string{p.Title, p.Hint} {
		if !strings.Contains(str, want) {
			t.Errorf("placeholder should contain %q", want)
		}
	}
}
