package monitor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "monitor"))
}

// Signal is the size of the container of a chart and its resolved theme.
// Theme is never ThemeAuto.
type Signal struct {
	Size  chartdeck.Size
	Theme config.Theme
}

type Observer func(Signal)

// Monitor merges the size of a container and the theme sources into one
// signal. Observers are only called when the signal changes.
//
// The theme is resolved from, by order of precedence: the override given to
// New when it is light or dark, the last manual toggle, the system
// preference. Light is used when no source is set.
type Monitor struct {
	mu       sync.Mutex
	size     chartdeck.Size
	override config.Theme
	manual   config.Theme
	system   config.Theme
	last     Signal

	observers map[int]Observer
	next      int

	// held while observers are called
	emit   sync.Mutex
	closed bool
	done   chan struct{}
}

func New(size chartdeck.Size, override config.Theme) *Monitor {
	m := Monitor{
		size:      size,
		override:  explicit(override),
		observers: make(map[int]Observer),
		done:      make(chan struct{}),
	}
	m.last = m.resolve()
	return &m
}

// Current returns the last signal.
func (m *Monitor) Current() Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Monitor) Resize(width, height float64) {
	m.update(func() {
		m.size = chartdeck.Size{
			Width:  width,
			Height: height,
		}
	})
}

// SetOverride changes the explicit theme. ThemeAuto removes it.
func (m *Monitor) SetOverride(theme config.Theme) {
	m.update(func() {
		m.override = explicit(theme)
	})
}

// SetSystemTheme records the theme preferred by the system.
func (m *Monitor) SetSystemTheme(theme config.Theme) {
	m.update(func() {
		m.system = explicit(theme)
	})
}

// SetManualTheme records the theme chosen by the user. ThemeAuto gives the
// decision back to the system preference.
func (m *Monitor) SetManualTheme(theme config.Theme) {
	m.update(func() {
		m.manual = explicit(theme)
	})
}

// ToggleTheme switches the manual theme to the opposite of the current
// resolved theme.
func (m *Monitor) ToggleTheme() {
	m.update(func() {
		if m.resolveTheme() == config.ThemeDark {
			m.manual = config.ThemeLight
		} else {
			m.manual = config.ThemeDark
		}
	})
}

// Subscribe registers fn. The returned function unregisters it. Observers
// must not call Close.
func (m *Monitor) Subscribe(fn Observer) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || fn == nil {
		return func() {}
	}
	id := m.next
	m.next++
	m.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.observers, id)
		})
	}
}

// Observers returns the number of registered observers.
func (m *Monitor) Observers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.observers)
}

// Watch feeds the monitor from the given streams until ctx is done or the
// monitor is closed. Nil streams are ignored.
func (m *Monitor) Watch(ctx context.Context, sizes <-chan chartdeck.Size, system, manual <-chan config.Theme) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return nil
		case s, ok := <-sizes:
			if !ok {
				sizes = nil
				continue
			}
			m.Resize(s.Width, s.Height)
		case t, ok := <-system:
			if !ok {
				system = nil
				continue
			}
			m.SetSystemTheme(t)
		case t, ok := <-manual:
			if !ok {
				manual = nil
				continue
			}
			m.SetManualTheme(t)
		}
	}
}

// Close detaches every observer and stops Watch. No observer is called once
// Close has returned.
func (m *Monitor) Close() {
	m.emit.Lock()
	defer m.emit.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	clear(m.observers)
	close(m.done)
	logger().Debug("monitor closed")
}

func (m *Monitor) update(change func()) {
	m.emit.Lock()
	defer m.emit.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	change()
	sig := m.resolve()
	if sig == m.last {
		m.mu.Unlock()
		return
	}
	m.last = sig
	list := make([]Observer, 0, len(m.observers))
	for i := 0; i < m.next; i++ {
		if fn, ok := m.observers[i]; ok {
			list = append(list, fn)
		}
	}
	m.mu.Unlock()

	logger().Debug("signal changed", slog.Float64("width", sig.Size.Width), slog.Float64("height", sig.Size.Height), slog.String("theme", string(sig.Theme)))
	for _, fn := range list {
		fn(sig)
	}
}

func (m *Monitor) resolve() Signal {
	return Signal{
		Size:  m.size,
		Theme: m.resolveTheme(),
	}
}

func (m *Monitor) resolveTheme() config.Theme {
	for _, t := range []config.Theme{m.override, m.manual, m.system} {
		if t != "" {
			return t
		}
	}
	return config.ThemeLight
}

func explicit(theme config.Theme) config.Theme {
	switch theme {
	case config.ThemeLight, config.ThemeDark:
		return theme
	default:
		return ""
	}
}
