package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
)

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		Name     string
		Override config.Theme
		System   config.Theme
		Manual   config.Theme
		Want     config.Theme
	}{
		{
			Name: "nothing set",
			Want: config.ThemeLight,
		},
		{
			Name:     "auto override",
			Override: config.ThemeAuto,
			System:   config.ThemeDark,
			Want:     config.ThemeDark,
		},
		{
			Name:     "override wins",
			Override: config.ThemeLight,
			System:   config.ThemeDark,
			Manual:   config.ThemeDark,
			Want:     config.ThemeLight,
		},
		{
			Name:   "manual before system",
			System: config.ThemeLight,
			Manual: config.ThemeDark,
			Want:   config.ThemeDark,
		},
		{
			Name:   "manual auto",
			System: config.ThemeDark,
			Manual: config.ThemeAuto,
			Want:   config.ThemeDark,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			m := New(chartdeck.Size{Width: 800, Height: 400}, tt.Override)
			defer m.Close()
			if tt.System != "" {
				m.SetSystemTheme(tt.System)
			}
			if tt.Manual != "" {
				m.SetManualTheme(tt.Manual)
			}
			if got := m.Current().Theme; got != tt.Want {
				t.Errorf("theme mismatched! want %s, got %s", tt.Want, got)
			}
		})
	}
}

func TestOnlyChanges(t *testing.T) {
	var (
		m    = New(chartdeck.Size{Width: 800, Height: 400}, config.ThemeAuto)
		list []Signal
	)
	defer m.Close()
	m.Subscribe(func(s Signal) {
		list = append(list, s)
	})
	m.Resize(800, 400)
	m.SetSystemTheme(config.ThemeLight)
	m.Resize(640, 400)
	m.SetSystemTheme(config.ThemeDark)
	m.SetSystemTheme(config.ThemeDark)

	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].Size.Width != 640 || list[0].Theme != config.ThemeLight {
		t.Errorf("unexpected first signal: %+v", list[0])
	}
	if list[1].Theme != config.ThemeDark {
		t.Errorf("unexpected second signal: %+v", list[1])
	}
}

func TestToggleTheme(t *testing.T) {
	m := New(chartdeck.Size{}, config.ThemeAuto)
	defer m.Close()
	m.SetSystemTheme(config.ThemeDark)
	m.ToggleTheme()
	if got := m.Current().Theme; got != config.ThemeLight {
		t.Errorf("toggle from dark should give light, got %s", got)
	}
	m.ToggleTheme()
	if got := m.Current().Theme; got != config.ThemeDark {
		t.Errorf("toggle from light should give dark, got %s", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	var (
		m     = New(chartdeck.Size{}, config.ThemeAuto)
		count int
	)
	defer m.Close()
	unsub := m.Subscribe(func(Signal) { count++ })
	m.Resize(100, 100)
	unsub()
	unsub()
	m.Resize(200, 100)
	if count != 1 {
		t.Errorf("expected 1 notification, got %d", count)
	}
	if n := m.Observers(); n != 0 {
		t.Errorf("expected no observers, got %d", n)
	}
}

func TestClose(t *testing.T) {
	var (
		m     = New(chartdeck.Size{}, config.ThemeAuto)
		count int
	)
	m.Subscribe(func(Signal) { count++ })
	m.Subscribe(func(Signal) { count++ })
	m.Close()
	if n := m.Observers(); n != 0 {
		t.Errorf("expected every observer detached, got %d", n)
	}
	m.Resize(300, 300)
	m.Subscribe(func(Signal) { count++ })
	m.SetSystemTheme(config.ThemeDark)
	if count != 0 {
		t.Errorf("no observer should be called after close, got %d calls", count)
	}
	m.Close()
}

func TestWatch(t *testing.T) {
	var (
		m      = New(chartdeck.Size{}, config.ThemeAuto)
		sizes  = make(chan chartdeck.Size)
		system = make(chan config.Theme)
		seen   = make(chan Signal, 4)
		result = make(chan error, 1)
	)
	m.Subscribe(func(s Signal) { seen <- s })
	go func() {
		result <- m.Watch(context.Background(), sizes, system, nil)
	}()
	sizes <- chartdeck.Size{Width: 320, Height: 200}
	system <- config.ThemeDark

	for _, want := range []Signal{
		{Size: chartdeck.Size{Width: 320, Height: 200}, Theme: config.ThemeLight},
		{Size: chartdeck.Size{Width: 320, Height: 200}, Theme: config.ThemeDark},
	} {
		select {
		case got := <-seen:
			if got != want {
				t.Errorf("signal mismatched! want %+v, got %+v", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("signal not received")
		}
	}
	m.Close()
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("watch should stop without error on close: %s", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("watch still running after close")
	}
}

func TestWatchCancel(t *testing.T) {
	m := New(chartdeck.Size{}, config.ThemeAuto)
	defer m.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Watch(ctx, nil, nil, nil); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
