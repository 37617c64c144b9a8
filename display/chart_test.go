package display

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/ops"
)

func salesDataset() *dataset.Dataset {
	return dataset.FromTable([][]any{
		{"month", "sales"},
		{"Jan", 100},
		{"Feb", 200},
	})
}

func lineEditor(t *testing.T, series ...string) *config.Editor {
	t.Helper()
	cfg := config.New(config.Line).(*config.LineConfig)
	cfg.XAxisKey = "month"
	ed := config.NewEditor(cfg, config.WithColumns([]string{"month", "sales"}))
	for _, s := range series {
		if _, err := ed.AddSeriesFor(s); err != nil {
			t.Fatalf("add series %s: %s", s, err)
		}
	}
	return ed
}

func TestEvaluate(t *testing.T) {
	pie := func(label, value string) config.Config {
		cfg := config.New(config.Pie).(*config.PieConfig)
		cfg.LabelKey = label
		cfg.ValueKey = value
		return cfg
	}
	line := func(x string, y ...string) config.Config {
		cfg := config.New(config.Line).(*config.LineConfig)
		cfg.XAxisKey = x
		cfg.YAxisKeys = y
		return cfg
	}
	series := func(keys ...string) []config.SeriesConfig {
		var list []config.SeriesConfig
		for _, k := range keys {
			list = append(list, config.SeriesConfig{ID: k, Name: k, DataColumn: k, Visible: true})
		}
		return list
	}
	heatmap := config.New(config.Heatmap).(*config.HeatmapConfig)
	heatmap.XAxisKey = ""

	ds := salesDataset()
	tests := []struct {
		Name    string
		Input   Input
		State   State
		Missing []string
	}{
		{
			Name:  "no dataset",
			Input: Input{Config: line("month", "sales")},
			State: NoDataset,
		},
		{
			Name:  "no config",
			Input: Input{Dataset: ds, Rows: ds.Points()},
			State: NoConfig,
		},
		{
			Name:    "line without x axis",
			Input:   Input{Dataset: ds, Rows: ds.Points(), Config: line("", "sales")},
			State:   MissingRequiredKeys,
			Missing: []string{"xAxisKey"},
		},
		{
			Name:  "line without series",
			Input: Input{Dataset: ds, Rows: ds.Points(), Config: line("month")},
			State: NoVisibleSeries,
		},
		{
			Name:  "y axis keys without series",
			Input: Input{Dataset: ds, Rows: ds.Points(), Config: line("month", "sales")},
			State: NoVisibleSeries,
		},
		{
			Name:  "line ready",
			Input: Input{Dataset: ds, Rows: ds.Points(), Config: line("month", "sales"), Series: series("sales")},
			State: Ready,
		},
		{
			Name:    "pie without value key",
			Input:   Input{Dataset: ds, Rows: ds.Points(), Config: pie("month", "")},
			State:   MissingRequiredKeys,
			Missing: []string{"valueKey"},
		},
		{
			Name:    "heatmap without keys",
			Input:   Input{Dataset: ds, Rows: ds.Points(), Config: heatmap},
			State:   MissingRequiredKeys,
			Missing: []string{"xAxisKey", "yAxisKey", "valueKey"},
		},
		{
			Name:    "key absent from data",
			Input:   Input{Dataset: ds, Rows: ds.Points(), Config: line("month", "profit"), Series: series("profit")},
			State:   MissingRequiredKeys,
			Missing: []string{"profit"},
		},
		{
			Name:  "empty rows",
			Input: Input{Dataset: &dataset.Dataset{}, Config: line("month", "sales"), Series: series("sales")},
			State: EmptyData,
		},
		{
			Name:  "pie ready",
			Input: Input{Dataset: ds, Rows: ds.Points(), Config: pie("month", "sales")},
			State: Ready,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			st, geo := Evaluate(tt.Input, chartdeck.Size{Width: 800, Height: 400}, chartdeck.Options{})
			if st.State != tt.State {
				t.Fatalf("state mismatched! want %s, got %s (%v)", tt.State, st.State, st.Err)
			}
			if !slices.Equal(st.Missing, tt.Missing) {
				t.Errorf("missing keys mismatched! want %v, got %v", tt.Missing, st.Missing)
			}
			if (geo != nil) != st.Ready() {
				t.Errorf("geometry should only be computed when ready")
			}
			if !st.Ready() && st.Placeholder().Title == "" {
				t.Errorf("placeholder without title")
			}
		})
	}
}

func TestEvaluateInvalidData(t *testing.T) {
	ds := &dataset.Dataset{
		Headers: []dataset.Header{
			{ID: "c-1", Name: "fruit", Data: []any{"apple", "pear"}},
			{ID: "c-2", Name: "count", Data: []any{"many", "few"}},
		},
		RowCount:    2,
		ColumnCount: 2,
	}
	cfg := config.New(config.Pie).(*config.PieConfig)
	cfg.LabelKey = "fruit"
	cfg.ValueKey = "count"

	st, _ := Evaluate(Input{Dataset: ds, Rows: ds.Points(), Config: cfg}, chartdeck.Size{}, chartdeck.Options{})
	if st.State != InvalidData {
		t.Fatalf("state mismatched! want %s, got %s", InvalidData, st.State)
	}
	if st.Column != "c-2" {
		t.Errorf("invalid column should be reported by id, got %s", st.Column)
	}
	if p := st.Placeholder(); !p.Error {
		t.Errorf("invalid data placeholder should be an error")
	}
}

func TestChartNoSeries(t *testing.T) {
	chart := New(lineEditor(t), Options{})
	defer chart.Close()
	if err := chart.SetDataset(salesDataset()); err != nil {
		t.Fatalf("set dataset: %s", err)
	}
	if st := chart.State(); st != NoVisibleSeries {
		t.Fatalf("state mismatched! want %s, got %s", NoVisibleSeries, st)
	}
	doc, _ := chart.Document()
	if len(doc.Series) != 0 {
		t.Errorf("no series expected")
	}
	frame, err := chart.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %s", err)
	}
	if !bytes.Contains(frame, []byte("No series to display")) {
		t.Errorf("placeholder expected in place of the chart")
	}
}

func TestChartLineHappyPath(t *testing.T) {
	chart := New(lineEditor(t, "sales"), Options{})
	defer chart.Close()
	if err := chart.SetDataset(salesDataset()); err != nil {
		t.Fatalf("set dataset: %s", err)
	}
	if st := chart.Status(); st.State != Ready {
		t.Fatalf("state mismatched! want %s, got %s (%v)", Ready, st.State, st.Err)
	}
	scene, ok := chart.Scene()
	if !ok {
		t.Fatalf("ready chart should have a scene")
	}
	c, ok := scene.Geometry.(*chartdeck.Cartesian)
	if !ok {
		t.Fatalf("cartesian geometry expected, got %T", scene.Geometry)
	}
	if c.YDomain != [2]float64{0, 200} {
		t.Errorf("y domain mismatched! want [0 200], got %v", c.YDomain)
	}
	if !slices.Equal(c.XDomain, []string{"Jan", "Feb"}) {
		t.Errorf("x domain mismatched! want [Jan Feb], got %v", c.XDomain)
	}
}

func TestChartPieMissingKeys(t *testing.T) {
	cfg := config.New(config.Pie).(*config.PieConfig)
	cfg.LabelKey = "month"

	chart := New(config.NewEditor(cfg), Options{})
	defer chart.Close()
	if err := chart.SetDataset(salesDataset()); err != nil {
		t.Fatalf("set dataset: %s", err)
	}
	st := chart.Status()
	if st.State != MissingRequiredKeys {
		t.Fatalf("state mismatched! want %s, got %s", MissingRequiredKeys, st.State)
	}
	if !slices.Equal(st.Missing, []string{"valueKey"}) {
		t.Errorf("missing keys mismatched! got %v", st.Missing)
	}
}

func TestChartTransitions(t *testing.T) {
	chart := New(nil, Options{})
	defer chart.Close()
	if st := chart.State(); st != NoDataset {
		t.Fatalf("new chart should have no dataset, got %s", st)
	}
	if err := chart.Edit(func(*config.Editor) error { return nil }); !errors.Is(err, ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}
	chart.SetDataset(salesDataset())
	if st := chart.State(); st != NoConfig {
		t.Fatalf("state mismatched! want %s, got %s", NoConfig, st)
	}
	chart.SetType(config.Line)
	if st := chart.State(); st != NoVisibleSeries {
		t.Fatalf("state mismatched! want %s, got %s", NoVisibleSeries, st)
	}
	err := chart.Edit(func(ed *config.Editor) error {
		_, err := ed.AddSeries()
		return err
	})
	if err != nil {
		t.Fatalf("edit: %s", err)
	}
	if st := chart.State(); st != Ready {
		t.Fatalf("state mismatched! want %s, got %s", Ready, st)
	}
	chart.SetOperations(ops.DatasetConfig{
		Filters: []ops.Filter{{Column: "sales", Op: ops.OpGreater, Value: "1000"}},
	})
	if st := chart.State(); st != EmptyData {
		t.Fatalf("state mismatched! want %s, got %s", EmptyData, st)
	}
	err = chart.SetOperations(ops.DatasetConfig{
		Filters: []ops.Filter{{Column: "price", Op: ops.OpEqual}},
	})
	if !errors.Is(err, ops.ErrColumn) {
		t.Errorf("expected ops.ErrColumn, got %v", err)
	}
	if st := chart.State(); st != EmptyData {
		t.Errorf("rejected operations should not change the state, got %s", st)
	}
}

func TestChartEditRoundTrip(t *testing.T) {
	chart := New(lineEditor(t, "sales"), Options{})
	defer chart.Close()
	chart.SetDataset(salesDataset())

	err := chart.Edit(func(ed *config.Editor) error {
		return ed.Update(func(cfg config.Config) {
			cfg.Common().Theme = config.ThemeDark
			cfg.Common().Title = "Revenue"
		})
	})
	if err != nil {
		t.Fatalf("edit: %s", err)
	}
	scene, ok := chart.Scene()
	if !ok {
		t.Fatalf("chart should be ready")
	}
	if got := chart.Monitor().Current().Theme; got != config.ThemeDark {
		t.Errorf("theme override not given to monitor, got %s", got)
	}
	if scene.Style.Background != "#111827" {
		t.Errorf("dark style expected, got background %s", scene.Style.Background)
	}
	c := scene.Geometry.(*chartdeck.Cartesian)
	if c.Title != "Revenue" {
		t.Errorf("title mismatched! want Revenue, got %s", c.Title)
	}

	chart.SetType(config.Bar)
	doc, _ := chart.Document()
	if doc.Config.Common().Title != "Revenue" {
		t.Errorf("title should survive a change of type")
	}
	if bar, ok := doc.Config.(*config.BarConfig); !ok || len(bar.DisabledBars) != 0 {
		t.Errorf("bar configuration without disabled series expected")
	}
}

func TestChartResize(t *testing.T) {
	chart := New(lineEditor(t, "sales"), Options{})
	defer chart.Close()
	chart.SetDataset(salesDataset())

	scene, _ := chart.Scene()
	if w := scene.Geometry.Frame().Outer.Width; w != config.DefaultWidth {
		t.Errorf("chart should follow the width of its configuration, got %f", w)
	}
	chart.Resize(400, 300)
	scene, _ = chart.Scene()
	if w := scene.Geometry.Frame().Outer.Width; w != 400 {
		t.Errorf("width mismatched after resize! want 400, got %f", w)
	}
}

func TestChartPlayPlaceholder(t *testing.T) {
	chart := New(nil, Options{})
	defer chart.Close()
	var frames [][]byte
	err := chart.Play(context.Background(), 10, func(b []byte) error {
		frames = append(frames, b)
		return nil
	})
	if err != nil {
		t.Fatalf("play: %s", err)
	}
	if len(frames) != 1 || !bytes.Contains(frames[0], []byte("No dataset selected")) {
		t.Errorf("a single placeholder frame expected")
	}
}

func TestChartClose(t *testing.T) {
	chart := New(lineEditor(t, "sales"), Options{})
	chart.SetDataset(salesDataset())
	if n := chart.Monitor().Observers(); n != 1 {
		t.Fatalf("chart should observe its monitor, got %d observers", n)
	}
	if err := chart.Close(); err != nil {
		t.Fatalf("close: %s", err)
	}
	if n := chart.Monitor().Observers(); n != 0 {
		t.Errorf("observers left after close: %d", n)
	}
	if err := chart.SetDataset(salesDataset()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := chart.Snapshot(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := chart.Close(); err != nil {
		t.Errorf("closing twice should not fail: %s", err)
	}
}
