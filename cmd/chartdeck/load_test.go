package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/midbel/chartdeck/display"
)

const salesCSV = `month,region,sales
Jan,north,100
Feb,north,200
Mar,south,150
`

const lineChart = `chartType: line
config:
  xAxisKey: month
  title: Sales
  showLegend: true
  showTooltip: true
seriesConfigs:
  - id: s-1
    name: Sales
    dataColumn: sales
    visible: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %s", name, err)
	}
	return file
}

func TestLoadDataset(t *testing.T) {
	tests := []struct {
		Name    string
		File    string
		Content string
	}{
		{
			Name:    "csv",
			File:    "sales.csv",
			Content: salesCSV,
		},
		{
			Name:    "json table",
			File:    "sales.json",
			Content: `[["month","region","sales"],["Jan","north",100],["Feb","north",200],["Mar","south",150]]`,
		},
		{
			Name: "json dataset",
			File: "sales.json",
			Content: `{"headers": [
				{"id": "month", "name": "month", "type": "text", "data": ["Jan", "Feb", "Mar"]},
				{"id": "region", "name": "region", "type": "text", "data": ["north", "north", "south"]},
				{"id": "sales", "name": "sales", "type": "number", "data": [100, 200, 150]}
			], "rowCount": 3, "columnCount": 3}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			ds, err := loadDataset(writeFile(t, tt.File, tt.Content))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !slices.Equal(ds.Names(), []string{"month", "region", "sales"}) {
				t.Errorf("columns mismatched! got %v", ds.Names())
			}
			if ds.RowCount != 3 {
				t.Errorf("row count mismatched! want 3, got %d", ds.RowCount)
			}
			pts := ds.Points()
			if got := pts[1].Float("sales"); got != 200 {
				t.Errorf("value mismatched! want 200, got %f", got)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	ds, err := readCSV(strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var buf bytes.Buffer
	if err := writeCSV(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := buf.String(); got != salesCSV {
		t.Errorf("csv mismatched! want %q, got %q", salesCSV, got)
	}
}

func TestOpenChart(t *testing.T) {
	ds, err := readCSV(strings.NewReader(salesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	file := writeFile(t, "sales.yaml", lineChart)

	t.Run("ready", func(t *testing.T) {
		ch, err := openChart(file, ds, ChartOptions{Width: 640, Height: 480})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		defer ch.Close()
		if !ch.Status().Ready() {
			t.Fatalf("chart should be ready, got %s", ch.State())
		}
		var buf bytes.Buffer
		if err := ch.Render(&buf); err != nil {
			t.Fatalf("render: %s", err)
		}
		if !strings.Contains(buf.String(), "<svg") {
			t.Errorf("svg document expected")
		}
	})
	t.Run("operations", func(t *testing.T) {
		ops := writeFile(t, "ops.yaml", "filters:\n  - column: region\n    operator: eq\n    value: west\n")
		ch, err := openChart(file, ds, ChartOptions{Operations: ops})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		defer ch.Close()
		if ch.State() != display.EmptyData {
			t.Errorf("filtered out rows should give %s, got %s", display.EmptyData, ch.State())
		}
	})
	t.Run("invalid operations", func(t *testing.T) {
		ops := writeFile(t, "ops.yaml", "sort:\n  column: price\n")
		if _, err := openChart(file, ds, ChartOptions{Operations: ops}); err == nil {
			t.Errorf("unknown column in operations should be rejected")
		}
	})
}

func TestOutputName(t *testing.T) {
	got := outputName("out", filepath.Join("charts", "sales.yaml"), "svg")
	if want := filepath.Join("out", "sales.svg"); got != want {
		t.Errorf("output name mismatched! want %s, got %s", want, got)
	}
}
