package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/display"
	"github.com/midbel/chartdeck/ops"
	"gopkg.in/yaml.v3"
)

// ChartOptions are the flags shared by the commands drawing a chart.
type ChartOptions struct {
	Width      int
	Height     int
	Theme      string
	Operations string
}

func (o ChartOptions) size() chartdeck.Size {
	if o.Width <= 0 || o.Height <= 0 {
		return chartdeck.Size{}
	}
	return chartdeck.Size{
		Width:  float64(o.Width),
		Height: float64(o.Height),
	}
}

// openChart builds a chart instance from a chart document and a dataset.
func openChart(file string, ds *dataset.Dataset, opts ChartOptions) (*display.Chart, error) {
	doc, err := loadDocument(file, dataset.Resolve(ds))
	if err != nil {
		return nil, err
	}
	ed, err := config.Open(doc, config.WithColumns(ds.Names()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	ch := display.New(ed, display.Options{
		Size:       opts.size(),
		Standalone: true,
	})
	if opts.Theme != "" {
		theme := config.Theme(strings.ToLower(opts.Theme))
		err := ch.Edit(func(e *config.Editor) error {
			return e.Update(func(cfg config.Config) {
				cfg.Common().Theme = theme
			})
		})
		if err != nil {
			ch.Close()
			return nil, err
		}
	}
	if opts.Operations != "" {
		cfg, err := loadOperations(opts.Operations)
		if err != nil {
			ch.Close()
			return nil, err
		}
		if err := ch.SetOperations(cfg); err != nil {
			ch.Close()
			return nil, err
		}
	}
	if err := ch.SetDataset(ds); err != nil {
		ch.Close()
		return nil, err
	}
	return ch, nil
}

func loadDocument(file string, res dataset.Resolver) (config.Document, error) {
	r, err := os.Open(file)
	if err != nil {
		return config.Document{}, err
	}
	defer r.Close()
	if isJSON(file) {
		return config.DecodeJSON(r, res)
	}
	return config.DecodeYAML(r, res)
}

func loadOperations(file string) (ops.DatasetConfig, error) {
	var cfg ops.DatasetConfig
	buf, err := os.ReadFile(file)
	if err != nil {
		return cfg, err
	}
	if isJSON(file) {
		err = json.Unmarshal(buf, &cfg)
	} else {
		err = yaml.Unmarshal(buf, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

// loadDataset reads a dataset in the collaborator json format, a json array
// with a header row or a csv file.
func loadDataset(file string) (*dataset.Dataset, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if !isJSON(file) {
		return readCSV(bytes.NewReader(buf))
	}
	buf = bytes.TrimSpace(buf)
	if bytes.HasPrefix(buf, []byte("[")) {
		var table [][]any
		if err := json.Unmarshal(buf, &table); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return dataset.FromTable(table), nil
	}
	return dataset.Decode(bytes.NewReader(buf))
}

func readCSV(r io.Reader) (*dataset.Dataset, error) {
	rs := csv.NewReader(r)
	rs.FieldsPerRecord = -1
	rs.TrimLeadingSpace = true

	var table [][]any
	for {
		row, err := rs.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cells := make([]any, 0, len(row))
		for _, c := range row {
			cells = append(cells, c)
		}
		table = append(table, cells)
	}
	return dataset.FromTable(table), nil
}

func writeCSV(w io.Writer, ds *dataset.Dataset) error {
	ws := csv.NewWriter(w)
	for _, row := range ds.Table() {
		line := make([]string, 0, len(row))
		for _, c := range row {
			line = append(line, dataset.Stringify(c))
		}
		if err := ws.Write(line); err != nil {
			return err
		}
	}
	ws.Flush()
	return ws.Error()
}

func isJSON(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".json")
}

// output calls fn with the file to write to, stdout when file is empty.
func output(file string, fn func(io.Writer) error) error {
	if file == "" {
		return fn(os.Stdout)
	}
	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func outputName(dir, chart, ext string) string {
	base := strings.TrimSuffix(filepath.Base(chart), filepath.Ext(chart))
	return filepath.Join(dir, base+"."+ext)
}
