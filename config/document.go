package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/format"
	"gopkg.in/yaml.v3"
)

// Document is the persisted form of a chart. Column references are stored as
// dataset column ids and used as display names in memory.
type Document struct {
	Config     Config
	ChartType  ChartType
	Formatters map[string]format.Spec
	Series     []SeriesConfig
	Colors     ColorConfig
}

type document struct {
	Config     json.RawMessage        `json:"config"`
	ChartType  ChartType              `json:"chartType"`
	Formatters map[string]format.Spec `json:"formatters"`
	Series     []SeriesConfig         `json:"seriesConfigs"`
	Colors     ColorConfig            `json:"colors"`
}

var ErrDocument = errors.New("invalid chart document")

// EncodeJSON writes doc with every column reference replaced by its id.
func EncodeJSON(w io.Writer, doc Document, res dataset.Resolver) error {
	raw, err := encode(doc, res)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

// EncodeYAML writes doc in YAML with every column reference replaced by its
// id.
func EncodeYAML(w io.Writer, doc Document, res dataset.Resolver) error {
	raw, err := encode(doc, res)
	if err != nil {
		return err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(buf, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// DecodeJSON reads a document and replaces the column ids by their display
// names.
func DecodeJSON(r io.Reader, res dataset.Resolver) (Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrDocument, err)
	}
	return decode(raw, res)
}

// DecodeYAML is DecodeJSON for documents written in YAML.
func DecodeYAML(r io.Reader, res dataset.Resolver) (Document, error) {
	var tree any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrDocument, err)
	}
	buf, err := json.Marshal(tree)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrDocument, err)
	}
	return DecodeJSON(bytes.NewReader(buf), res)
}

func encode(doc Document, res dataset.Resolver) (document, error) {
	cfg := doc.Config
	if cfg == nil {
		cfg = New(doc.ChartType)
	}
	cfg = cfg.Clone()
	cfg.keys(res.ID)

	body, err := json.Marshal(cfg)
	if err != nil {
		return document{}, err
	}
	raw := document{
		Config:     body,
		ChartType:  cfg.Type(),
		Formatters: renameKeys(doc.Formatters, res.ID),
		Series:     renameSeries(doc.Series, res.ID),
		Colors:     renameKeys(doc.Colors, res.ID),
	}
	return raw, nil
}

func decode(raw document, res dataset.Resolver) (Document, error) {
	cfg := New(raw.ChartType)
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, cfg); err != nil {
			return Document{}, fmt.Errorf("%w: %s", ErrDocument, err)
		}
	}
	normalize(cfg)
	cfg.keys(res.Name)
	doc := Document{
		Config:     cfg,
		ChartType:  cfg.Type(),
		Formatters: renameKeys(raw.Formatters, res.Name),
		Series:     renameSeries(raw.Series, res.Name),
		Colors:     renameKeys(raw.Colors, res.Name),
	}
	return doc, nil
}

func renameKeys[T any, M ~map[string]T](values M, fn func(string) string) M {
	if values == nil {
		return nil
	}
	out := make(M, len(values))
	for k, v := range values {
		out[fn(k)] = v
	}
	return out
}

func renameSeries(list []SeriesConfig, fn func(string) string) []SeriesConfig {
	if list == nil {
		return nil
	}
	out := make([]SeriesConfig, len(list))
	for i, s := range list {
		s.DataColumn = fn(s.DataColumn)
		out[i] = s
	}
	return out
}

func renameAll(list []string, fn func(string) string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i := range list {
		out[i] = fn(list[i])
	}
	return out
}

func renameOne(key string, fn func(string) string) string {
	if key == "" {
		return key
	}
	return fn(key)
}

func (b *Base) keys(fn func(string) string) {
	b.XAxisKey = renameOne(b.XAxisKey, fn)
	b.YAxisKeys = renameAll(b.YAxisKeys, fn)
}

func (c *LineConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.DisabledLines = renameAll(c.DisabledLines, fn)
}

func (c *BarConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.DisabledBars = renameAll(c.DisabledBars, fn)
}

func (c *AreaConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.DisabledAreas = renameAll(c.DisabledAreas, fn)
}

func (c *ScatterConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.DisabledPoints = renameAll(c.DisabledPoints, fn)
}

func (c *PieConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.LabelKey = renameOne(c.LabelKey, fn)
	c.ValueKey = renameOne(c.ValueKey, fn)
}

func (c *HeatmapConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.YAxisKey = renameOne(c.YAxisKey, fn)
	c.ValueKey = renameOne(c.ValueKey, fn)
}

func (c *CyclePlotConfig) keys(fn func(string) string) {
	c.Base.keys(fn)
	c.CycleKey = renameOne(c.CycleKey, fn)
	c.PeriodKey = renameOne(c.PeriodKey, fn)
	c.ValueKey = renameOne(c.ValueKey, fn)
}

func blockStyle(node *yaml.Node) {
	node.Style &^= yaml.FlowStyle
	for _, n := range node.Content {
		blockStyle(n)
	}
}
