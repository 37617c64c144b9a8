package ops

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/midbel/chartdeck/dataset"
)

var (
	ErrColumn    = errors.New("unknown column")
	ErrOperator  = errors.New("unknown operator")
	ErrFunc      = errors.New("unknown aggregate function")
	ErrGroupBy   = errors.New("aggregation without group by")
	ErrDirection = errors.New("unknown sort direction")
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "ops"))
}

// DatasetConfig describes the operations applied to a dataset before it is
// materialized: filters, then aggregation, then sort. Columns are given by
// id or by name.
type DatasetConfig struct {
	Filters     []Filter     `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort        *Sort        `json:"sort,omitempty" yaml:"sort,omitempty"`
	Aggregation *Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
}

func (c DatasetConfig) Empty() bool {
	return len(c.Filters) == 0 && c.Sort == nil && c.Aggregation == nil
}

// Apply returns a new dataset built from ds by the operations of cfg. ds is
// left untouched.
func Apply(ds *dataset.Dataset, cfg DatasetConfig) (*dataset.Dataset, error) {
	if ds == nil || cfg.Empty() {
		return ds, nil
	}
	tab := fromDataset(ds)
	if len(cfg.Filters) > 0 {
		if err := tab.filter(cfg.Filters); err != nil {
			return nil, err
		}
	}
	if cfg.Aggregation != nil {
		next, err := tab.aggregate(*cfg.Aggregation)
		if err != nil {
			return nil, err
		}
		tab = next
	}
	if cfg.Sort != nil {
		if err := tab.sort(*cfg.Sort); err != nil {
			return nil, err
		}
	}
	logger().Debug("operations applied", slog.Int("rows-in", ds.RowCount), slog.Int("rows-out", len(tab.rows)))
	return tab.dataset(), nil
}

// table is the row oriented copy of a dataset the operations work on.
type table struct {
	headers []dataset.Header
	rows    [][]any
}

func fromDataset(ds *dataset.Dataset) *table {
	var tab table
	for _, h := range ds.Headers {
		h.Data = nil
		tab.headers = append(tab.headers, h)
	}
	for r := 0; r < ds.RowCount; r++ {
		row := make([]any, len(ds.Headers))
		for i, h := range ds.Headers {
			if r < len(h.Data) {
				row[i] = h.Data[r]
			}
		}
		tab.rows = append(tab.rows, row)
	}
	return &tab
}

func (t *table) dataset() *dataset.Dataset {
	ds := dataset.Dataset{
		RowCount:    len(t.rows),
		ColumnCount: len(t.headers),
	}
	for i, h := range t.headers {
		h.Data = make([]any, 0, len(t.rows))
		for _, row := range t.rows {
			h.Data = append(h.Data, row[i])
		}
		ds.Headers = append(ds.Headers, h)
	}
	return &ds
}

// index returns the position of the column identified by ref. Ids are
// looked up before names.
func (t *table) index(ref string) (int, error) {
	for i, h := range t.headers {
		if h.ID == ref {
			return i, nil
		}
	}
	names := (&dataset.Dataset{Headers: t.headers}).Names()
	if i := slices.Index(names, ref); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%s: %w", ref, ErrColumn)
}
