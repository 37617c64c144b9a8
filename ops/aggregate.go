package ops

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/midbel/chartdeck/dataset"
)

type Func string

const (
	FuncSum   Func = "sum"
	FuncCount Func = "count"
	FuncAvg   Func = "avg"
	FuncMin   Func = "min"
	FuncMax   Func = "max"
)

// Metric is one aggregated column. Count does not need a column. Alias is the
// name of the result column, fn(column) by default.
type Metric struct {
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
	Func   Func   `json:"func" yaml:"func"`
	Alias  string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

type Aggregation struct {
	GroupBy []string `json:"groupBy" yaml:"groupBy"`
	Metrics []Metric `json:"metrics" yaml:"metrics"`
}

type group struct {
	key  []any
	rows [][]any
}

// aggregate groups the rows by the values of the group by columns, in order
// of first appearance, and computes one column per metric. The result keeps
// the group by columns followed by the metrics columns. Metric columns get a
// new id.
func (t *table) aggregate(agg Aggregation) (*table, error) {
	if len(agg.GroupBy) == 0 {
		return nil, ErrGroupBy
	}
	var (
		keys    = make([]int, 0, len(agg.GroupBy))
		metrics = make([]int, 0, len(agg.Metrics))
		next    table
	)
	for _, g := range agg.GroupBy {
		ix, err := t.index(g)
		if err != nil {
			return nil, err
		}
		keys = append(keys, ix)
		next.headers = append(next.headers, t.headers[ix])
	}
	for _, m := range agg.Metrics {
		ix := -1
		if m.Func != FuncCount || m.Column != "" {
			i, err := t.index(m.Column)
			if err != nil {
				return nil, err
			}
			ix = i
		}
		if !m.Func.valid() {
			return nil, fmt.Errorf("%s: %w", m.Func, ErrFunc)
		}
		metrics = append(metrics, ix)
		next.headers = append(next.headers, dataset.Header{
			ID:   uuid.NewString(),
			Name: m.name(t.headers, ix),
			Type: dataset.TypeNumber,
		})
	}
	for _, g := range t.groups(keys) {
		row := make([]any, 0, len(next.headers))
		row = append(row, g.key...)
		for i, m := range agg.Metrics {
			row = append(row, m.Func.apply(g.rows, metrics[i]))
		}
		next.rows = append(next.rows, row)
	}
	return &next, nil
}

func (t *table) groups(keys []int) []group {
	var (
		list  []group
		index = make(map[string]int)
	)
	for _, row := range t.rows {
		var (
			parts = make([]string, 0, len(keys))
			key   = make([]any, 0, len(keys))
		)
		for _, k := range keys {
			parts = append(parts, dataset.Stringify(row[k]))
			key = append(key, row[k])
		}
		id := strings.Join(parts, "\x00")
		ix, ok := index[id]
		if !ok {
			ix = len(list)
			index[id] = ix
			list = append(list, group{key: key})
		}
		list[ix].rows = append(list[ix].rows, row)
	}
	return list
}

func (m Metric) name(headers []dataset.Header, ix int) string {
	if m.Alias != "" {
		return m.Alias
	}
	if ix < 0 {
		return string(m.Func)
	}
	return fmt.Sprintf("%s(%s)", m.Func, headers[ix].Name)
}

func (f Func) valid() bool {
	switch f {
	case FuncSum, FuncCount, FuncAvg, FuncMin, FuncMax:
		return true
	default:
		return false
	}
}

// apply computes f over column ix of rows. Non numeric cells are skipped
// except by count without a column.
func (f Func) apply(rows [][]any, ix int) float64 {
	if f == FuncCount && ix < 0 {
		return float64(len(rows))
	}
	var (
		values = make([]float64, 0, len(rows))
		sum    float64
	)
	for _, row := range rows {
		v, ok := dataset.Coerce(row[ix])
		if !ok {
			continue
		}
		values = append(values, v)
		sum += v
	}
	switch f {
	case FuncCount:
		return float64(len(values))
	case FuncSum:
		return sum
	case FuncAvg:
		if len(values) == 0 {
			return 0
		}
		return sum / float64(len(values))
	case FuncMin, FuncMax:
		if len(values) == 0 {
			return 0
		}
		res := values[0]
		for _, v := range values[1:] {
			if f == FuncMin {
				res = math.Min(res, v)
			} else {
				res = math.Max(res, v)
			}
		}
		return res
	default:
		return 0
	}
}
