package ops

import (
	"fmt"
	"slices"
	"strings"

	"github.com/midbel/chartdeck/dataset"
)

type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpContains     Operator = "contains"
	OpIn           Operator = "in"
	OpEmpty        Operator = "empty"
	OpNotEmpty     Operator = "notempty"
)

// Filter keeps the rows whose column matches. Text comparisons ignore case.
// Values is only used by OpIn.
type Filter struct {
	Column string   `json:"column" yaml:"column"`
	Op     Operator `json:"operator" yaml:"operator"`
	Value  string   `json:"value,omitempty" yaml:"value,omitempty"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

type predicate func(cell any) bool

// filter keeps the rows matching every filter.
func (t *table) filter(filters []Filter) error {
	var (
		cols  = make([]int, 0, len(filters))
		preds = make([]predicate, 0, len(filters))
	)
	for _, f := range filters {
		ix, err := t.index(f.Column)
		if err != nil {
			return err
		}
		pred, err := f.predicate()
		if err != nil {
			return err
		}
		cols = append(cols, ix)
		preds = append(preds, pred)
	}
	t.rows = slices.DeleteFunc(t.rows, func(row []any) bool {
		for i, pred := range preds {
			if !pred(row[cols[i]]) {
				return true
			}
		}
		return false
	})
	return nil
}

func (f Filter) predicate() (predicate, error) {
	switch f.Op {
	case OpEqual, "":
		return func(cell any) bool {
			return compare(cell, f.Value) == 0
		}, nil
	case OpNotEqual:
		return func(cell any) bool {
			return compare(cell, f.Value) != 0
		}, nil
	case OpGreater:
		return func(cell any) bool {
			return present(cell) && compare(cell, f.Value) > 0
		}, nil
	case OpGreaterEqual:
		return func(cell any) bool {
			return present(cell) && compare(cell, f.Value) >= 0
		}, nil
	case OpLess:
		return func(cell any) bool {
			return present(cell) && compare(cell, f.Value) < 0
		}, nil
	case OpLessEqual:
		return func(cell any) bool {
			return present(cell) && compare(cell, f.Value) <= 0
		}, nil
	case OpContains:
		needle := strings.ToLower(f.Value)
		return func(cell any) bool {
			return strings.Contains(strings.ToLower(dataset.Stringify(cell)), needle)
		}, nil
	case OpIn:
		set := make(map[string]struct{}, len(f.Values))
		for _, v := range f.Values {
			set[strings.ToLower(v)] = struct{}{}
		}
		return func(cell any) bool {
			_, ok := set[strings.ToLower(dataset.Stringify(cell))]
			return ok
		}, nil
	case OpEmpty:
		return func(cell any) bool {
			return !present(cell)
		}, nil
	case OpNotEmpty:
		return present, nil
	default:
		return nil, fmt.Errorf("%s: %w", f.Op, ErrOperator)
	}
}

func present(cell any) bool {
	return dataset.Stringify(cell) != ""
}

// compare compares a cell with a literal: numerically when both are numbers,
// as lower case text otherwise.
func compare(cell any, value string) int {
	if x, ok := dataset.Coerce(cell); ok {
		if y, ok := dataset.Coerce(value); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	a := strings.ToLower(dataset.Stringify(cell))
	b := strings.ToLower(value)
	return strings.Compare(a, b)
}
