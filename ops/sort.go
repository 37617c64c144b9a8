package ops

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/midbel/chartdeck/dataset"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort orders the rows by one column. Numeric columns are compared as
// numbers, text columns with the collation of Locale (root collation when
// empty). Missing cells come last.
type Sort struct {
	Column    string    `json:"column" yaml:"column"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	Locale    string    `json:"locale,omitempty" yaml:"locale,omitempty"`
}

func (t *table) sort(s Sort) error {
	ix, err := t.index(s.Column)
	if err != nil {
		return err
	}
	var desc bool
	switch s.Direction {
	case Ascending, "":
	case Descending:
		desc = true
	default:
		return fmt.Errorf("%s: %w", s.Direction, ErrDirection)
	}
	cmp := t.comparer(ix, s.Locale)
	slices.SortStableFunc(t.rows, func(a, b []any) int {
		var (
			ma = !present(a[ix])
			mb = !present(b[ix])
		)
		switch {
		case ma && mb:
			return 0
		case ma:
			return 1
		case mb:
			return -1
		}
		c := cmp(a[ix], b[ix])
		if desc {
			c = -c
		}
		return c
	})
	return nil
}

func (t *table) comparer(ix int, locale string) func(a, b any) int {
	if t.numeric(ix) {
		return func(a, b any) int {
			x, _ := dataset.Coerce(a)
			y, _ := dataset.Coerce(b)
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
	tag := language.Und
	if locale != "" {
		tg, err := language.Parse(locale)
		if err != nil {
			logger().Warn("invalid locale, root collation used", slog.String("locale", locale))
		} else {
			tag = tg
		}
	}
	col := collate.New(tag, collate.IgnoreCase, collate.Numeric)
	return func(a, b any) int {
		return col.CompareString(dataset.Stringify(a), dataset.Stringify(b))
	}
}

// numeric reports whether every present cell of column ix is a number.
func (t *table) numeric(ix int) bool {
	if t.headers[ix].Type == dataset.TypeNumber {
		return true
	}
	var found bool
	for _, row := range t.rows {
		if !present(row[ix]) {
			continue
		}
		if _, ok := dataset.Coerce(row[ix]); !ok {
			return false
		}
		found = true
	}
	return found
}
