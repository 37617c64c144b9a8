package dataset

import (
	"fmt"
)

// ColumnError reports a column holding values that can not be used where a
// numeric column is required.
type ColumnError struct {
	Column string
	Row    int
	Value  string
}

func (e ColumnError) Error() string {
	return fmt.Sprintf("column %s: non numeric value %q at row %d", e.Column, e.Value, e.Row+1)
}

// Numeric checks that every value of key is a number. The first offending
// row is reported.
func Numeric(points []Point, key string) error {
	for i, p := range points {
		v, ok := p.Get(key)
		if !ok {
			return &ColumnError{
				Column: key,
				Row:    i,
			}
		}
		if _, ok := v.Float(); !ok {
			return &ColumnError{
				Column: key,
				Row:    i,
				Value:  v.String(),
			}
		}
	}
	return nil
}
