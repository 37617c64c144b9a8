package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type ColumnType string

const (
	TypeText   ColumnType = "text"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

// Header is the metadata of a column together with its raw values.
type Header struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Type       ColumnType `json:"type" yaml:"type"`
	DateFormat string     `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	Data       []any      `json:"data" yaml:"data"`
}

// Dataset is the column oriented representation used by the dataset
// collaborator. It is never mutated by the chart pipeline.
type Dataset struct {
	Headers     []Header `json:"headers" yaml:"headers"`
	RowCount    int      `json:"rowCount" yaml:"rowCount"`
	ColumnCount int      `json:"columnCount" yaml:"columnCount"`
}

var ErrDataset = errors.New("invalid dataset")

// Decode reads a dataset in its JSON form. Either the column oriented object
// or a plain array with a header row is accepted.
func Decode(r io.Reader) (*Dataset, error) {
	var raw json.RawMessage
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataset, err)
	}
	var table [][]any
	if err := unmarshalNumber(raw, &table); err == nil {
		return FromTable(table), nil
	}
	var ds Dataset
	if err := unmarshalNumber(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataset, err)
	}
	ds.normalize()
	return &ds, nil
}

func unmarshalNumber(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// FromTable builds a dataset out of an array with a header row. Header ids
// are the column names and column types are inferred from the cells.
func FromTable(table [][]any) *Dataset {
	var ds Dataset
	if len(table) == 0 {
		return &ds
	}
	names := headerNames(table[0])
	for i, n := range names {
		h := Header{
			ID:   n,
			Name: n,
		}
		for _, row := range table[1:] {
			var cell any
			if i < len(row) {
				cell = row[i]
			}
			h.Data = append(h.Data, cell)
		}
		ds.Headers = append(ds.Headers, h)
	}
	ds.normalize()
	return &ds
}

func (d *Dataset) normalize() {
	d.ColumnCount = len(d.Headers)
	var rows int
	for i := range d.Headers {
		if n := len(d.Headers[i].Data); n > rows {
			rows = n
		}
		if d.Headers[i].Type == "" {
			d.Headers[i].Type = inferType(d.Headers[i].Data)
		}
	}
	if d.RowCount < rows {
		d.RowCount = rows
	}
}

func inferType(values []any) ColumnType {
	if len(values) == 0 {
		return TypeText
	}
	for _, v := range values {
		if missing(v) {
			continue
		}
		if _, ok := coerce(v); !ok {
			return TypeText
		}
	}
	return TypeNumber
}

// Header returns the header with the given id.
func (d *Dataset) Header(id string) (Header, bool) {
	if d == nil {
		return Header{}, false
	}
	for _, h := range d.Headers {
		if h.ID == id {
			return h, true
		}
	}
	return Header{}, false
}

// Names returns the keys of the columns in order: their display names made
// unique.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	return columnKeys(d.Headers)
}

func columnKeys(headers []Header) []string {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h.Name
	}
	return headerNames(row)
}

// Table converts the dataset to the array with header row format.
func (d *Dataset) Table() [][]any {
	if d == nil || len(d.Headers) == 0 {
		return nil
	}
	rows := d.RowCount
	for _, h := range d.Headers {
		if len(h.Data) > rows {
			rows = len(h.Data)
		}
	}
	table := make([][]any, 0, rows+1)
	header := make([]any, len(d.Headers))
	for i, k := range columnKeys(d.Headers) {
		header[i] = k
	}
	table = append(table, header)
	for r := 0; r < rows; r++ {
		row := make([]any, len(d.Headers))
		for i, h := range d.Headers {
			if r < len(h.Data) {
				row[i] = h.Data[r]
			}
		}
		table = append(table, row)
	}
	return table
}

// Points materializes the dataset.
func (d *Dataset) Points() []Point {
	return ArrayToPoints(d.Table())
}

func (d *Dataset) Empty() bool {
	return d == nil || d.RowCount == 0
}
