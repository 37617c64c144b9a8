package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestArrayToPoints(t *testing.T) {
	tests := []struct {
		Name  string
		Input [][]any
		Want  int
	}{
		{
			Name:  "nil",
			Input: nil,
			Want:  0,
		},
		{
			Name:  "header-only",
			Input: [][]any{{"month", "sales"}},
			Want:  0,
		},
		{
			Name: "short-rows",
			Input: [][]any{
				{"month", "sales", "cost"},
				{"Jan"},
				{},
				{"Mar", 10, 20, 30},
			},
			Want: 3,
		},
		{
			Name: "empty-header",
			Input: [][]any{
				{},
				{"a", "b"},
			},
			Want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got := ArrayToPoints(tt.Input)
			if got == nil {
				t.Fatalf("nil result")
			}
			if len(got) != tt.Want {
				t.Fatalf("length mismatch! want %d, got %d", tt.Want, len(got))
			}
			for i := 1; i < len(got); i++ {
				if !reflect.DeepEqual(got[0].Keys(), got[i].Keys()) {
					t.Errorf("keys mismatch at row %d: %v != %v", i, got[0].Keys(), got[i].Keys())
				}
				for _, k := range got[0].Keys() {
					if !got[i].Has(k) {
						t.Errorf("row %d: missing key %s", i, k)
					}
				}
			}
		})
	}
}

func TestArrayToPointsCoercion(t *testing.T) {
	table := [][]any{
		{"label", "amount", "when", "note"},
		{"", "1,200", "2024-01-02", "N/A"},
		{nil, " 42 ", "01/02/2024", "text"},
		{"b", "-5", "-3.5", nil},
		{"N/A", 7.5, "1e-3", "x"},
	}
	points := ArrayToPoints(table)
	tests := []struct {
		Row    int
		Key    string
		Number bool
		Want   string
	}{
		{Row: 0, Key: "label", Want: "Unknown_1"},
		{Row: 1, Key: "label", Want: "Unknown_2"},
		{Row: 3, Key: "label", Want: "Unknown_4"},
		{Row: 0, Key: "amount", Number: true, Want: "1200"},
		{Row: 1, Key: "amount", Number: true, Want: "42"},
		{Row: 2, Key: "amount", Number: true, Want: "-5"},
		{Row: 3, Key: "amount", Number: true, Want: "7.5"},
		{Row: 0, Key: "when", Want: "2024-01-02"},
		{Row: 1, Key: "when", Want: "01/02/2024"},
		{Row: 2, Key: "when", Number: true, Want: "-3.5"},
		{Row: 3, Key: "when", Number: true, Want: "0.001"},
		{Row: 0, Key: "note", Number: true, Want: "0"},
		{Row: 2, Key: "note", Number: true, Want: "0"},
		{Row: 1, Key: "note", Want: "text"},
	}
	for _, tt := range tests {
		v, ok := points[tt.Row].Get(tt.Key)
		if !ok {
			t.Errorf("row %d: key %s missing", tt.Row, tt.Key)
			continue
		}
		if v.IsNumber() != tt.Number {
			t.Errorf("row %d, key %s: number mismatch! want %t, got %t", tt.Row, tt.Key, tt.Number, v.IsNumber())
		}
		if got := v.String(); got != tt.Want {
			t.Errorf("row %d, key %s: value mismatch! want %s, got %s", tt.Row, tt.Key, tt.Want, got)
		}
	}
}

func TestDuplicateHeaders(t *testing.T) {
	points := ArrayToPoints([][]any{
		{"a", "a", ""},
		{1, 2, 3},
	})
	want := []string{"a", "a_2", "Column_3"}
	if got := points[0].Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys mismatch! want %v, got %v", want, got)
	}
}

func TestDuplicateHeaderNames(t *testing.T) {
	ds := Dataset{
		Headers: []Header{
			{ID: "c1", Name: "sales", Data: []any{1, 2}},
			{ID: "c2", Name: "sales", Data: []any{10, 20}},
		},
		RowCount:    2,
		ColumnCount: 2,
	}
	if got, want := ds.Names(), []string{"sales", "sales_2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names mismatch! want %v, got %v", want, got)
	}
	var (
		res    = Resolve(&ds)
		points = ds.Points()
	)
	tests := []struct {
		ID   string
		Want float64
	}{
		{ID: "c1", Want: 2},
		{ID: "c2", Want: 20},
	}
	for _, tt := range tests {
		key := res.DataKey(tt.ID, points[1])
		if got := points[1].Float(key); got != tt.Want {
			t.Errorf("%s: value mismatch! want %f, got %f (key %s)", tt.ID, tt.Want, got, key)
		}
		if got := res.ID(key); got != tt.ID {
			t.Errorf("%s: id round trip failed, got %s", tt.ID, got)
		}
	}
}

func TestDatasetTable(t *testing.T) {
	ds := Dataset{
		Headers: []Header{
			{ID: "c1", Name: "month", Type: TypeText, Data: []any{"Jan", "Feb", "Mar"}},
			{ID: "c2", Name: "sales", Type: TypeNumber, Data: []any{100.0, "200"}},
		},
		RowCount:    3,
		ColumnCount: 2,
	}
	points := ds.Points()
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if got := points[2].Float("sales"); got != 0 {
		t.Errorf("missing value should be 0, got %f", got)
	}
	if got := points[1].Float("sales"); got != 200 {
		t.Errorf("value mismatch! want 200, got %f", got)
	}
}

func TestDecode(t *testing.T) {
	t.Run("columns", func(t *testing.T) {
		str := `{"headers": [{"id": "h1", "name": "city", "type": "text", "data": ["a", "b"]}, {"id": "h2", "name": "pop", "data": [1, 2]}]}`
		ds, err := Decode(strings.NewReader(str))
		if err != nil {
			t.Fatal(err)
		}
		if ds.RowCount != 2 || ds.ColumnCount != 2 {
			t.Errorf("dimension mismatch: %d rows, %d columns", ds.RowCount, ds.ColumnCount)
		}
		if h, _ := ds.Header("h2"); h.Type != TypeNumber {
			t.Errorf("type not inferred: %s", h.Type)
		}
	})
	t.Run("table", func(t *testing.T) {
		str := `[["city", "pop"], ["a", 1], ["b", 2]]`
		ds, err := Decode(strings.NewReader(str))
		if err != nil {
			t.Fatal(err)
		}
		points := ds.Points()
		if len(points) != 2 || points[1].Float("pop") != 2 {
			t.Errorf("unexpected points: %v", points)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{`))
		if !errors.Is(err, ErrDataset) {
			t.Errorf("expected ErrDataset, got %v", err)
		}
	})
}

func TestResolver(t *testing.T) {
	headers := []Header{
		{ID: "col-1", Name: "month"},
		{ID: "col-2", Name: "sales"},
		{ID: "col-3", Name: "renamed"},
	}
	var (
		res    = NewResolver(headers)
		sample = PointOf("month", "Jan", "sales", 10, "col-3", 4)
	)
	t.Run("name", func(t *testing.T) {
		if got := res.Name("col-1"); got != "month" {
			t.Errorf("want month, got %s", got)
		}
		if got := res.Name("unknown"); got != "unknown" {
			t.Errorf("want unknown, got %s", got)
		}
	})
	t.Run("datakey", func(t *testing.T) {
		tests := []struct {
			ID   string
			Want string
		}{
			{ID: "col-2", Want: "sales"},
			{ID: "col-3", Want: "col-3"},
			{ID: "missing", Want: "missing"},
		}
		for _, tt := range tests {
			if got := res.DataKey(tt.ID, sample); got != tt.Want {
				t.Errorf("%s: want %s, got %s", tt.ID, tt.Want, got)
			}
		}
	})
	t.Run("roundtrip", func(t *testing.T) {
		for _, h := range headers[:2] {
			if got := res.DataKey(h.ID, sample); got != h.Name {
				t.Errorf("%s: want %s, got %s", h.ID, h.Name, got)
			}
			if got := res.ID(res.Name(h.ID)); got != h.ID {
				t.Errorf("%s: id round trip failed, got %s", h.ID, got)
			}
		}
	})
}

func TestNumeric(t *testing.T) {
	points := ArrayToPoints([][]any{
		{"label", "value"},
		{"a", 1},
		{"b", "two"},
	})
	err := Numeric(points, "value")
	var cerr *ColumnError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ColumnError, got %v", err)
	}
	if cerr.Column != "value" || cerr.Row != 1 {
		t.Errorf("unexpected error: %+v", cerr)
	}
	if err := Numeric(points[:1], "value"); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
