package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const missingLabel = "Unknown"

// ArrayToPoints materializes an array with a header row into points keyed by
// column name. It never fails: missing cells of the first column become
// Unknown_<row>, missing cells of the other columns become 0. The result has
// exactly len(table)-1 points (none for empty or header only input) and every
// point has the same key set.
func ArrayToPoints(table [][]any) []Point {
	if len(table) <= 1 {
		return []Point{}
	}
	var (
		keys = headerNames(table[0])
		list = make([]Point, 0, len(table)-1)
	)
	for i, row := range table[1:] {
		pt := NewPoint(keys)
		for j, k := range keys {
			var cell any
			if j < len(row) {
				cell = row[j]
			}
			pt.set(k, materialize(cell, i, j))
		}
		list = append(list, pt)
	}
	return list
}

// Materialize is ArrayToPoints with the header row given apart.
func Materialize(header []string, rows [][]any) []Point {
	table := make([][]any, 0, len(rows)+1)
	head := make([]any, len(header))
	for i := range header {
		head[i] = header[i]
	}
	table = append(table, head)
	table = append(table, rows...)
	return ArrayToPoints(table)
}

func materialize(cell any, row, col int) Value {
	if missing(cell) {
		if col == 0 {
			return Text(fmt.Sprintf("%s_%d", missingLabel, row+1))
		}
		return Number(0)
	}
	if f, ok := coerce(cell); ok {
		return Number(f)
	}
	return Text(stringify(cell))
}

func headerNames(row []any) []string {
	var (
		names = make([]string, 0, len(row))
		seen  = make(map[string]int)
	)
	for i, c := range row {
		n := strings.TrimSpace(stringify(c))
		if n == "" {
			n = fmt.Sprintf("Column_%d", i+1)
		}
		if c := seen[n]; c > 0 {
			seen[n]++
			n = fmt.Sprintf("%s_%d", n, c+1)
		}
		seen[n]++
		names = append(names, n)
	}
	return names
}

func missing(cell any) bool {
	switch c := cell.(type) {
	case nil:
		return true
	case string:
		c = strings.TrimSpace(c)
		return c == "" || strings.EqualFold(c, "N/A")
	case float64:
		return math.IsNaN(c)
	case float32:
		return math.IsNaN(float64(c))
	case json.Number:
		return c.String() == ""
	default:
		return false
	}
}

func coerce(cell any) (float64, bool) {
	switch c := cell.(type) {
	case float64:
		return c, !math.IsInf(c, 0)
	case float32:
		return float64(c), true
	case int:
		return float64(c), true
	case int32:
		return float64(c), true
	case int64:
		return float64(c), true
	case json.Number:
		f, err := c.Float64()
		return f, err == nil
	case string:
		if looksLikeDate(c) {
			return 0, false
		}
		return parseNumber(c)
	default:
		return 0, false
	}
}

// parseNumber removes thousands separators and whitespace before parsing.
func parseNumber(str string) (float64, bool) {
	clean := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, str)
	if clean == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// looksLikeDate reports whether str contains a date separator. A leading
// sign is not a separator.
func looksLikeDate(str string) bool {
	str = strings.TrimSpace(str)
	if strings.Contains(str, "/") {
		return true
	}
	str = strings.TrimPrefix(str, "-")
	return strings.Contains(str, "-") && !strings.ContainsAny(str, "eE")
}

func stringify(cell any) string {
	switch c := cell.(type) {
	case nil:
		return ""
	case string:
		return c
	case json.Number:
		return c.String()
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// Coerce returns the number held by a raw cell. Missing cells and cells that
// do not look like numbers are reported as not numeric.
func Coerce(cell any) (float64, bool) {
	if missing(cell) {
		return 0, false
	}
	return coerce(cell)
}

// Stringify returns the text of a raw cell. Missing cells give an empty
// string.
func Stringify(cell any) string {
	if missing(cell) {
		return ""
	}
	return stringify(cell)
}
