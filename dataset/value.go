package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is a cell of a materialized row: either a number or a string.
type Value struct {
	str   string
	num   float64
	isnum bool
}

func Number(f float64) Value {
	return Value{
		num:   f,
		isnum: true,
	}
}

func Text(s string) Value {
	return Value{
		str: s,
	}
}

func (v Value) IsNumber() bool {
	return v.isnum
}

// Float returns the numeric value of v. Strings that parse as numbers are
// accepted too, anything else reports false.
func (v Value) Float() (float64, bool) {
	if v.isnum {
		return v.num, true
	}
	f, ok := parseNumber(v.str)
	return f, ok
}

func (v Value) String() string {
	if !v.isnum {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isnum {
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return []byte("0"), nil
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*v = Number(0)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*v = Number(f)
	return nil
}

// Point is one materialized row. All points of a materialization share the
// same ordered key set.
type Point struct {
	keys   []string
	values map[string]Value
}

func NewPoint(keys []string) Point {
	return Point{
		keys:   keys,
		values: make(map[string]Value, len(keys)),
	}
}

// PointOf builds a point from alternating key/value pairs. Values can be
// strings, numbers or Value.
func PointOf(pairs ...any) Point {
	var (
		keys []string
		vals = make(map[string]Value)
	)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		if _, ok := vals[key]; !ok {
			keys = append(keys, key)
		}
		vals[key] = ValueOf(pairs[i+1])
	}
	return Point{
		keys:   keys,
		values: vals,
	}
}

// ValueOf converts an arbitrary cell to a Value without applying the
// materializer heuristics.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case string:
		return Text(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Text(v.String())
		}
		return Number(f)
	case bool:
		return Text(strconv.FormatBool(v))
	case nil:
		return Text("")
	default:
		return Text("")
	}
}

func (p Point) Keys() []string {
	return p.keys
}

func (p Point) Len() int {
	return len(p.keys)
}

func (p Point) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p Point) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Float returns the numeric value stored under key, 0 when the key is
// missing or does not hold a number.
func (p Point) Float(key string) float64 {
	v, ok := p.values[key]
	if !ok {
		return 0
	}
	f, _ := v.Float()
	return f
}

func (p Point) Label(key string) string {
	v, ok := p.values[key]
	if !ok {
		return ""
	}
	return v.String()
}

func (p Point) set(key string, v Value) {
	p.values[key] = v
}

func (p Point) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := p.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Column returns the values stored under key, in row order.
func Column(points []Point, key string) []Value {
	list := make([]Value, 0, len(points))
	for _, p := range points {
		v, _ := p.Get(key)
		list = append(list, v)
	}
	return list
}

// Labels returns the string representation of the key column.
func Labels(points []Point, key string) []string {
	list := make([]string, 0, len(points))
	for _, p := range points {
		list = append(list, p.Label(key))
	}
	return list
}
