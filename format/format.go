package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Func converts a raw value to its display string. A Func never fails.
type Func func(float64) string

type Kind string

const (
	Currency   Kind = "currency"
	Percentage Kind = "percentage"
	Number     Kind = "number"
	Decimal    Kind = "decimal"
	Scientific Kind = "scientific"
	Bytes      Kind = "bytes"
	Duration   Kind = "duration"
	Date       Kind = "date"
	Custom     Kind = "custom"
)

// Spec describes a formatter as stored in chart documents.
type Spec struct {
	Type     Kind   `json:"type" yaml:"type"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

func (s Spec) Func() Func {
	return Get(s.Type, s.Template)
}

const placeholder = "{value}"

var DefaultDateLayout = "1/2/2006"

// Passthrough is the representation used for values no formatter can handle.
func Passthrough(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return trim(v, -1)
	}
}

func finite(fn Func) Func {
	return func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Passthrough(v)
		}
		return fn(v)
	}
}

func formatCurrency(v float64) string {
	return sign(v) + "$" + tier(math.Abs(v))
}

func formatNumber(v float64) string {
	return sign(v) + tier(math.Abs(v))
}

func tier(v float64) string {
	switch {
	case v >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case v >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	default:
		return trim(v, 2)
	}
}

func formatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatScientific writes the exponent without padding and with an explicit
// sign: 1.23e+3.
func formatScientific(v float64) string {
	str := strconv.FormatFloat(v, 'e', 2, 64)
	x := strings.IndexByte(str, 'e')
	if x < 0 {
		return str
	}
	var (
		mant = str[:x]
		exp  = str[x+1:]
		sig  = exp[:1]
	)
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sig + exp
}

var byteUnits = []struct {
	Size float64
	Unit string
}{
	{Size: 1 << 30, Unit: "GB"},
	{Size: 1 << 20, Unit: "MB"},
	{Size: 1 << 10, Unit: "KB"},
}

func formatBytes(v float64) string {
	abs := math.Abs(v)
	for _, u := range byteUnits {
		if abs >= u.Size {
			return sign(v) + strconv.FormatFloat(abs/u.Size, 'f', 1, 64) + u.Unit
		}
	}
	return sign(v) + trim(abs, 0) + "B"
}

func formatDuration(v float64) string {
	var (
		abs  = math.Floor(math.Abs(v))
		hour = int64(abs) / 3600
		mins = (int64(abs) % 3600) / 60
		sec  = int64(abs) % 60
	)
	switch {
	case hour > 0:
		return fmt.Sprintf("%s%dh%dm", sign(v), hour, mins)
	case mins > 0:
		return fmt.Sprintf("%s%dm%ds", sign(v), mins, sec)
	default:
		return fmt.Sprintf("%s%ds", sign(v), sec)
	}
}

// makeDate returns a formatter for epoch milliseconds. An empty pattern uses
// DefaultDateLayout, an invalid one is ignored.
func makeDate(pattern string) Func {
	df := dateFormat{writeLayout(DefaultDateLayout)}
	if pattern != "" {
		if f, err := parseFormat(pattern); err == nil {
			df = f
		}
	}
	return func(v float64) string {
		return df.Format(time.UnixMilli(int64(v)).UTC())
	}
}

// makeCustom substitutes the {value} token of tmpl. The template is never
// interpreted in any other way.
func makeCustom(tmpl string) Func {
	if !strings.Contains(tmpl, placeholder) {
		return Passthrough
	}
	return func(v float64) string {
		return strings.ReplaceAll(tmpl, placeholder, trim(v, -1))
	}
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return ""
}

func trim(v float64, prec int) string {
	str := strconv.FormatFloat(v, 'f', prec, 64)
	if prec <= 0 || !strings.Contains(str, ".") {
		return str
	}
	str = strings.TrimRight(str, "0")
	return strings.TrimSuffix(str, ".")
}
