package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const percent = '%'

// specifiers maps strftime like directives to Go layouts. %% is handled by
// parseFormat.
var specifiers = map[rune]string{
	'D': "01/02/06",
	'Y': "2006",
	'y': "06",
	'm': "01",
	'B': "January",
	'b': "Jan",
	'h': "Jan",
	'd': "02",
	'e': "_2",
	'j': "002",
	'A': "Monday",
	'a': "Mon",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'T': "15:04:05",
	'F': "2006-01-02",
	'z': "-07:00",
	'Z': "MST",
	'c': "Mon Jan 2 15:04:05 2006",
	'r': "03:04:05 PM",
	'R': "15:04",
	'x': "1/2/2006",
}

type dateWriter func(*strings.Builder, time.Time)

// dateFormat writes a time by running its writers in turn.
type dateFormat []dateWriter

func (df dateFormat) Format(t time.Time) string {
	var w strings.Builder
	for _, fn := range df {
		fn(&w, t)
	}
	return w.String()
}

func writeLayout(layout string) dateWriter {
	return func(w *strings.Builder, t time.Time) {
		w.WriteString(t.Format(layout))
	}
}

func writeLiteral(str string) dateWriter {
	return func(w *strings.Builder, _ time.Time) {
		w.WriteString(str)
	}
}

// parseFormat converts a pattern like "%Y-%m-%d" to a list of writers. Text
// outside directives is written verbatim, never read as a layout.
func parseFormat(str string) (dateFormat, error) {
	var (
		r   = strings.NewReader(str)
		df  dateFormat
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			df = append(df, writeLiteral(lit.String()))
			lit.Reset()
		}
	}
	for r.Len() > 0 {
		x, _, _ := r.ReadRune()
		if x == utf8.RuneError {
			return nil, fmt.Errorf("invalid character found in date pattern")
		}
		if x != percent {
			lit.WriteRune(x)
			continue
		}
		if r.Len() == 0 {
			return nil, fmt.Errorf("incomplete directive at end of date pattern")
		}
		x, _, _ = r.ReadRune()
		if x == percent {
			lit.WriteRune(x)
			continue
		}
		layout, ok := specifiers[x]
		if !ok {
			return nil, fmt.Errorf("invalid specifier found %c", x)
		}
		flush()
		df = append(df, writeLayout(layout))
	}
	flush()
	return df, nil
}
