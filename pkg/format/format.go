// Package format converts raw trade and signal values into display strings.
//
// Every function is total: absent, non-finite or unparsable input yields NA
// instead of an error, so table cells can call them without guarding.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NA is returned for values that cannot be represented.
const NA = "N/A"

// DateLayout is the display layout for dates.
const DateLayout = "Jan 2, 2006"

var inputDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// Formatter formats values for one locale.
type Formatter struct {
	printer    *message.Printer
	dateLayout string
}

// New creates a Formatter for the given language tag.
func New(tag language.Tag) *Formatter {
	return &Formatter{
		printer:    message.NewPrinter(tag),
		dateLayout: DateLayout,
	}
}

var std = New(language.English)

// Currency formats a dollar amount bucketed by magnitude ($999, $2K, $2.5M, -$3.0B).
func Currency(v any) string { return std.Currency(v) }

// Percent formats a ratio as a percentage with one decimal (0.456 -> 45.6%).
func Percent(v any) string { return std.Percent(v) }

// Date formats a date string or time value.
func Date(v any) string { return std.Date(v) }

// Number formats a number with grouped thousands.
func Number(v any) string { return std.Number(v) }

// Score formats a signal score. Scores are probabilities in [0,1] and are
// scaled exactly once here.
func Score(v any) string { return std.Percent(v) }

// Shares formats a share count with grouped thousands and no decimals.
func Shares(v any) string { return std.Shares(v) }

// Since renders a relative time such as "3 minutes ago".
func Since(v any) string {
	t, ok := Time(v)
	if !ok {
		return NA
	}
	return humanize.Time(t)
}

func (f *Formatter) Currency(v any) string {
	x, ok := Float(v)
	if !ok {
		return NA
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}

	var s string
	switch {
	case x >= 1e9:
		s = fmt.Sprintf("$%.1fB", round(x/1e9, 1))
	case x >= 1e6:
		s = fmt.Sprintf("$%.1fM", round(x/1e6, 1))
	case x >= 1e3:
		s = fmt.Sprintf("$%.0fK", round(x/1e3, 0))
	default:
		r := round(x, 0)
		if r == 0 {
			sign = ""
		}
		s = fmt.Sprintf("$%.0f", r)
	}
	return sign + s
}

func (f *Formatter) Percent(v any) string {
	x, ok := Float(v)
	if !ok {
		return NA
	}
	p := round(x*100, 1)
	if p == 0 {
		p = 0 // drop negative zero
	}
	return fmt.Sprintf("%.1f%%", p)
}

func (f *Formatter) Date(v any) string {
	t, ok := Time(v)
	if !ok {
		return NA
	}
	return t.Format(f.dateLayout)
}

func (f *Formatter) Number(v any) string {
	x, ok := Float(v)
	if !ok {
		return NA
	}
	return f.printer.Sprintf("%v", number.Decimal(x, number.MaxFractionDigits(2)))
}

func (f *Formatter) Shares(v any) string {
	x, ok := Float(v)
	if !ok {
		return NA
	}
	return f.printer.Sprintf("%v", number.Decimal(round(x, 0), number.MaxFractionDigits(0)))
}

// Float extracts a finite float64 from numeric values, pointers to them and
// json.Number. It reports false for nil, NaN, ±Inf and non-numeric input.
func Float(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint:
		x = float64(n)
	case uint64:
		x = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		x = f
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Pointer:
			if rv.IsNil() {
				return 0, false
			}
			return Float(rv.Elem().Interface())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			x = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			x = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			x = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Time extracts a time from time values, pointers and date strings.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		return parseDate(t)
	case *string:
		if t == nil {
			return time.Time{}, false
		}
		return parseDate(*t)
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
