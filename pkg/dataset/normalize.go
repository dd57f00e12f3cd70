package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// quote is the marker spreadsheet users prefix to force a cell to text.
const quote = '\''

// Normalize converts a raw cell value into a canonical identifier string.
//
// The value is coerced with [Text], then leading quote marks and whitespace
// are removed from the front and whitespace from the back. Missing values
// normalize to the empty string, which callers treat as "no identifier".
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(v any) string {
	s := strings.TrimLeftFunc(Text(v), func(r rune) bool {
		return r == quote || unicode.IsSpace(r)
	})
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Text coerces a raw scalar to its string form without trimming.
//
// Gateways use Text to carry payload cells through unmodified. nil and NaN
// (the missing-value markers of database drivers and spreadsheets) become "".
// Floats are printed in their shortest exact form so that 4711.0 read from a
// numeric cell becomes "4711".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
