package report

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// maxCellLength is the maximum number of characters a spreadsheet cell holds
	maxCellLength = 32767

	truncationSuffix = "..."
)

// SanitizeValue converts a flattened value into one a spreadsheet cell accepts. Times are
// rendered as ISO-8601 in the specified location and lists and objects as JSON text.
func SanitizeValue(v interface{}, loc *time.Location) interface{} {
	switch v := v.(type) {
	case nil:
		return ""
	case time.Time:
		return formatTime(v, loc)
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatTime(*v, loc)
	case string:
		return truncate(v)
	case bool, int, int64:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return v
	case []interface{}, map[string]interface{}:
		s, err := jsonText(v)
		if err != nil {
			return truncate(fmt.Sprint(v))
		}
		return truncate(s)
	default:
		return truncate(fmt.Sprint(v))
	}
}

// FormatValue renders a flattened value as CSV field text. Unlike SanitizeValue no length
// limit applies.
func FormatValue(v interface{}, loc *time.Location) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return formatTime(v, loc)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []interface{}, map[string]interface{}:
		if s, err := jsonText(v); err == nil {
			return s
		}
	}
	return fmt.Sprint(v)
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.RFC3339)
}

// truncate caps s at maxCellLength characters.
func truncate(s string) string {
	if len(s) <= maxCellLength {
		return s
	}

	r := []rune(s)
	if len(r) <= maxCellLength {
		return s
	}
	return string(r[:maxCellLength-len(truncationSuffix)]) + truncationSuffix
}
