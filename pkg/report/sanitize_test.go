package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeValue(t *testing.T) {
	melbourne := time.FixedZone("AEDT", 11*60*60)
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		loc  *time.Location
		want interface{}
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "api", want: "api"},
		{name: "int", in: int64(42), want: int64(42)},
		{name: "float", in: 1.5, want: 1.5},
		{name: "bool", in: true, want: true},
		{name: "nan", in: math.NaN(), want: ""},
		{name: "inf", in: math.Inf(1), want: ""},
		{name: "time utc", in: ts, want: "2024-03-10T12:00:00Z"},
		{name: "time zone", in: ts, loc: melbourne, want: "2024-03-10T23:00:00+11:00"},
		{name: "list", in: []interface{}{"a", "b"}, want: `["a","b"]`},
		{name: "object", in: map[string]interface{}{"login": "alice", "html": "<b>"}, want: `{"html":"<b>","login":"alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeValue(tt.in, tt.loc))
		})
	}
}

func TestSanitizeValueTruncates(t *testing.T) {
	long := strings.Repeat("é", maxCellLength+10)

	got := SanitizeValue(long, nil).(string)
	assert.Equal(t, maxCellLength, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := strings.Repeat("x", maxCellLength)
	assert.Equal(t, exact, SanitizeValue(exact, nil))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil, nil))
	assert.Equal(t, "true", FormatValue(true, nil))
	assert.Equal(t, "12", FormatValue(int64(12), nil))
	assert.Equal(t, "0.25", FormatValue(0.25, nil))
	assert.Equal(t, `[{"login":"alice"}]`, FormatValue([]interface{}{map[string]interface{}{"login": "alice"}}, nil))
	assert.Equal(t, "2024-03-10T12:00:00Z", FormatValue(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), nil))

	long := strings.Repeat("x", maxCellLength+1)
	assert.Equal(t, long, FormatValue(long, nil))
}
