package build

import "testing"

func TestFormatBuildTime(t *testing.T) {
	tests := map[string]string{
		"2019-03-12T23:41:36Z":      "Tue Mar 12 23:41:36 UTC 2019",
		"2019-03-13T09:41:36+10:00": "Tue Mar 12 23:41:36 UTC 2019",
		"unknown":                   "unknown",
	}

	for in, want := range tests {
		if got := formatBuildTime(in); got != want {
			t.Errorf("%s: expected %q, got %q", in, want, got)
		}
	}
}
