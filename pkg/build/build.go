package build

import (
	"runtime"
	"strings"
	"time"
)

// These values are overridden by -ldflags.
var (
	Name            = "orgstats"
	Version         = "unknown"
	GitCommit       = "unknown"
	BuildTime       = "unknown"
	OperatingSystem = runtime.GOOS
	Architecture    = runtime.GOARCH
)

type Info struct {
	Name            string
	Version         string
	GoVersion       string
	GitCommit       string
	BuildTime       string
	OperatingSystem string
	Architecture    string
}

func GetInfo() *Info {
	return &Info{
		Name:            Name,
		Version:         Version,
		GoVersion:       runtime.Version(),
		GitCommit:       GitCommit,
		BuildTime:       formatBuildTime(BuildTime),
		OperatingSystem: OperatingSystem,
		Architecture:    Architecture,
	}
}

// formatBuildTime returns an RFC 3339 build time formatted as a UNIX date,
// e.g. "Tue Mar 12 23:41:36 UTC 2019". Other values are returned as is.
func formatBuildTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}

	// On Darwin architectures "+0000" is returned instead of "UTC" so replace for consistency
	return strings.ReplaceAll(t.UTC().Format(time.UnixDate), "+0000", "UTC")
}
