package cli

import (
	"context"

	"github.com/SEEK-Jobs/orgstats/pkg/cmd"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

var (
	// lazyPlatform provides a means of overriding the concrete implementation of
	// Platform used in tests. It's lazy because creation of a real Platform has side-effects.
	lazyPlatform = func(ctx context.Context, opts *cmd.PlatformOptions) (orgstats.Platform, error) {
		plat, metricsReporter, err := cmd.NewPlatform(ctx, opts)
		if err != nil {
			return nil, err
		}

		if metricsReporter != nil {
			go metricsReporter()
		}

		return plat, nil
	}
)

// newPlatform returns an instance of orgstats.Platform for the specified options.
func newPlatform(ctx context.Context, opts *cmd.PlatformOptions) (orgstats.Platform, error) {
	return lazyPlatform(ctx, opts)
}
