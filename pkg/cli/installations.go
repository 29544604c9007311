package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/cmd"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// newInstallationsCommand returns the "orgstats installations" sub-command which lists the
// installations of the GitHub App.
func newInstallationsCommand(ctx context.Context, platOpts *cmd.PlatformOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "installations",
		Short: "Lists the installations of the GitHub App",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := withLogging(ctx)

			plat, err := newPlatform(ctx, platOpts)
			if err != nil {
				return err
			}

			if plat.Config().AuthMode != orgstats.AuthModeApp {
				return errors.New("listing installations requires GitHub App authentication")
			}

			installations, err := plat.GitHubService().Installations(ctx)
			if err != nil {
				return errors.Wrap(err, "could not list installations")
			}

			return printer.Print(installations)
		},
	}
}
