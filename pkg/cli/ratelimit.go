package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/cmd"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// newRateLimitCommand returns the "orgstats rate-limit" sub-command which prints the API rate
// limit status of the configured credentials.
func newRateLimitCommand(ctx context.Context, platOpts *cmd.PlatformOptions) *cobra.Command {
	var orgName string
	rateLimitCmd := &cobra.Command{
		Use:   "rate-limit",
		Short: "Prints the GitHub API rate limit status",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := withLogging(ctx)

			plat, err := newPlatform(ctx, platOpts)
			if err != nil {
				return err
			}
			gitHub := plat.GitHubService()

			// Installation tokens have their own limits so an org picks the installation
			if plat.Config().AuthMode == orgstats.AuthModeApp {
				if orgName == "" {
					return errors.New("--org is required with GitHub App authentication")
				}
				if ctx, err = gitHub.ForOrg(ctx, orgName); err != nil {
					return err
				}
			}

			status, err := gitHub.RateLimit(ctx)
			if err != nil {
				return errors.Wrap(err, "could not fetch rate limit")
			}

			return printer.Print(status)
		},
	}

	rateLimitCmd.Flags().StringVar(&orgName, "org", "", "Organization whose GitHub App installation is used")

	return rateLimitCmd
}
