package cli

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	set "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SEEK-Jobs/orgstats/pkg/cmd"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
	"github.com/SEEK-Jobs/orgstats/pkg/report"
)

// OrgSummary is the outcome of collecting a single org.
type OrgSummary struct {
	Organization string   `json:"organization" yaml:"organization"`
	Found        int      `json:"found" yaml:"found"`
	Processed    int      `json:"processed" yaml:"processed"`
	Skipped      int      `json:"skipped" yaml:"skipped"`
	Errors       int      `json:"errors" yaml:"errors"`
	Files        []string `json:"files" yaml:"files"`
	Uploaded     []string `json:"uploaded,omitempty" yaml:"uploaded,omitempty"`
	Failure      string   `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// CollectResult is the document printed by the collect command.
type CollectResult struct {
	Organizations []*OrgSummary `json:"organizations" yaml:"organizations"`
}

// collectFlags holds the collect command flags that don't map directly onto CollectOptions.
type collectFlags struct {
	orgs       []string
	inputFile  string
	outputDir  string
	format     string
	timezone   string
	memoryGB   float64
	noProgress bool
}

// newCollectCommand returns the "orgstats collect" sub-command which collects repository
// statistics for one or more orgs and writes the reports.
func newCollectCommand(ctx context.Context, platOpts *cmd.PlatformOptions) *cobra.Command {
	opts := orgstats.NewCollectOptions()
	var flags collectFlags

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collects repository statistics and writes reports",
		RunE: func(c *cobra.Command, args []string) error {
			ctx := withLogging(ctx)

			orgNames, err := readOrgNames(flags.orgs, flags.inputFile)
			if err != nil {
				return err
			}
			if len(orgNames) == 0 {
				return errors.New("at least one organization must be specified with --org or --input")
			}

			writerOpts, err := flags.writerOptions()
			if err != nil {
				return err
			}

			if err := validateCollectOptions(opts); err != nil {
				return err
			}

			plat, err := newPlatform(ctx, platOpts)
			if err != nil {
				return err
			}

			progress := cmd.NewProgress(!flags.noProgress && !isQuiet(printer))
			res, err := collectOrgs(ctx, plat, orgNames, opts, report.NewWriter(*writerOpts), progress, platOpts.S3Bucket != "")
			if res != nil {
				if err := printer.Print(res); err != nil {
					return err
				}
			}
			return err
		},
	}

	f := collectCmd.Flags()
	f.StringSliceVar(&flags.orgs, "org", nil, "GitHub organization to analyze (repeatable)")
	f.StringVar(&flags.inputFile, "input", "", "File listing one organization per line")
	f.StringSliceVar(&opts.Repos, "repos", nil, "Only analyze these repositories")
	f.IntVar(&opts.DaysBack, "days-back", orgstats.DefaultDaysBack, "Number of days of commit history to analyze")
	f.IntVar(&opts.MaxRepos, "max-repos", orgstats.DefaultMaxRepos, "Maximum number of repositories to analyze per organization")
	f.IntVar(&opts.ContributorsLimit, "contributors-limit", orgstats.DefaultContributorsLimit, "Number of top contributors to report")
	f.BoolVar(&opts.IncludeForks, "include-forks", false, "Include forked repositories")
	f.BoolVar(&opts.IncludeArchived, "include-archived", false, "Include archived repositories")
	f.BoolVar(&opts.IncludeEmpty, "include-empty", false, "Include repositories without commits in the analysis window")
	f.BoolVar(&opts.IncludeAccess, "include-access", false, "Collect teams and admins of each repository")
	f.BoolVar(&opts.ExcludeBots, "exclude-bots", false, "Exclude bot accounts from contributors and commit statistics")
	f.StringVar(&flags.outputDir, "output-dir", report.DefaultOutputDir, "Directory reports are written to")
	f.StringVar(&flags.format, "format", string(report.FormatExcel), "Report format (one of 'json', 'csv', 'excel' or 'all')")
	f.StringVar(&flags.timezone, "timezone", "UTC", "Time zone of timestamps in spreadsheet cells")
	f.Float64Var(&flags.memoryGB, "memory-gb", report.DefaultMemoryGB, "Memory available for writing spreadsheets in GB")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")
	f.StringVar(&platOpts.S3Bucket, "s3-bucket", "", "Upload reports to this S3 bucket")
	f.StringVar(&platOpts.S3Prefix, "s3-prefix", "", "Key prefix of uploaded reports")

	return collectCmd
}

// writerOptions returns the report.Options specified by the flags.
func (f *collectFlags) writerOptions() (*report.Options, error) {
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(f.timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown time zone '%s'", f.timezone)
	}

	if f.memoryGB <= 0 {
		return nil, errors.New("--memory-gb must be positive")
	}

	return &report.Options{
		OutputDir: f.outputDir,
		Format:    format,
		Location:  loc,
		MemoryGB:  f.memoryGB,
	}, nil
}

// validateCollectOptions checks the numeric limits.
func validateCollectOptions(opts *orgstats.CollectOptions) error {
	switch {
	case opts.DaysBack < 1:
		return errors.New("--days-back must be at least 1")
	case opts.MaxRepos < 1:
		return errors.New("--max-repos must be at least 1")
	case opts.ContributorsLimit < 1:
		return errors.New("--contributors-limit must be at least 1")
	}
	return nil
}

// collectOrgs collects each org in turn. An org that cannot be collected is reported and the
// remaining orgs are still collected; an error is returned after all orgs were attempted.
// Cancellation and failure to write reports stop collection.
func collectOrgs(ctx context.Context, plat orgstats.Platform, orgNames []string, opts *orgstats.CollectOptions,
	writer *report.Writer, progress orgstats.Progress, upload bool) (*CollectResult, error) {

	log := zerolog.Ctx(ctx)
	gitHub := plat.GitHubService()

	if plat.Config().AuthMode == orgstats.AuthModeToken {
		if login, err := gitHub.AuthenticatedUser(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not fetch authenticated user")
		} else {
			log.Info().Msgf("Authenticated as: %s", login)
		}
		orgstats.LogRateLimit(ctx, gitHub)
	}

	result := CollectResult{Organizations: []*OrgSummary{}}
	failed := 0

	for _, orgName := range orgNames {
		summary := OrgSummary{Organization: orgName, Files: []string{}}
		result.Organizations = append(result.Organizations, &summary)

		res, err := orgstats.CollectOrg(ctx, plat, orgName, opts, progress)
		if err != nil {
			if ctx.Err() != nil {
				return &result, ctx.Err()
			}
			log.Error().Err(err).Msgf("Failed to collect organization: %s", orgName)
			summary.Failure = err.Error()
			failed++
			continue
		}
		cmd.RecordOrgResult(res)

		summary.Found = res.Found
		summary.Processed = res.Processed
		summary.Skipped = res.Skipped
		summary.Errors = res.Errors.Len()

		paths, err := writer.Write(ctx, res)
		if err != nil {
			return &result, errors.Wrapf(err, "could not write reports for '%s'", orgName)
		}
		summary.Files = paths

		if upload {
			for _, p := range paths {
				location, err := plat.ReportStore().Upload(ctx, p)
				if err != nil {
					return &result, err
				}
				log.Info().Msgf("Report uploaded to: %s", location)
				summary.Uploaded = append(summary.Uploaded, location)
			}
		}
	}

	if failed > 0 {
		return &result, errors.Errorf("%d of %d organizations could not be collected", failed, len(orgNames))
	}
	return &result, nil
}

// readOrgNames returns the unique org names from the flags and the input file, in order.
func readOrgNames(orgs []string, inputFile string) ([]string, error) {
	names := append([]string{}, orgs...)

	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open %s", inputFile)
		}
		defer f.Close()

		fileNames, err := parseOrgNames(f)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read %s", inputFile)
		}
		names = append(names, fileNames...)
	}

	seen := set.NewSet()
	var unique []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || !seen.Add(strings.ToLower(n)) {
			continue
		}
		unique = append(unique, n)
	}

	return unique, nil
}

// parseOrgNames reads the first field of each line, skipping blank lines and # comments.
func parseOrgNames(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		if name := strings.TrimSpace(record[0]); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// isQuiet reports whether p prints nothing.
func isQuiet(p cmd.ResultPrinter) bool {
	_, ok := p.(*cmd.NoOpResultPrinter)
	return ok
}
