package cmd

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gregjones/httpcache"
	"github.com/palantir/go-githubapp/githubapp"

	"github.com/SEEK-Jobs/orgstats/pkg/aws"
	"github.com/SEEK-Jobs/orgstats/pkg/github"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

const (
	// gitHubV3URL is the base URL of the GitHub REST API
	gitHubV3URL = "https://api.github.com/"
	// gitHubV4URL is the base URL of the GitHub GraphQL API
	gitHubV4URL = "https://api.github.com/graphql"
)

// PlatformOptions holds the credentials and backend settings used to build a Platform.
type PlatformOptions struct {
	Token          string // Personal access token
	AppID          int    // GitHub App ID
	PrivateKeyPath string // Path of the GitHub App private key
	InstallationID string // Installation ID or org:id mappings
	AppSecretID    string // Secrets Manager secret holding the GitHub App config
	Hostname       string // GitHub Enterprise Server host

	S3Bucket string // Bucket reports are uploaded to, uploads are disabled when empty
	S3Prefix string // Key prefix of uploaded reports

	CloudWatchNamespace string // Metrics namespace, metrics are not exported when empty
}

// platform provides the implementation of orgstats.Platform.
type platform struct {
	config        *orgstats.Config
	gitHubService orgstats.GitHubService
	reportStore   orgstats.ReportStore
}

// NewPlatform returns a new orgstats.Platform for the specified options. The returned
// MetricsReporterFunc is nil unless a CloudWatch namespace was specified.
func NewPlatform(ctx context.Context, opts *PlatformOptions) (orgstats.Platform, MetricsReporterFunc, error) {
	if err := opts.mergeEnv(); err != nil {
		return nil, nil, err
	}

	sess, err := NewAWSSession()
	if err != nil {
		return nil, nil, err
	}

	config, err := loadConfig(ctx, opts, sess)
	if err != nil {
		return nil, nil, err
	}

	clientFactory, err := newGitHubClientFactory(config)
	if err != nil {
		return nil, nil, err
	}

	var reportStore orgstats.ReportStore = noOpReportStore{}
	if opts.S3Bucket != "" {
		reportStore = aws.NewS3(sess, opts.S3Bucket, opts.S3Prefix)
	}

	var reporter MetricsReporterFunc
	if opts.CloudWatchNamespace != "" {
		reporter = metricsReporter(config, opts.CloudWatchNamespace, sess)
	}

	return &platform{
		config:        config,
		gitHubService: github.NewService(clientFactory, metricsRegistry),
		reportStore:   reportStore,
	}, reporter, nil
}

// Config implements orgstats.Platform.Config.
func (plat *platform) Config() *orgstats.Config {
	return plat.config
}

// GitHubService implements orgstats.Platform.GitHubService.
func (plat *platform) GitHubService() orgstats.GitHubService {
	return plat.gitHubService
}

// ReportStore implements orgstats.Platform.ReportStore.
func (plat *platform) ReportStore() orgstats.ReportStore {
	return plat.reportStore
}

// noOpReportStore keeps reports local.
type noOpReportStore struct{}

// Upload implements orgstats.ReportStore.
func (noOpReportStore) Upload(ctx context.Context, path string) (string, error) {
	return path, nil
}

// newGitHubClientFactory returns a configured github.ClientFactory.
func newGitHubClientFactory(c *orgstats.Config) (*github.ClientFactory, error) {
	v3URL, v4URL := gitHubURLs(c.Hostname)

	delegate := githubapp.NewClientCreator(v3URL, v4URL, c.GitHubAppID, []byte(c.GitHubPrivateKey),
		githubapp.WithClientUserAgent(fmt.Sprintf("%s/%s", c.Name, c.Version)),
		githubapp.WithClientCaching(false, func() httpcache.Cache { return httpcache.NewMemoryCache() }),
		githubapp.WithClientMiddleware(
			githubapp.ClientMetrics(metricsRegistry),
		))

	clientCreator, err := githubapp.NewCachingClientCreator(delegate, githubapp.DefaultCachingClientCapacity)
	if err != nil {
		return nil, err
	}

	if c.AuthMode == orgstats.AuthModeToken {
		return github.NewTokenClientFactory(clientCreator, c.GitHubToken), nil
	}

	installations, err := github.ParseInstallationIDs(string(c.GitHubInstallationID))
	if err != nil {
		return nil, err
	}

	return github.NewInstallationClientFactory(clientCreator, installations), nil
}

// gitHubURLs returns the REST and GraphQL base URLs for the specified GitHub host. An empty
// hostname or github.com selects the public API.
func gitHubURLs(hostname string) (string, string) {
	if hostname == "" || hostname == "github.com" || hostname == "api.github.com" {
		return gitHubV3URL, gitHubV4URL
	}
	return fmt.Sprintf("https://%s/api/v3/", hostname), fmt.Sprintf("https://%s/api/graphql", hostname)
}

// NewAWSSession creates a new AWS session.Session.
func NewAWSSession() (*session.Session, error) {
	region, err := LookupRegion()
	if err != nil {
		return nil, err
	}

	return session.NewSession(&awssdk.Config{Region: &region})
}
