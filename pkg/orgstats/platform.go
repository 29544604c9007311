package orgstats

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// AuthMode describes how the tool authenticates against GitHub.
type AuthMode string

const (
	AuthModeToken AuthMode = "token" // Personal access token
	AuthModeApp   AuthMode = "app"   // GitHub App installation tokens
)

// Platform provides the domain interface for interacting with the application configuration
// as well as all backend services.
type Platform interface {
	Config() *Config
	GitHubService() GitHubService
	ReportStore() ReportStore
}

// ReportStore receives copies of the report files written by a collection run.
type ReportStore interface {
	// Upload copies the local file at path to the store and returns its location.
	Upload(ctx context.Context, path string) (string, error)
}

// Config provides the application configuration.
type Config struct {
	Name            string        // Name of this application
	Version         string        // Version of this application
	MetricsInterval time.Duration // Interval at which metrics are reported to CloudWatch
	AuthMode        AuthMode      // How GitHub clients are authenticated
	Hostname        string        // GitHub host, empty for github.com
	GitHubToken     string        // Personal access token, empty with GitHub App auth

	GitHubAppConfig
}

// GitHubAppConfig provides GitHub App specific configuration. The JSON tags match the
// document stored in AWS Secrets Manager.
type GitHubAppConfig struct {
	GitHubAppID          int              `json:"gitHubAppID"`
	GitHubInstallationID InstallationSpec `json:"gitHubInstallationID"`
	GitHubPrivateKey     string           `json:"gitHubPrivateKey"`
}

// InstallationSpec is the textual form of one or more GitHub App installation IDs, either a
// bare ID or a comma separated list of org:id pairs.
type InstallationSpec string

// UnmarshalJSON accepts both a JSON number and a JSON string.
func (s *InstallationSpec) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = InstallationSpec(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = InstallationSpec(n.String())
	return nil
}
