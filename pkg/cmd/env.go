package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	regionEnvKey               = "REGION"
	metricsIntervalEnvKey      = "METRICS_INTERVAL"
	gitHubTokenEnvKey          = "GITHUB_TOKEN"
	gitHubAppIDEnvKey          = "GITHUB_APP_ID"
	gitHubPrivateKeyEnvKey     = "GITHUB_PRIVATE_KEY_PATH"
	gitHubInstallationIDEnvKey = "GITHUB_INSTALLATION_ID"
	gitHubHostnameEnvKey       = "GITHUB_HOSTNAME"

	// Defaults config values
	defaultRegion          = "ap-southeast-2"
	defaultMetricsInterval = "30s"
)

func LookupRegion() (string, error) {
	return configValue(regionEnvKey, defaultRegion), nil
}

func LookupMetricsInterval() (time.Duration, error) {
	v := configValue(metricsIntervalEnvKey, defaultMetricsInterval)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Errorf("bad metrics interval: %s", v)
	}
	return d, nil
}

func LookupGitHubToken() string {
	return configValue(gitHubTokenEnvKey, "")
}

func LookupGitHubAppID() (int, error) {
	v := configValue(gitHubAppIDEnvKey, "0")
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("bad GitHub App ID: %s", v)
	}
	return id, nil
}

func LookupGitHubPrivateKeyPath() string {
	return configValue(gitHubPrivateKeyEnvKey, "")
}

func LookupGitHubInstallationID() string {
	return configValue(gitHubInstallationIDEnvKey, "")
}

func LookupGitHubHostname() string {
	return configValue(gitHubHostnameEnvKey, "")
}

func configValue(envKey, defaultValue string) string {
	if v, ok := os.LookupEnv(envKey); ok {
		return v
	}
	return defaultValue
}

// mergeEnv fills the credentials that were not specified from the environment. The token
// variable is only used when no GitHub App credentials were specified and the GitHub App
// variables are ignored when the config comes from Secrets Manager.
func (o *PlatformOptions) mergeEnv() error {
	if o.Token == "" && o.AppID == 0 && o.PrivateKeyPath == "" && o.AppSecretID == "" {
		o.Token = LookupGitHubToken()
	}

	if o.Token == "" && o.AppSecretID == "" {
		if o.AppID == 0 {
			id, err := LookupGitHubAppID()
			if err != nil {
				return err
			}
			o.AppID = id
		}
		if o.PrivateKeyPath == "" {
			o.PrivateKeyPath = LookupGitHubPrivateKeyPath()
		}
		if o.InstallationID == "" {
			o.InstallationID = LookupGitHubInstallationID()
		}
	}

	if o.Hostname == "" {
		o.Hostname = LookupGitHubHostname()
	}

	return nil
}
