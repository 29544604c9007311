package cmd

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/SEEK-Jobs/orgstats/pkg/aws"
	"github.com/SEEK-Jobs/orgstats/pkg/build"
	"github.com/SEEK-Jobs/orgstats/pkg/github"
	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// pemPrefix starts every PEM encoded key.
const pemPrefix = "-----BEGIN"

// loadConfig builds and returns the orgstats.Config from the specified credential options.
// A token takes precedence over GitHub App credentials, which are read from a private key file
// or from AWS Secrets Manager.
func loadConfig(ctx context.Context, opts *PlatformOptions, sess *session.Session) (*orgstats.Config, error) {
	log := zerolog.Ctx(ctx)

	metricsInterval, err := LookupMetricsInterval()
	if err != nil {
		return nil, err
	}

	config := orgstats.Config{
		Name:            build.Name,
		Version:         build.Version,
		MetricsInterval: metricsInterval,
		Hostname:        opts.Hostname,
	}

	switch {
	case opts.Token != "":
		log.Info().Msg("Using Personal Access Token authentication")
		config.AuthMode = orgstats.AuthModeToken
		config.GitHubToken = opts.Token
		return &config, nil

	case opts.AppID != 0 || opts.PrivateKeyPath != "":
		if opts.AppID == 0 || opts.PrivateKeyPath == "" {
			return nil, errors.New("GitHub App authentication requires both --app-id and --private-key")
		}

		key, err := loadPrivateKey(opts.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		log.Info().Msgf("Loaded private key from: %s", opts.PrivateKeyPath)

		config.GitHubAppConfig = orgstats.GitHubAppConfig{
			GitHubAppID:          opts.AppID,
			GitHubInstallationID: orgstats.InstallationSpec(opts.InstallationID),
			GitHubPrivateKey:     key,
		}

	case opts.AppSecretID != "":
		appConfig, err := loadGitHubAppConfig(ctx, sess, opts.AppSecretID)
		if err != nil {
			return nil, err
		}
		if opts.InstallationID != "" {
			appConfig.GitHubInstallationID = orgstats.InstallationSpec(opts.InstallationID)
		}
		config.GitHubAppConfig = *appConfig

	default:
		return nil, errors.New("authentication required: provide either --token or both --app-id and --private-key")
	}

	if _, err := github.ParseInstallationIDs(string(config.GitHubInstallationID)); err != nil {
		return nil, errors.Wrap(err, "invalid installation ID format")
	}

	log.Info().Msgf("Using GitHub App authentication for App ID: %d", config.GitHubAppID)
	config.AuthMode = orgstats.AuthModeApp
	return &config, nil
}

// loadGitHubAppConfig returns the GitHub App config data from AWS SecretsManager.
func loadGitHubAppConfig(ctx context.Context, sess *session.Session, secretID string) (*orgstats.GitHubAppConfig, error) {
	secretsManager := aws.NewSecretsManager(sess)
	v, err := secretsManager.SecretValue(ctx, secretID)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve secret with ID '%s'", secretID)
	}

	return parseGitHubAppConfig([]byte(v))
}

// parseGitHubAppConfig parses and validates a GitHub App config JSON document.
func parseGitHubAppConfig(buf []byte) (*orgstats.GitHubAppConfig, error) {
	var c orgstats.GitHubAppConfig
	if err := json.Unmarshal(buf, &c); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal JSON secret")
	}

	if c.GitHubAppID == 0 {
		return nil, errors.New("GitHub App config is missing gitHubAppID")
	}

	if err := validatePrivateKey([]byte(c.GitHubPrivateKey)); err != nil {
		return nil, err
	}

	return &c, nil
}

// loadPrivateKey reads and validates the PEM encoded GitHub App private key at path.
func loadPrivateKey(path string) (string, error) {
	buf, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.Errorf("private key file not found: %s", path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "could not read private key file %s", path)
	}

	if err := validatePrivateKey(buf); err != nil {
		return "", errors.Wrapf(err, "invalid private key file %s", path)
	}

	return string(buf), nil
}

// validatePrivateKey returns an error unless key is a PEM encoded RSA private key.
func validatePrivateKey(key []byte) error {
	if !strings.Contains(string(key), pemPrefix) {
		return errors.New("private key is not PEM encoded")
	}

	if _, err := jwt.ParseRSAPrivateKeyFromPEM(key); err != nil {
		return errors.Wrap(err, "could not parse RSA private key")
	}

	return nil
}
