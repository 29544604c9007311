package github

import (
	"context"
	"errors"
	"sync"

	"github.com/google/go-github/github"
	"github.com/palantir/go-githubapp/githubapp"
	"github.com/shurcooL/githubv4"
)

var (
	// missingInstallationID is the error returned when no installation ID was set on the context.
	missingInstallationID = errors.New("no GitHub App installation ID set on context")
)

// Key used for setting the GitHub App installation ID in the context.
type ctxKey struct{}

// InstallationID returns the GitHub App installation ID associated with the context
// if one exists. If one does not exist false is returned as the second return parameter.
func InstallationID(ctx context.Context) (int64, bool) {
	if id, ok := ctx.Value(ctxKey{}).(int64); ok {
		return id, true
	}
	return 0, false
}

// WithInstallationID returns a new context with the specified GitHub App installation ID set.
func WithInstallationID(ctx context.Context, id int64) context.Context {
	if id2, ok := ctx.Value(ctxKey{}).(int64); ok {
		if id2 == id {
			return ctx // Don't store same ID
		}
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// clientSource provides the GitHub clients used by the service.
type clientSource interface {
	// V3Client returns a REST client for the credentials associated with the context.
	V3Client(ctx context.Context) (*github.Client, error)

	// V4Client returns a GraphQL client for the credentials associated with the context.
	V4Client(ctx context.Context) (*githubv4.Client, error)

	// AppClient returns a REST client authenticated as the GitHub App itself.
	AppClient() (*github.Client, error)

	// TokenAuth returns whether clients use a personal access token.
	TokenAuth() bool

	// Installations returns the configured installation mappings.
	Installations() Installations
}

// ClientFactory provides a means of creating GitHub clients based on different auth strategies.
type ClientFactory struct {
	token         string
	installations Installations
	githubapp.ClientCreator

	// Token clients are created once so their response cache lives for the whole run
	mu      sync.Mutex
	tokenV3 *github.Client
	tokenV4 *githubv4.Client
}

// NewTokenClientFactory returns a ClientFactory that creates user token-based GitHub clients.
func NewTokenClientFactory(clientCreator githubapp.ClientCreator, token string) *ClientFactory {
	return &ClientFactory{token: token, ClientCreator: clientCreator}
}

// NewInstallationClientFactory returns a ClientFactory that creates installation-based GitHub
// clients where the installation ID is expected to be set on the context for each request.
// The specified installations seed the installation lookup for each org.
func NewInstallationClientFactory(clientCreator githubapp.ClientCreator, installations Installations) *ClientFactory {
	if installations == nil {
		installations = Installations{}
	}
	return &ClientFactory{ClientCreator: clientCreator, installations: installations}
}

// TokenAuth implements clientSource.
func (f *ClientFactory) TokenAuth() bool {
	return f.token != ""
}

// Installations implements clientSource.
func (f *ClientFactory) Installations() Installations {
	return f.installations
}

// AppClient implements clientSource.
func (f *ClientFactory) AppClient() (*github.Client, error) {
	return f.NewAppClient()
}

// V3Client returns a V3 GitHub client.
func (f *ClientFactory) V3Client(ctx context.Context) (*github.Client, error) {
	if f.token != "" {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.tokenV3 == nil {
			client, err := f.NewTokenClient(f.token)
			if err != nil {
				return nil, err
			}
			f.tokenV3 = client
		}
		return f.tokenV3, nil
	}

	if id, ok := InstallationID(ctx); ok {
		return f.NewInstallationClient(id)
	}
	return nil, missingInstallationID
}

// V4Client returns a V4 GitHub client.
func (f *ClientFactory) V4Client(ctx context.Context) (*githubv4.Client, error) {
	if f.token != "" {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.tokenV4 == nil {
			client, err := f.NewTokenV4Client(f.token)
			if err != nil {
				return nil, err
			}
			f.tokenV4 = client
		}
		return f.tokenV4, nil
	}

	if id, ok := InstallationID(ctx); ok {
		return f.NewInstallationV4Client(id)
	}

	return nil, missingInstallationID
}
