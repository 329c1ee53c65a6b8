package bbclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/bbsig"
	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

// apiVersion is the Bitbucket Server REST API version the client posts
// against.
const apiVersion = "1.0"

// Config configures a Client. BaseURL, ProjectKey, RepoSlug, and
// CommitID address the commit the status is attached to; all four are
// required and validated at construction, never at post time.
type Config struct {
	// BaseURL is the root URL of the Bitbucket Server instance.
	BaseURL string

	// ProjectKey is the Bitbucket project key.
	ProjectKey string

	// RepoSlug is the repository slug within the project.
	RepoSlug string

	// CommitID is the revision the build ran against.
	CommitID string

	// Signer computes the signature headers. Required.
	Signer *bbsig.HeaderSigner

	// Executor delivers the request. Required.
	Executor RequestExecutor

	// SupportsCancelled reports whether the target server accepts the
	// CANCELLED state. When false, cancelled statuses are downgraded
	// before posting.
	SupportsCancelled bool

	// Retry bounds rate-limit retries. The zero value means
	// DefaultRetryAttempts.
	Retry RetryConfig
}

// Client posts signed build-status updates for one commit of one
// repository. Safe for concurrent use when its executor and signer are.
type Client struct {
	baseURL           *url.URL
	projectKey        string
	repoSlug          string
	commitID          string
	signer            *bbsig.HeaderSigner
	executor          RequestExecutor
	supportsCancelled bool
	retry             RetryConfig
}

// New creates a Client from cfg. Blank addressing fields fail fast here
// with ErrBlankField.
func New(cfg Config) (*Client, error) {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"base url", cfg.BaseURL},
		{"project key", cfg.ProjectKey},
		{"repo slug", cfg.RepoSlug},
		{"commit id", cfg.CommitID},
	} {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrBlankField, field.name)
		}
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("bbclient: parsing base url: %w", err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base url must be absolute", ErrBlankField)
	}

	if cfg.Executor == nil {
		return nil, ErrNoExecutor
	}

	if cfg.Signer == nil {
		return nil, ErrNoSigner
	}

	return &Client{
		baseURL:           base,
		projectKey:        cfg.ProjectKey,
		repoSlug:          cfg.RepoSlug,
		commitID:          cfg.CommitID,
		signer:            cfg.Signer,
		executor:          cfg.Executor,
		supportsCancelled: cfg.SupportsCancelled,
		retry:             cfg.Retry,
	}, nil
}

// Post finalizes the builder and delivers the status to the server.
//
// The beforePost hook, when non-nil, is invoked exactly once with the
// finalized status before signing and before any network I/O; it runs
// even when signing subsequently fails. Builder validation errors are
// returned without invoking the hook or touching the network.
func (c *Client) Post(ctx context.Context, builder *buildstatus.Builder, beforePost func(*buildstatus.BuildStatus)) error {
	if builder == nil {
		return ErrNilBuilder
	}

	if !c.supportsCancelled {
		builder.DisableCancelledState()
	}

	status, err := builder.Build()
	if err != nil {
		return err
	}

	if beforePost != nil {
		beforePost(status)
	}

	headers, err := c.signer.Headers(status)
	if err != nil {
		return err
	}

	decorate := func(h http.Header) {
		for name, value := range headers {
			h.Set(name, value)
		}
	}

	return c.executor.PostJSON(ctx, c.buildsURL(), status, decorate, c.retry)
}

// buildsURL returns the absolute URL of the builds resource for the
// addressed commit. Each path segment is escaped individually, so a
// slash or space inside an identifier cannot produce an ambiguous path.
func (c *Client) buildsURL() string {
	segments := []string{
		"rest",
		"api",
		apiVersion,
		"projects",
		c.projectKey,
		"repos",
		c.repoSlug,
		"commits",
		c.commitID,
		"builds",
	}

	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}

	u := *c.baseURL
	u.RawPath = strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(segments, "/")

	return u.String()
}
