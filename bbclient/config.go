package bbclient

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/bbsig"
)

// Duration wraps time.Duration with YAML support for values like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: duration must be a scalar", ErrInvalidConfig)
	}

	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	*d = Duration(parsed)

	return nil
}

// FileConfig is the on-disk configuration for a status-posting client.
type FileConfig struct {
	// ServerURL is the root URL of the Bitbucket Server instance.
	// Required.
	ServerURL string `yaml:"server_url"`

	// RootURL is the externally reachable root URL of the CI system,
	// sent in the base-url header. Required.
	RootURL string `yaml:"root_url"`

	// KeyFile is the path to the PEM-encoded signing key. Required.
	KeyFile string `yaml:"key_file"`

	// AccessToken authenticates requests as a bearer token.
	AccessToken string `yaml:"access_token"`

	// Username and Password authenticate requests with basic auth when
	// no access token is set.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// StrictSigning fails posts on signing errors instead of sending
	// them unsigned.
	StrictSigning bool `yaml:"strict_signing"`

	// RetryAttempts bounds rate-limit retries. Zero means
	// DefaultRetryAttempts.
	RetryAttempts int `yaml:"retry_attempts"`

	// Timeout bounds each request attempt, e.g. "30s".
	Timeout Duration `yaml:"timeout"`
}

// LoadConfig reads and validates a YAML configuration file. Unknown
// fields are rejected.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bbclient: reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg FileConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *FileConfig) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: server_url is required", ErrInvalidConfig)
	}

	if c.RootURL == "" {
		return fmt.Errorf("%w: root_url is required", ErrInvalidConfig)
	}

	if c.KeyFile == "" {
		return fmt.Errorf("%w: key_file is required", ErrInvalidConfig)
	}

	return nil
}

// NewFromConfig creates a Client with production collaborators built
// from cfg: a file-backed key provider, a static root provider, and an
// HTTP executor. The addressing parameters identify the commit the
// statuses are posted for.
func NewFromConfig(cfg *FileConfig, projectKey, repoSlug, commitID string, supportsCancelled bool) (*Client, error) {
	keys, err := bbsig.NewFileKeyProvider(cfg.KeyFile)
	if err != nil {
		return nil, err
	}

	signer, err := bbsig.NewHeaderSigner(bbsig.SignerConfig{
		Keys:   keys,
		Root:   bbsig.StaticRoot(cfg.RootURL),
		Strict: cfg.StrictSigning,
	})
	if err != nil {
		return nil, err
	}

	executor, err := NewExecutor(ExecutorConfig{
		Timeout:     time.Duration(cfg.Timeout),
		AccessToken: cfg.AccessToken,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	return New(Config{
		BaseURL:           cfg.ServerURL,
		ProjectKey:        projectKey,
		RepoSlug:          repoSlug,
		CommitID:          commitID,
		Signer:            signer,
		Executor:          executor,
		SupportsCancelled: supportsCancelled,
		Retry:             RetryConfig{MaxAttempts: cfg.RetryAttempts},
	})
}
