// Package main provides the bbstatus CLI for posting signed build-status
// updates to a Bitbucket Server instance, typically from a CI step.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/bbclient"
	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

var (
	configPath string

	serverURL   string
	rootURL     string
	keyFile     string
	accessToken string
	username    string
	password    string
	strict      bool
	retries     int

	projectKey        string
	repoSlug          string
	commitID          string
	supportsCancelled bool

	buildKey    string
	state       string
	buildURL    string
	ref         string
	name        string
	description string
	buildNumber string
)

var rootCmd = &cobra.Command{
	Use:   "bbstatus",
	Short: "Post build statuses to Bitbucket Server",
	Long: `bbstatus posts build-status updates to the Bitbucket Server REST API,
signing each request with the CI instance key so the server can verify
who sent it.

Connection settings come from a YAML config file (--config) or flags;
flags override the file.`,
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post one build status for a commit",
	RunE:  runPost,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Bitbucket Server root URL")
	rootCmd.PersistentFlags().StringVar(&rootURL, "root", "", "externally reachable root URL of this CI system")
	rootCmd.PersistentFlags().StringVar(&keyFile, "key", "", "path to PEM-encoded signing key")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "bearer token for the Bitbucket API")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "basic auth username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "basic auth password")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "fail instead of posting unsigned when signing fails")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 0, "attempts on rate-limit responses (default 3)")

	postCmd.Flags().StringVar(&projectKey, "project", "", "Bitbucket project key")
	postCmd.Flags().StringVar(&repoSlug, "repo", "", "repository slug")
	postCmd.Flags().StringVar(&commitID, "commit", "", "commit the build ran against")
	postCmd.Flags().BoolVar(&supportsCancelled, "supports-cancelled", false, "target server accepts the CANCELLED state")

	postCmd.Flags().StringVar(&buildKey, "build-key", "", "opaque build identifier")
	postCmd.Flags().StringVar(&state, "state", "", "build state: INPROGRESS, SUCCESSFUL, FAILED, or CANCELLED")
	postCmd.Flags().StringVar(&buildURL, "build-url", "", "link back to the build")
	postCmd.Flags().StringVar(&ref, "ref", "", "branch or tag reference")
	postCmd.Flags().StringVar(&name, "name", "", "display name of the build")
	postCmd.Flags().StringVar(&description, "description", "", "status description")
	postCmd.Flags().StringVar(&buildNumber, "build-number", "", "human-readable build number")

	for _, flag := range []string{"project", "repo", "commit", "build-key", "state", "build-url"} {
		cobra.CheckErr(postCmd.MarkFlagRequired(flag))
	}

	rootCmd.AddCommand(postCmd)
}

// loadConfig merges the optional config file with flag overrides.
func loadConfig() (*bbclient.FileConfig, error) {
	cfg := &bbclient.FileConfig{}

	if configPath != "" {
		loaded, err := bbclient.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if rootURL != "" {
		cfg.RootURL = rootURL
	}
	if keyFile != "" {
		cfg.KeyFile = keyFile
	}
	if accessToken != "" {
		cfg.AccessToken = accessToken
	}
	if username != "" {
		cfg.Username = username
	}
	if password != "" {
		cfg.Password = password
	}
	if strict {
		cfg.StrictSigning = true
	}
	if retries > 0 {
		cfg.RetryAttempts = retries
	}

	return cfg, nil
}

func runPost(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := bbclient.NewFromConfig(cfg, projectKey, repoSlug, commitID, supportsCancelled)
	if err != nil {
		return err
	}

	builder := buildstatus.NewBuilder(buildKey, buildstatus.State(state), buildURL)
	if ref != "" {
		builder.Ref(ref)
	}
	if name != "" {
		builder.Name(name)
	}
	if description != "" {
		builder.Description(description)
	}
	if buildNumber != "" {
		builder.BuildNumber(buildNumber)
	}

	return client.Post(cmd.Context(), builder, func(status *buildstatus.BuildStatus) {
		slog.Info("posting build status",
			"build_key", status.Key(),
			"state", status.State(),
			"commit", commitID)
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
