// Package bbclient posts build-status updates to the Bitbucket Server
// REST API, signing each request so the server can verify the CI
// system's identity.
//
// A Client addresses one commit of one repository. Post finalizes a
// status builder, computes the signature headers via bbsig, and hands
// the request to an executor that owns serialization, authentication,
// and the bounded retry on rate-limit responses:
//
//	signer, err := bbsig.NewHeaderSigner(bbsig.SignerConfig{
//	    Keys: keys,
//	    Root: bbsig.StaticRoot("https://ci.example.com"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	executor, err := bbclient.NewExecutor(bbclient.ExecutorConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := bbclient.New(bbclient.Config{
//	    BaseURL:    "https://bitbucket.example.com",
//	    ProjectKey: "PRJ",
//	    RepoSlug:   "repo1",
//	    CommitID:   "abc123",
//	    Signer:     signer,
//	    Executor:   executor,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	builder := buildstatus.NewBuilder("PIPELINE-42", buildstatus.StateSuccessful, "https://ci.example.com/builds/42")
//	err = client.Post(ctx, builder, func(status *buildstatus.BuildStatus) {
//	    log.Printf("posting %s for %s", status.State(), status.Key())
//	})
//
// The target path is
// /rest/api/1.0/projects/{projectKey}/repos/{repoSlug}/commits/{commitID}/builds
// with every segment escaped individually.
//
// NewFromConfig builds a client with production collaborators from a
// YAML configuration file; see FileConfig for the schema.
package bbclient
