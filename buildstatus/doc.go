// Package buildstatus models the build-status payload accepted by the
// Bitbucket Server build-status REST API.
//
// A BuildStatus is assembled through a Builder and immutable once built:
//
//	status, err := buildstatus.NewBuilder("PIPELINE-42", buildstatus.StateSuccessful, "https://ci.example.com/builds/42").
//	    Ref("refs/heads/main").
//	    Name("pipeline").
//	    Duration(93_000).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build validates that the key, state, and URL are non-blank; downstream
// signing code depends on that invariant.
//
// Servers older than Bitbucket 7.x do not understand the CANCELLED state.
// Calling DisableCancelledState on the builder downgrades a cancelled
// state to FAILED at build time:
//
//	status, _ := buildstatus.NewBuilder("PIPELINE-42", buildstatus.StateCancelled, url).
//	    DisableCancelledState().
//	    Build()
//	// status.State() == buildstatus.StateFailed
package buildstatus
