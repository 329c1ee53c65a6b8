package buildstatus

import "encoding/json"

// State is a build result reported to Bitbucket Server.
type State string

// Build states accepted by the Bitbucket Server build-status API.
const (
	StateInProgress State = "INPROGRESS"
	StateSuccessful State = "SUCCESSFUL"
	StateFailed     State = "FAILED"

	// StateCancelled requires Bitbucket Server 7.x or later. Builders
	// with the cancelled state disabled downgrade it to StateFailed.
	StateCancelled State = "CANCELLED"
)

// String returns the wire representation of the state.
func (s State) String() string {
	return string(s)
}

// TestResults summarizes test outcomes attached to a build status.
type TestResults struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// BuildStatus is an immutable build-status payload. Values are produced
// by Builder.Build and read-only afterwards; the signing code relies on
// key, state, and url being non-blank in any built value.
type BuildStatus struct {
	key         string
	state       State
	url         string
	ref         string
	buildNumber string
	description string
	duration    int64
	name        string
	parent      string
	testResults *TestResults
}

// Key returns the opaque build identifier.
func (b *BuildStatus) Key() string { return b.key }

// State returns the build state.
func (b *BuildStatus) State() State { return b.state }

// URL returns the link back to the build.
func (b *BuildStatus) URL() string { return b.url }

// Ref returns the branch or tag reference, or an empty string when the
// status is not tied to a ref.
func (b *BuildStatus) Ref() string { return b.ref }

// BuildNumber returns the human-readable build number.
func (b *BuildStatus) BuildNumber() string { return b.buildNumber }

// Description returns the free-form status description.
func (b *BuildStatus) Description() string { return b.description }

// Duration returns the build duration in milliseconds, or zero when not
// set.
func (b *BuildStatus) Duration() int64 { return b.duration }

// Name returns the display name of the build.
func (b *BuildStatus) Name() string { return b.name }

// Parent returns the key of the parent build, or an empty string.
func (b *BuildStatus) Parent() string { return b.parent }

// TestResults returns the attached test summary, or nil.
func (b *BuildStatus) TestResults() *TestResults {
	if b.testResults == nil {
		return nil
	}

	copied := *b.testResults

	return &copied
}

// statusJSON is the wire form of BuildStatus per the Bitbucket Server
// REST API.
type statusJSON struct {
	Key         string       `json:"key"`
	State       State        `json:"state"`
	URL         string       `json:"url"`
	Ref         string       `json:"ref,omitempty"`
	BuildNumber string       `json:"buildNumber,omitempty"`
	Description string       `json:"description,omitempty"`
	Duration    int64        `json:"duration,omitempty"`
	Name        string       `json:"name,omitempty"`
	Parent      string       `json:"parent,omitempty"`
	TestResults *TestResults `json:"testResults,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b *BuildStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{
		Key:         b.key,
		State:       b.state,
		URL:         b.url,
		Ref:         b.ref,
		BuildNumber: b.buildNumber,
		Description: b.description,
		Duration:    b.duration,
		Name:        b.name,
		Parent:      b.parent,
		TestResults: b.testResults,
	})
}

// UnmarshalJSON implements json.Unmarshaler. It is intended for
// receiving-side code (signature verification middleware and tests);
// unlike Builder.Build it performs no validation.
func (b *BuildStatus) UnmarshalJSON(data []byte) error {
	var wire statusJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	b.key = wire.Key
	b.state = wire.State
	b.url = wire.URL
	b.ref = wire.Ref
	b.buildNumber = wire.BuildNumber
	b.description = wire.Description
	b.duration = wire.Duration
	b.name = wire.Name
	b.parent = wire.Parent
	b.testResults = wire.TestResults

	return nil
}
