package buildstatus

import "strings"

// Builder assembles a BuildStatus. Setters return the builder for
// chaining. A builder is single-use: call Build once and discard it.
type Builder struct {
	status      BuildStatus
	noCancelled bool
}

// NewBuilder creates a Builder with the three required fields.
func NewBuilder(key string, state State, url string) *Builder {
	return &Builder{
		status: BuildStatus{
			key:   key,
			state: state,
			url:   url,
		},
	}
}

// Ref sets the branch or tag reference the build ran against.
func (b *Builder) Ref(ref string) *Builder {
	b.status.ref = ref
	return b
}

// BuildNumber sets the human-readable build number.
func (b *Builder) BuildNumber(number string) *Builder {
	b.status.buildNumber = number
	return b
}

// Description sets the free-form status description.
func (b *Builder) Description(description string) *Builder {
	b.status.description = description
	return b
}

// Duration sets the build duration in milliseconds.
func (b *Builder) Duration(millis int64) *Builder {
	b.status.duration = millis
	return b
}

// Name sets the display name of the build.
func (b *Builder) Name(name string) *Builder {
	b.status.name = name
	return b
}

// Parent sets the key of the parent build.
func (b *Builder) Parent(parent string) *Builder {
	b.status.parent = parent
	return b
}

// TestResults attaches a test summary.
func (b *Builder) TestResults(results TestResults) *Builder {
	b.status.testResults = &results
	return b
}

// DisableCancelledState marks the target server as too old to accept
// StateCancelled. Build downgrades a cancelled state to StateFailed.
func (b *Builder) DisableCancelledState() *Builder {
	b.noCancelled = true
	return b
}

// Build validates the required fields and returns the finalized,
// immutable status.
func (b *Builder) Build() (*BuildStatus, error) {
	if strings.TrimSpace(b.status.key) == "" {
		return nil, ErrMissingKey
	}

	if strings.TrimSpace(string(b.status.state)) == "" {
		return nil, ErrMissingState
	}

	if strings.TrimSpace(b.status.url) == "" {
		return nil, ErrMissingURL
	}

	status := b.status
	if b.noCancelled && status.state == StateCancelled {
		status.state = StateFailed
	}

	return &status, nil
}
