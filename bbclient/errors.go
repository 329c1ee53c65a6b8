package bbclient

import "errors"

// Construction errors.
var (
	// ErrBlankField is returned when a required addressing field is blank
	// at construction time.
	ErrBlankField = errors.New("bbclient: required field must not be blank")

	// ErrNoExecutor is returned when Config has no RequestExecutor.
	ErrNoExecutor = errors.New("bbclient: executor must not be nil")

	// ErrNoSigner is returned when Config has no HeaderSigner.
	ErrNoSigner = errors.New("bbclient: signer must not be nil")

	// ErrNilBuilder is returned when Post is called with a nil builder.
	ErrNilBuilder = errors.New("bbclient: status builder must not be nil")
)

// Transport errors.
var (
	// ErrUnexpectedStatus is returned when the server responds with a
	// non-2xx status.
	ErrUnexpectedStatus = errors.New("bbclient: unexpected response status")

	// ErrRateLimited is returned when the retry budget is exhausted on
	// rate-limit responses.
	ErrRateLimited = errors.New("bbclient: rate limited")
)

// Configuration errors.
var (
	// ErrInvalidConfig is returned when a configuration file fails
	// validation.
	ErrInvalidConfig = errors.New("bbclient: invalid configuration")
)
