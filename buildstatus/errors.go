package buildstatus

import "errors"

// Validation errors returned by Builder.Build.
var (
	// ErrMissingKey is returned when the build key is blank.
	ErrMissingKey = errors.New("buildstatus: key must not be blank")

	// ErrMissingState is returned when the build state is blank.
	ErrMissingState = errors.New("buildstatus: state must not be blank")

	// ErrMissingURL is returned when the build URL is blank.
	ErrMissingURL = errors.New("buildstatus: url must not be blank")
)
