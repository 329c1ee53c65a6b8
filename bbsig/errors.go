package bbsig

import "errors"

// Signing errors.
var (
	// ErrNoKeyProvider is returned when SignerConfig has no KeyProvider
	// configured.
	ErrNoKeyProvider = errors.New("bbsig: key provider must not be nil")

	// ErrNoRootProvider is returned when SignerConfig has no RootProvider
	// configured.
	ErrNoRootProvider = errors.New("bbsig: root provider must not be nil")

	// ErrUnsupportedKey is returned when the private key type has no
	// matching signature algorithm.
	ErrUnsupportedKey = errors.New("bbsig: unsupported signing key type")
)

// Verification errors.
var (
	// ErrNoResolver is returned when MiddlewareConfig has no KeyResolver
	// configured.
	ErrNoResolver = errors.New("bbsig: key resolver must not be nil")

	// ErrSignatureMissing is returned when a request carries no signature
	// headers and the middleware requires them.
	ErrSignatureMissing = errors.New("bbsig: signature headers not present")

	// ErrSignatureInvalid is returned when signature verification fails.
	ErrSignatureInvalid = errors.New("bbsig: signature verification failed")

	// ErrUnknownAlgorithm is returned when the signature algorithm header
	// names an algorithm this package does not implement.
	ErrUnknownAlgorithm = errors.New("bbsig: unknown signature algorithm")
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material is invalid (nil,
	// insufficient size, unparseable PEM, etc.).
	ErrInvalidKey = errors.New("bbsig: invalid key material")
)
