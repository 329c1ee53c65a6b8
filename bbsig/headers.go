package bbsig

import (
	"encoding/base64"
	"log/slog"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

// Header names attached to a signed build-status request.
const (
	// HeaderBaseURL carries the CI system's externally reachable root
	// URL. Always present, signed or not.
	HeaderBaseURL = "base-url"

	// HeaderSignature carries the base64-encoded detached signature.
	HeaderSignature = "BBS-Signature"

	// HeaderSignatureAlgorithm names the algorithm that produced the
	// signature, e.g. "SHA256withRSA".
	HeaderSignatureAlgorithm = "BBS-Signature-Algorithm"
)

// SignerConfig configures a HeaderSigner.
type SignerConfig struct {
	// Keys supplies the signing key. Required.
	Keys KeyProvider

	// Root supplies the CI system's root URL. Required.
	Root RootProvider

	// Strict makes signing failures fatal. By default a key or signing
	// error degrades to an unsigned request: delivery of the status is
	// preferred over signature presence, and the receiver treats the
	// missing headers as "unsigned" rather than "malformed".
	Strict bool

	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// HeaderSigner computes the signature headers for outgoing build-status
// requests. Each call is an independent, stateless computation; a
// HeaderSigner is safe for concurrent use when its providers are.
type HeaderSigner struct {
	keys   KeyProvider
	root   RootProvider
	strict bool
	logger *slog.Logger
}

// NewHeaderSigner creates a HeaderSigner from cfg.
func NewHeaderSigner(cfg SignerConfig) (*HeaderSigner, error) {
	if cfg.Keys == nil {
		return nil, ErrNoKeyProvider
	}

	if cfg.Root == nil {
		return nil, ErrNoRootProvider
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HeaderSigner{
		keys:   cfg.Keys,
		root:   cfg.Root,
		strict: cfg.Strict,
		logger: logger,
	}, nil
}

// Headers returns the headers to attach to the outgoing request for the
// given finalized status. The base-url header is always present. On
// signing success the detached signature and its algorithm name are
// added; on failure the behavior depends on Strict: the default is to
// log a warning and return the base-url-only set with a nil error, a
// strict signer returns the error instead.
func (s *HeaderSigner) Headers(status *buildstatus.BuildStatus) (map[string]string, error) {
	headers := map[string]string{
		HeaderBaseURL: s.root.Root(),
	}

	key, err := s.keys.Private()
	if err != nil {
		return s.signingFailed(headers, status, err)
	}

	sig, algorithm, err := sign(key, SigningPayload(status))
	if err != nil {
		return s.signingFailed(headers, status, err)
	}

	headers[HeaderSignature] = base64.StdEncoding.EncodeToString(sig)
	headers[HeaderSignatureAlgorithm] = algorithm

	return headers, nil
}

func (s *HeaderSigner) signingFailed(headers map[string]string, status *buildstatus.BuildStatus, err error) (map[string]string, error) {
	if s.strict {
		return nil, err
	}

	s.logger.Warn("signing build status failed, posting unsigned",
		"build_key", status.Key(),
		"error", err)

	return headers, nil
}
