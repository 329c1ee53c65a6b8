package bbsig

import (
	"bytes"
	"crypto"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

// KeyResolver returns the public key to verify a request with. The
// request is provided for context (e.g., to select keys based on the
// base-url header).
type KeyResolver func(r *http.Request) (crypto.PublicKey, error)

// MiddlewareConfig configures the server-side verification middleware.
type MiddlewareConfig struct {
	// Resolver looks up the verification key. Required.
	Resolver KeyResolver

	// RequireSignature rejects requests without signature headers. By
	// default an unsigned request passes through unverified, matching
	// the poster's fail-open behavior: absent headers mean "unsigned",
	// not "malformed".
	RequireSignature bool

	// OnError is called when verification fails. When nil, a plain 401
	// Unauthorized response is sent.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// VerifyMiddleware returns an http middleware that verifies the detached
// signature on incoming build-status posts. The request body is read to
// reconstruct the signed byte sequence and restored before the next
// handler runs.
//
// It returns ErrNoResolver if MiddlewareConfig.Resolver is nil.
func VerifyMiddleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Resolver == nil {
		return nil, ErrNoResolver
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(HeaderSignature)
			algorithm := r.Header.Get(HeaderSignatureAlgorithm)

			if signature == "" || algorithm == "" {
				if cfg.RequireSignature {
					onError(w, r, ErrSignatureMissing)
					return
				}

				next.ServeHTTP(w, r)

				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				onError(w, r, err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var status buildstatus.BuildStatus
			if err := json.Unmarshal(body, &status); err != nil {
				onError(w, r, err)
				return
			}

			pub, err := cfg.Resolver(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			if err := Verify(pub, &status, signature, algorithm); err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// defaultOnError writes a 401 Unauthorized response with no body.
func defaultOnError(w http.ResponseWriter, _ *http.Request, _ error) {
	w.WriteHeader(http.StatusUnauthorized)
}
