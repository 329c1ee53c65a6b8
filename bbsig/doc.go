// Package bbsig signs and verifies Bitbucket Server build-status updates
// with a detached signature carried in request headers.
//
// The signed byte sequence is the UTF-8 concatenation of the status key,
// ref (skipped entirely when absent), state, and url, in that order with
// no separators. The signature travels base64-encoded in the
// BBS-Signature header, its algorithm name in BBS-Signature-Algorithm,
// and the CI system's root URL in base-url. Algorithm names follow the
// Java JCA convention ("SHA256withRSA") so the receiving server needs no
// out-of-band configuration to verify.
//
// # Signing
//
//	keys, err := bbsig.NewFileKeyProvider("/etc/ci/instance-key.pem")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	signer, err := bbsig.NewHeaderSigner(bbsig.SignerConfig{
//	    Keys: keys,
//	    Root: bbsig.StaticRoot("https://ci.example.com"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	headers, err := signer.Headers(status)
//
// Signing failures do not abort the post: the default behavior is to log
// a warning and return only the base-url header, so the status still
// reaches the server unsigned. Set SignerConfig.Strict to fail closed
// instead.
//
// # Verifying
//
// Receivers verify with the poster's public key, either directly:
//
//	err := bbsig.Verify(pub, status, signatureB64, algorithm)
//
// or as middleware on the builds endpoint:
//
//	mw, err := bbsig.VerifyMiddleware(bbsig.MiddlewareConfig{
//	    Resolver: func(r *http.Request) (crypto.PublicKey, error) {
//	        return lookupKey(r.Header.Get(bbsig.HeaderBaseURL))
//	    },
//	    RequireSignature: true,
//	})
package bbsig
