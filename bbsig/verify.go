package bbsig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

// Verify checks a detached build-status signature. It reconstructs the
// canonical byte sequence from status, decodes the base64 signature, and
// verifies it against pub using the named algorithm.
func Verify(pub crypto.PublicKey, status *buildstatus.BuildStatus, signatureB64, algorithm string) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return fmt.Errorf("%w: invalid base64 signature", ErrSignatureInvalid)
	}

	digest := sha256.Sum256(SigningPayload(status))

	switch algorithm {
	case AlgorithmSHA256WithRSA:
		key, ok := pub.(*rsa.PublicKey)
		if !ok {
			return fmt.Errorf("%w: %s requires an RSA public key, got %T", ErrInvalidKey, algorithm, pub)
		}

		if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig); err != nil {
			return ErrSignatureInvalid
		}

		return nil

	case AlgorithmSHA256WithECDSA:
		key, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return fmt.Errorf("%w: %s requires an ECDSA public key, got %T", ErrInvalidKey, algorithm, pub)
		}

		if !ecdsa.VerifyASN1(key, digest[:], sig) {
			return ErrSignatureInvalid
		}

		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}
