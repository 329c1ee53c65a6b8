package bbsig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Algorithm identifiers use the Java JCA naming scheme
// ("SHA256with<family>") so that a Bitbucket Server instance can verify
// the signature with no out-of-band configuration.
const (
	AlgorithmSHA256WithRSA   = "SHA256withRSA"
	AlgorithmSHA256WithECDSA = "SHA256withECDSA"
)

// AlgorithmName returns the self-describing algorithm identifier for the
// given private key, or ErrUnsupportedKey when no algorithm matches.
func AlgorithmName(key crypto.Signer) (string, error) {
	switch key.(type) {
	case *rsa.PrivateKey:
		return AlgorithmSHA256WithRSA, nil
	case *ecdsa.PrivateKey:
		return AlgorithmSHA256WithECDSA, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// sign produces a detached signature over message and returns it together
// with the algorithm identifier used.
//
// SHA256withRSA is RSASSA-PKCS1-v1_5 over a SHA-256 digest;
// SHA256withECDSA is ASN.1 DER-encoded ECDSA over a SHA-256 digest.
// Both match what java.security.Signature produces for the same names.
func sign(key crypto.Signer, message []byte) ([]byte, string, error) {
	digest := sha256.Sum256(message)

	switch k := key.(type) {
	case *rsa.PrivateKey:
		sig, err := rsa.SignPKCS1v15(rand.Reader, k, crypto.SHA256, digest[:])

		return sig, AlgorithmSHA256WithRSA, err
	case *ecdsa.PrivateKey:
		sig, err := ecdsa.SignASN1(rand.Reader, k, digest[:])

		return sig, AlgorithmSHA256WithECDSA, err
	default:
		return nil, "", fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}
