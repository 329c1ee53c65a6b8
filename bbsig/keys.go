package bbsig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// Minimum RSA key size in bits.
const minRSAKeyBits = 2048

// KeyProvider supplies the private key used to sign outgoing build
// statuses. Implementations must be safe for concurrent use; the caller
// borrows the key for one signing operation and never retains it.
type KeyProvider interface {
	Private() (crypto.Signer, error)
}

// RootProvider supplies the externally reachable root URL of the CI
// system, sent with every status update so the server can link back.
type RootProvider interface {
	Root() string
}

// StaticRoot is a RootProvider returning a fixed URL.
type StaticRoot string

// Root returns the fixed root URL.
func (r StaticRoot) Root() string { return string(r) }

// staticKeyProvider wraps an in-memory private key.
type staticKeyProvider struct {
	key crypto.Signer
}

// NewStaticKeyProvider creates a KeyProvider that returns the given key
// on every call. RSA keys below 2048 bits are rejected.
func NewStaticKeyProvider(key crypto.Signer) (KeyProvider, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key must not be nil", ErrInvalidKey)
	}

	if err := checkKey(key); err != nil {
		return nil, err
	}

	return &staticKeyProvider{key: key}, nil
}

func (p *staticKeyProvider) Private() (crypto.Signer, error) {
	return p.key, nil
}

// fileKeyProvider reads a PEM-encoded private key from disk.
type fileKeyProvider struct {
	path string
}

// NewFileKeyProvider creates a KeyProvider that loads a PEM-encoded
// private key from path on every call, so the file can be rotated
// without restarting. The path must name a readable file at construction
// time with a parseable key in it.
func NewFileKeyProvider(path string) (KeyProvider, error) {
	p := &fileKeyProvider{path: path}

	if _, err := p.Private(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *fileKeyProvider) Private() (crypto.Signer, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidKey, p.path, err)
	}

	return ParsePrivateKeyPEM(data)
}

// ParsePrivateKeyPEM parses a PEM-encoded private key in PKCS#1, PKCS#8,
// or SEC 1 (EC) form.
func ParsePrivateKeyPEM(data []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	var (
		key crypto.Signer
		err error
	)

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		var parsed any
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		if err == nil {
			signer, ok := parsed.(crypto.Signer)
			if !ok {
				return nil, fmt.Errorf("%w: %T does not implement crypto.Signer", ErrInvalidKey, parsed)
			}
			key = signer
		}
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", ErrInvalidKey, block.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	if err := checkKey(key); err != nil {
		return nil, err
	}

	return key, nil
}

// checkKey validates key material constraints for supported key types.
// Unsupported types pass here; they surface as ErrUnsupportedKey at
// signing time instead, which feeds the fail-open path.
func checkKey(key crypto.Signer) error {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		if k.N.BitLen() < minRSAKeyBits {
			return fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, minRSAKeyBits)
		}
	case *ecdsa.PrivateKey:
		if k.Curve == nil {
			return fmt.Errorf("%w: ecdsa key has no curve", ErrInvalidKey)
		}
	}

	return nil
}
