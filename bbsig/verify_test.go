package bbsig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

func TestVerify(t *testing.T) {
	signer, key := newRSASigner(t, false)

	status := mustStatus(t, buildstatus.NewBuilder("KEY-1", buildstatus.StateSuccessful, "https://ci.example.com/1").
		Ref("refs/heads/main"))

	headers, err := signer.Headers(status)
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		err := Verify(&key.PublicKey, status, headers[HeaderSignature], headers[HeaderSignatureAlgorithm])
		assert.NoError(t, err)
	})

	t.Run("tampered status", func(t *testing.T) {
		tampered := mustStatus(t, buildstatus.NewBuilder("KEY-1", buildstatus.StateFailed, "https://ci.example.com/1").
			Ref("refs/heads/main"))

		err := Verify(&key.PublicKey, tampered, headers[HeaderSignature], headers[HeaderSignatureAlgorithm])
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("reordered fields break verification", func(t *testing.T) {
		// Same fields, ref and key swapped in the concatenation source.
		swapped := mustStatus(t, buildstatus.NewBuilder("refs/heads/main", buildstatus.StateSuccessful, "https://ci.example.com/1").
			Ref("KEY-1"))

		err := Verify(&key.PublicKey, swapped, headers[HeaderSignature], headers[HeaderSignatureAlgorithm])
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("invalid base64", func(t *testing.T) {
		err := Verify(&key.PublicKey, status, "%%%", headers[HeaderSignatureAlgorithm])
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		err := Verify(&key.PublicKey, status, headers[HeaderSignature], "MD5withRSA")
		assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	})

	t.Run("wrong key type for algorithm", func(t *testing.T) {
		err := Verify("not a key", status, headers[HeaderSignature], headers[HeaderSignatureAlgorithm])
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
