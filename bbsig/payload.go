package bbsig

import (
	"bytes"

	"github.com/MaorT/atlassian-bitbucket-server-integration-plugin/buildstatus"
)

// SigningPayload returns the canonical byte sequence signed for a build
// status: the UTF-8 bytes of key, ref (only when present), state, and
// url, concatenated in that order with no separators.
//
// The order is part of the wire contract: the verifying server
// reconstructs the identical sequence from the posted payload. An absent
// ref contributes no bytes at all; it is skipped, not signed as empty.
func SigningPayload(status *buildstatus.BuildStatus) []byte {
	var b bytes.Buffer
	b.WriteString(status.Key())

	if ref := status.Ref(); ref != "" {
		b.WriteString(ref)
	}

	b.WriteString(status.State().String())
	b.WriteString(status.URL())

	return b.Bytes()
}
