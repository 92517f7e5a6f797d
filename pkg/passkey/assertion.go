package passkey

import (
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/keep-network/keep-passkey/pkg/ecc"
)

// ParseAssertionResponse decodes the browser response of an assertion
// ceremony, as returned by `navigator.credentials.get` and serialized with
// base64url encoded binary fields.
func ParseAssertionResponse(response []byte) (*Assertion, error) {
	parsed, err := protocol.ParseCredentialRequestResponseBytes(response)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: failed to parse assertion response: [%v]",
			ecc.ErrInvalidFormat,
			err,
		)
	}

	return &Assertion{
		CredentialID:      parsed.RawID,
		AuthenticatorData: parsed.Raw.AssertionResponse.AuthenticatorData,
		ClientDataJSON:    parsed.Raw.AssertionResponse.ClientDataJSON,
		Signature:         parsed.Raw.AssertionResponse.Signature,
	}, nil
}
