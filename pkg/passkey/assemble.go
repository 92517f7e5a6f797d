package passkey

import (
	"fmt"

	"github.com/keep-network/keep-passkey/pkg/ecc"
	"github.com/keep-network/keep-passkey/pkg/utils/serialbuffer"
)

// Assemble packages an authenticator signature into a WA signature:
// `[recoveryID + 27 + 4] ‖ r ‖ s ‖ authenticatorData ‖ clientDataJSON` with
// both side data values prefixed with their varuint32 length.
func Assemble(
	recoveryID int,
	r, s [32]byte,
	authenticatorData []byte,
	clientDataJSON []byte,
) (ecc.Signature, error) {
	if recoveryID < 0 || recoveryID > 3 {
		return ecc.Signature{}, fmt.Errorf(
			"%w: invalid recovery ID [%d]",
			ecc.ErrInvalidFormat,
			recoveryID,
		)
	}

	buffer := serialbuffer.New()
	buffer.Push(byte(recoveryID + ecc.RecoveryHeaderOffset))
	buffer.PushArray(r[:])
	buffer.PushArray(s[:])
	buffer.PushBytes(authenticatorData)
	buffer.PushBytes(clientDataJSON)

	return ecc.Signature{Type: ecc.WA, Data: buffer.Bytes()}, nil
}
