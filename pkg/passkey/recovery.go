package passkey

import (
	"fmt"
	"math/big"

	"github.com/keep-network/keep-passkey/pkg/ecc"
	"github.com/keep-network/keep-passkey/pkg/ecdsa"
)

// EffectiveHash returns the hash an authenticator signs during an assertion
// ceremony: SHA-256(authenticatorData ‖ SHA-256(clientDataJSON)).
func EffectiveHash(authenticatorData, clientDataJSON []byte) [32]byte {
	signature := &ecc.WebAuthnSignature{
		AuthenticatorData: authenticatorData,
		ClientDataJSON:    clientDataJSON,
	}

	return signature.EffectiveHash()
}

// ResolveRecoveryID finds the recovery ID of an authenticator signature
// against the registered credential key. Exactly one of the four candidate
// keys must match, there is no fallback to an arbitrary recovery ID.
func ResolveRecoveryID(
	authenticatorData []byte,
	clientDataJSON []byte,
	rawDERSignature []byte,
	publicKey ecc.PublicKey,
) (int, error) {
	signature, err := ParseDERSignature(rawDERSignature)
	if err != nil {
		return -1, err
	}

	return resolveRecoveryID(
		signature,
		EffectiveHash(authenticatorData, clientDataJSON),
		publicKey,
	)
}

func resolveRecoveryID(
	signature *ParsedSignature,
	effectiveHash [32]byte,
	publicKey ecc.PublicKey,
) (int, error) {
	if publicKey.Type != ecc.R1 && publicKey.Type != ecc.WA {
		return -1, fmt.Errorf(
			"%w: expected a P-256 key, has [%v]",
			ErrUnsupportedKey,
			publicKey.Type,
		)
	}

	ecdsaKey, err := publicKey.ToECDSA()
	if err != nil {
		return -1, fmt.Errorf("invalid credential public key: [%w]", err)
	}

	recoveryID, err := ecdsa.FindRecoveryID(
		ecdsa.NewP256Recoverer(),
		new(big.Int).SetBytes(signature.R[:]),
		new(big.Int).SetBytes(signature.S[:]),
		effectiveHash[:],
		(*ecdsa.PublicKey)(ecdsaKey),
	)
	if err != nil {
		logger.Warningf(
			"signature does not match credential key [%s]: [%v]",
			publicKey,
			err,
		)
		return -1, err
	}

	logger.Debugf("resolved recovery ID [%d]", recoveryID)

	return recoveryID, nil
}
