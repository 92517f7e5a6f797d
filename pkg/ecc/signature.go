package ecc

import (
	"bytes"
	"fmt"
	"math/big"

	dcrdecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/keep-network/keep-passkey/pkg/ecdsa"
)

const signaturePrefix = "SIG_"

// Signature is a recoverable signature together with its key type.
//
// K1 and R1 signatures hold `[recoveryID + 31] ‖ r ‖ s`. WA signatures
// additionally carry the length-prefixed authenticator data and client data
// JSON, see WebAuthnSignature.
type Signature struct {
	Type KeyType
	Data []byte
}

// SignatureToString encodes a signature payload of the given key type to its
// textual form.
func SignatureToString(keyType KeyType, payload []byte) (string, error) {
	signature := Signature{Type: keyType, Data: payload}
	if err := signature.validate(); err != nil {
		return "", err
	}

	return signature.String(), nil
}

// StringToSignature decodes a textual `SIG_<type>_` signature.
func StringToSignature(text string) (Signature, error) {
	keyType, payload, err := splitTypedString(text, signaturePrefix)
	if err != nil {
		return Signature{}, err
	}

	data, err := decodeWithChecksum(payload, keyType.String())
	if err != nil {
		return Signature{}, fmt.Errorf("failed to decode signature: [%w]", err)
	}

	signature := Signature{Type: keyType, Data: data}
	if err := signature.validate(); err != nil {
		return Signature{}, err
	}

	return signature, nil
}

// String returns the textual form of the signature.
func (s Signature) String() string {
	return signaturePrefix + s.Type.String() + "_" +
		encodeWithChecksum(s.Data, s.Type.String())
}

// Equal reports whether both signatures have the same type and content.
func (s Signature) Equal(other Signature) bool {
	return s.Type == other.Type && bytes.Equal(s.Data, other.Data)
}

// RecoveryID returns the recovery ID stored in the signature header.
func (s Signature) RecoveryID() (int, error) {
	if len(s.Data) == 0 {
		return -1, fmt.Errorf("%w: empty signature", ErrInvalidFormat)
	}

	recoveryID := int(s.Data[0]) - RecoveryHeaderOffset
	if recoveryID < 0 || recoveryID > 3 {
		return -1, fmt.Errorf(
			"%w: unexpected signature header [%d]",
			ErrInvalidFormat,
			s.Data[0],
		)
	}

	return recoveryID, nil
}

// RecoverPublicKey recovers the key which produced the signature over the
// digest. For WA signatures the effective hash signed by the authenticator is
// re-derived from the embedded authenticator data and client data, and the
// client data challenge must embed the digest.
func (s Signature) RecoverPublicKey(digest []byte) (PublicKey, error) {
	switch s.Type {
	case K1:
		if err := s.validate(); err != nil {
			return PublicKey{}, err
		}

		publicKey, _, err := dcrdecdsa.RecoverCompact(s.Data, digest)
		if err != nil {
			return PublicKey{}, fmt.Errorf("failed to recover K1 key: [%w]", err)
		}

		return PublicKey{Type: K1, Data: publicKey.SerializeCompressed()}, nil
	case R1:
		if err := s.validate(); err != nil {
			return PublicKey{}, err
		}

		recoveryID, err := s.RecoveryID()
		if err != nil {
			return PublicKey{}, err
		}

		point, err := recoverP256(
			s.Data[1:1+scalarLength],
			s.Data[1+scalarLength:compactSignatureSize],
			digest,
			recoveryID,
		)
		if err != nil {
			return PublicKey{}, err
		}

		return PublicKey{Type: R1, Data: point}, nil
	case WA:
		webAuthnSignature, err := s.WebAuthn()
		if err != nil {
			return PublicKey{}, err
		}

		return webAuthnSignature.RecoverPublicKey(digest)
	default:
		return PublicKey{}, fmt.Errorf("%w: unknown key type [%v]", ErrInvalidFormat, s.Type)
	}
}

func (s Signature) validate() error {
	switch s.Type {
	case K1, R1:
		if len(s.Data) != compactSignatureSize {
			return fmt.Errorf(
				"%w: expected %d byte %v signature, has [%d] bytes",
				ErrInvalidFormat,
				compactSignatureSize,
				s.Type,
				len(s.Data),
			)
		}
		_, err := s.RecoveryID()
		return err
	case WA:
		_, err := s.WebAuthn()
		return err
	default:
		return fmt.Errorf("%w: unknown key type [%v]", ErrInvalidFormat, s.Type)
	}
}

// recoverP256 recovers the compressed P-256 point from big-endian `r` and `s`
// values.
func recoverP256(r, s []byte, hash []byte, recoveryID int) ([]byte, error) {
	recoverer := ecdsa.NewP256Recoverer()

	publicKey, err := recoverer.RecoverPoint(
		new(big.Int).SetBytes(r),
		new(big.Int).SetBytes(s),
		hash,
		recoveryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to recover P-256 key: [%w]", err)
	}

	return compressP256(publicKey.ToECDSA()), nil
}
