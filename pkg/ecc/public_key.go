package ecc

import (
	"bytes"
	cecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/keep-network/keep-passkey/pkg/utils/serialbuffer"
)

const (
	// LegacyPublicKeyPrefix prefixes secp256k1 public keys in the legacy
	// textual form.
	LegacyPublicKeyPrefix = "EOS"

	publicKeyPrefix = "PUB_"
)

// UserPresence records which user interaction an authenticator requires
// before signing with a WA key.
type UserPresence byte

const (
	// UserPresenceNone means the authenticator signs without user
	// interaction.
	UserPresenceNone UserPresence = 0
	// UserPresencePresent means the authenticator requires a user presence
	// test.
	UserPresencePresent UserPresence = 1
	// UserPresenceVerified means the authenticator requires user
	// verification, e.g. a biometric or a PIN.
	UserPresenceVerified UserPresence = 2
)

// PublicKey is a public key together with its key type.
//
// For K1 and R1 keys Data holds the 33-byte compressed point. For WA keys Data
// holds the compressed point, the user presence byte and the length-prefixed
// relying party ID.
type PublicKey struct {
	Type KeyType
	Data []byte
}

// NewWebAuthnPublicKey builds a WA public key from a compressed P-256 point.
func NewWebAuthnPublicKey(
	point []byte,
	presence UserPresence,
	relyingPartyID string,
) (PublicKey, error) {
	if _, err := decompressP256(point); err != nil {
		return PublicKey{}, err
	}

	if presence > UserPresenceVerified {
		return PublicKey{}, fmt.Errorf(
			"%w: unknown user presence [%d]",
			ErrInvalidFormat,
			presence,
		)
	}

	buffer := serialbuffer.New()
	buffer.PushArray(point)
	buffer.Push(byte(presence))
	buffer.PushString(relyingPartyID)

	return PublicKey{Type: WA, Data: buffer.Bytes()}, nil
}

// StringToPublicKey decodes a textual public key. Both the typed form
// (`PUB_K1_`, `PUB_R1_`, `PUB_WA_`) and the legacy `EOS` form are accepted.
func StringToPublicKey(text string) (PublicKey, error) {
	var (
		keyType KeyType
		data    []byte
		err     error
	)

	switch {
	case strings.HasPrefix(text, publicKeyPrefix):
		var payload string
		keyType, payload, err = splitTypedString(text, publicKeyPrefix)
		if err != nil {
			return PublicKey{}, err
		}

		data, err = decodeWithChecksum(payload, keyType.String())
	case strings.HasPrefix(text, LegacyPublicKeyPrefix):
		keyType = K1
		data, err = decodeWithChecksum(
			strings.TrimPrefix(text, LegacyPublicKeyPrefix),
			"",
		)
	default:
		return PublicKey{}, fmt.Errorf(
			"%w: unrecognized public key prefix in [%s]",
			ErrInvalidFormat,
			text,
		)
	}
	if err != nil {
		return PublicKey{}, fmt.Errorf("failed to decode public key: [%w]", err)
	}

	publicKey := PublicKey{Type: keyType, Data: data}
	if err := publicKey.validate(); err != nil {
		return PublicKey{}, err
	}

	return publicKey, nil
}

// String returns the typed textual form of the key.
func (pk PublicKey) String() string {
	return publicKeyPrefix + pk.Type.String() + "_" +
		encodeWithChecksum(pk.Data, pk.Type.String())
}

// LegacyString returns the `EOS` textual form of a K1 key.
func (pk PublicKey) LegacyString() (string, error) {
	if pk.Type != K1 {
		return "", fmt.Errorf(
			"%w: legacy form is available for K1 keys only, has [%v]",
			ErrInvalidFormat,
			pk.Type,
		)
	}

	return LegacyPublicKeyPrefix + encodeWithChecksum(pk.Data, ""), nil
}

// Point returns the compressed curve point of the key.
func (pk PublicKey) Point() []byte {
	if len(pk.Data) < compressedPointLength {
		return nil
	}

	point := make([]byte, compressedPointLength)
	copy(point, pk.Data[:compressedPointLength])

	return point
}

// Equal reports whether both keys have the same type and binary content.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Type == other.Type && bytes.Equal(pk.Data, other.Data)
}

// ToECDSA returns the uncompressed curve point of the key.
func (pk PublicKey) ToECDSA() (*cecdsa.PublicKey, error) {
	switch pk.Type {
	case K1:
		publicKey, err := secp256k1.ParsePubKey(pk.Point())
		if err != nil {
			return nil, fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
		}
		return publicKey.ToECDSA(), nil
	case R1, WA:
		return decompressP256(pk.Point())
	default:
		return nil, fmt.Errorf("%w: unknown key type [%v]", ErrInvalidFormat, pk.Type)
	}
}

// UserPresence returns the user presence requirement of a WA key.
func (pk PublicKey) UserPresence() (UserPresence, error) {
	presence, _, err := pk.webAuthnDetails()
	return presence, err
}

// RelyingPartyID returns the relying party ID a WA key is bound to.
func (pk PublicKey) RelyingPartyID() (string, error) {
	_, relyingPartyID, err := pk.webAuthnDetails()
	return relyingPartyID, err
}

func (pk PublicKey) webAuthnDetails() (UserPresence, string, error) {
	if pk.Type != WA {
		return 0, "", fmt.Errorf("%w: not a WA key", ErrInvalidFormat)
	}

	buffer := serialbuffer.NewFromBytes(pk.Data)
	if _, err := buffer.GetArray(compressedPointLength); err != nil {
		return 0, "", fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
	}

	presence, err := buffer.Get()
	if err != nil {
		return 0, "", fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
	}
	if UserPresence(presence) > UserPresenceVerified {
		return 0, "", fmt.Errorf(
			"%w: unknown user presence [%d]",
			ErrInvalidFormat,
			presence,
		)
	}

	relyingPartyID, err := buffer.GetString()
	if err != nil {
		return 0, "", fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
	}

	if buffer.Remaining() != 0 {
		return 0, "", fmt.Errorf(
			"%w: [%d] trailing bytes in WA key",
			ErrInvalidFormat,
			buffer.Remaining(),
		)
	}

	return UserPresence(presence), relyingPartyID, nil
}

func (pk PublicKey) validate() error {
	switch pk.Type {
	case K1, R1:
		if len(pk.Data) != compressedPointLength {
			return fmt.Errorf(
				"%w: expected %d byte %v key, has [%d] bytes",
				ErrInvalidFormat,
				compressedPointLength,
				pk.Type,
				len(pk.Data),
			)
		}
	case WA:
		if _, _, err := pk.webAuthnDetails(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown key type [%v]", ErrInvalidFormat, pk.Type)
	}

	_, err := pk.ToECDSA()
	return err
}

func decompressP256(point []byte) (*cecdsa.PublicKey, error) {
	curve := elliptic.P256()

	x, y := elliptic.UnmarshalCompressed(curve, point)
	if x == nil {
		return nil, fmt.Errorf(
			"%w: [%x] is not a compressed P-256 point",
			ErrInvalidFormat,
			point,
		)
	}

	return &cecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func compressP256(publicKey *cecdsa.PublicKey) []byte {
	return elliptic.MarshalCompressed(elliptic.P256(), publicKey.X, publicKey.Y)
}
