// Package ecc encodes EOSIO-family public keys, private keys and signatures
// to and from their checksummed textual form.
//
// Typed values look like `PUB_<type>_<base58>` or `SIG_<type>_<base58>`
// where the base58 payload ends with the first 4 bytes of
// RIPEMD-160(data ‖ type). Legacy public keys use the `EOS` prefix and a
// RIPEMD-160(data) checksum and are always secp256k1 keys.
package ecc

import (
	"errors"
	"fmt"
)

// ErrChecksumMismatch is returned when the embedded checksum of a textual
// key or signature does not match its content.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrInvalidFormat is returned when a textual key or signature has an unknown
// prefix, is not valid base58 or carries a malformed binary payload.
var ErrInvalidFormat = errors.New("invalid format")

// KeyType distinguishes curve and signature families. It selects both the
// checksum suffix and the binary layout of keys and signatures.
type KeyType byte

const (
	// K1 is a secp256k1 key or signature.
	K1 KeyType = iota
	// R1 is a NIST P-256 key or signature.
	R1
	// WA is a P-256 key held by a WebAuthn platform authenticator and the
	// authenticator-backed signature it produces.
	WA
)

// RecoveryHeaderOffset is added to the recovery ID stored in the first byte
// of K1, R1 and WA signatures: 27 for a recoverable signature plus 4 for a
// compressed public key.
const RecoveryHeaderOffset = 27 + 4

const (
	compressedPointLength = 33
	scalarLength          = 32
	compactSignatureSize  = 1 + 2*scalarLength
)

// String returns the tag used in textual keys and in checksums.
func (kt KeyType) String() string {
	switch kt {
	case K1:
		return "K1"
	case R1:
		return "R1"
	case WA:
		return "WA"
	default:
		return fmt.Sprintf("unknown(%d)", byte(kt))
	}
}

func keyTypeFromString(tag string) (KeyType, error) {
	switch tag {
	case "K1":
		return K1, nil
	case "R1":
		return R1, nil
	case "WA":
		return WA, nil
	default:
		return 0, fmt.Errorf("%w: unknown key type [%s]", ErrInvalidFormat, tag)
	}
}
