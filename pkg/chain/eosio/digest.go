// Package eosio builds the messages signed for EOSIO-family chains.
package eosio

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ipfs/go-log"

	"github.com/keep-network/keep-passkey/pkg/utils/serialbuffer"
)

var logger = log.Logger("keep-eosio")

// ErrInvalidChainID is returned when a chain ID is not 32 bytes of hex.
var ErrInvalidChainID = errors.New("invalid chain ID")

// ChainID identifies an EOSIO chain. It is the hash of the chain's genesis
// state.
type ChainID [32]byte

// ParseChainID parses a hex-encoded chain ID.
func ParseChainID(text string) (ChainID, error) {
	var chainID ChainID

	bytes, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return chainID, fmt.Errorf("%w: [%v]", ErrInvalidChainID, err)
	}
	if len(bytes) != len(chainID) {
		return chainID, fmt.Errorf(
			"%w: expected %d bytes, has [%d]",
			ErrInvalidChainID,
			len(chainID),
			len(bytes),
		)
	}

	copy(chainID[:], bytes)

	return chainID, nil
}

// String returns the hex form of the chain ID.
func (c ChainID) String() string {
	return hex.EncodeToString(c[:])
}

// Digest is the 32-byte message signed to authorize a transaction.
type Digest [32]byte

// Hex returns the hex form of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Challenge returns the digest in the unpadded base64url form an
// authenticator embeds in its client data.
func (d Digest) Challenge() string {
	return base64.RawURLEncoding.EncodeToString(d[:])
}

// BuildDigest builds the signing digest of a serialized transaction:
// SHA-256(chainID ‖ serializedTransaction ‖ 32 zero bytes).
//
// The trailing zero bytes stand in for the digest of context-free data, so
// the result is only valid for transactions without context-free data. Use
// BuildDigestWithContextFreeData otherwise.
func BuildDigest(chainID ChainID, serializedTransaction []byte) Digest {
	return BuildDigestWithContextFreeData(chainID, serializedTransaction, nil)
}

// BuildDigestWithContextFreeData builds the signing digest of a serialized
// transaction carrying packed context-free data. The zero block is replaced
// with SHA-256(contextFreeData) when the data is not empty.
func BuildDigestWithContextFreeData(
	chainID ChainID,
	serializedTransaction []byte,
	contextFreeData []byte,
) Digest {
	var contextFreeDigest [32]byte
	if len(contextFreeData) > 0 {
		contextFreeDigest = sha256.Sum256(contextFreeData)
	}

	buffer := serialbuffer.New()
	buffer.PushArray(chainID[:])
	buffer.PushArray(serializedTransaction)
	buffer.PushArray(contextFreeDigest[:])

	digest := Digest(sha256.Sum256(buffer.Bytes()))

	logger.Debugf(
		"built digest [%s] for transaction [%x] on chain [%s]",
		digest.Hex(),
		TransactionID(serializedTransaction),
		chainID,
	)

	return digest
}

// TransactionID returns the ID of a serialized transaction, which is the
// SHA-256 hash of its bytes.
func TransactionID(serializedTransaction []byte) [32]byte {
	return sha256.Sum256(serializedTransaction)
}
