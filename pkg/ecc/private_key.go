package ecc

import (
	cecdsa "crypto/ecdsa"
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/keep-network/keep-passkey/pkg/ecdsa"
)

const (
	privateKeyPrefix = "PVT_"

	// maxSigningAttempts bounds the search for a canonical K1 signature. A
	// random nonce yields a canonical signature with a probability of about
	// one in four.
	maxSigningAttempts = 64
)

// PrivateKey is a K1 private key scalar. Only secp256k1 software keys are
// supported; P-256 keys live inside platform authenticators.
type PrivateKey struct {
	Type KeyType
	Data []byte
}

// StringToPrivateKey decodes a `PVT_K1_` private key or a legacy WIF key.
func StringToPrivateKey(text string) (PrivateKey, error) {
	if strings.HasPrefix(text, privateKeyPrefix) {
		keyType, payload, err := splitTypedString(text, privateKeyPrefix)
		if err != nil {
			return PrivateKey{}, err
		}
		if keyType != K1 {
			return PrivateKey{}, fmt.Errorf(
				"%w: unsupported private key type [%v]",
				ErrInvalidFormat,
				keyType,
			)
		}

		data, err := decodeWithChecksum(payload, keyType.String())
		if err != nil {
			return PrivateKey{}, fmt.Errorf("failed to decode private key: [%w]", err)
		}

		privateKey := PrivateKey{Type: K1, Data: data}
		if err := privateKey.validate(); err != nil {
			return PrivateKey{}, err
		}

		return privateKey, nil
	}

	wif, err := btcutil.DecodeWIF(text)
	if err != nil {
		if errors.Is(err, btcutil.ErrChecksumMismatch) {
			return PrivateKey{}, ErrChecksumMismatch
		}
		return PrivateKey{}, fmt.Errorf("%w: [%v]", ErrInvalidFormat, err)
	}
	if !wif.IsForNet(&chaincfg.MainNetParams) {
		return PrivateKey{}, fmt.Errorf("%w: unexpected WIF network", ErrInvalidFormat)
	}

	return PrivateKey{Type: K1, Data: wif.PrivKey.Serialize()}, nil
}

// String returns the `PVT_K1_` textual form of the key.
func (pk PrivateKey) String() string {
	return privateKeyPrefix + pk.Type.String() + "_" +
		encodeWithChecksum(pk.Data, pk.Type.String())
}

// LegacyString returns the legacy WIF form of the key.
func (pk PrivateKey) LegacyString() (string, error) {
	privateKey, _ := btcec.PrivKeyFromBytes(btcec.S256(), pk.Data)

	wif, err := btcutil.NewWIF(privateKey, &chaincfg.MainNetParams, false)
	if err != nil {
		return "", fmt.Errorf("failed to encode WIF: [%v]", err)
	}

	return wif.String(), nil
}

// PublicKey returns the K1 public key of the private key.
func (pk PrivateKey) PublicKey() PublicKey {
	privateKey := secp256k1.PrivKeyFromBytes(pk.Data)

	return PublicKey{
		Type: K1,
		Data: privateKey.PubKey().SerializeCompressed(),
	}
}

// ToECDSA returns the key as a standard library ECDSA private key over the
// secp256k1 curve.
func (pk PrivateKey) ToECDSA() *cecdsa.PrivateKey {
	return ecdsa.PrivateKeyFromScalar(new(big.Int).SetBytes(pk.Data))
}

// Sign produces a canonical K1 signature over a 32-byte digest. Signatures
// are normalized to a low `s` value and retried with a fresh nonce until
// both `r` and `s` encode without a sign bit or a redundant leading zero.
func (pk PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != 32 {
		return Signature{}, fmt.Errorf(
			"%w: digest must be 32 bytes, has [%d]",
			ErrInvalidFormat,
			len(digest),
		)
	}

	signer := ecdsa.NewSigner(pk.ToECDSA())
	halfOrder := new(big.Int).Rsh(crypto.S256().Params().N, 1)

	for attempt := 0; attempt < maxSigningAttempts; attempt++ {
		signature, err := signer.CalculateSignature(crand.Reader, digest)
		if err != nil {
			return Signature{}, err
		}

		recoveryID := signature.RecoveryID
		if signature.S.Cmp(halfOrder) > 0 {
			signature.S = new(big.Int).Sub(crypto.S256().Params().N, signature.S)
			recoveryID ^= 1
		}

		data := make([]byte, compactSignatureSize)
		data[0] = byte(recoveryID + RecoveryHeaderOffset)
		signature.R.FillBytes(data[1 : 1+scalarLength])
		signature.S.FillBytes(data[1+scalarLength:])

		if isCanonical(data) {
			return Signature{Type: K1, Data: data}, nil
		}
	}

	return Signature{}, fmt.Errorf(
		"failed to produce a canonical signature in [%d] attempts",
		maxSigningAttempts,
	)
}

func (pk PrivateKey) validate() error {
	if len(pk.Data) != scalarLength {
		return fmt.Errorf(
			"%w: expected %d byte private key, has [%d] bytes",
			ErrInvalidFormat,
			scalarLength,
			len(pk.Data),
		)
	}

	d := new(big.Int).SetBytes(pk.Data)
	if d.Sign() == 0 || d.Cmp(crypto.S256().Params().N) >= 0 {
		return fmt.Errorf("%w: private key out of range", ErrInvalidFormat)
	}

	return nil
}

// isCanonical checks a compact K1 signature the way EOSIO nodes do.
func isCanonical(data []byte) bool {
	return (data[1]&0x80) == 0 &&
		!(data[1] == 0 && (data[2]&0x80) == 0) &&
		(data[33]&0x80) == 0 &&
		!(data[33] == 0 && (data[34]&0x80) == 0)
}
