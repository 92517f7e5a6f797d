package ecdsa

import (
	cecdsa "crypto/ecdsa"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/secp256k1"
)

// Signer is used to calculate a signature. It holds an ECDSA private key.
type Signer struct {
	privateKey *cecdsa.PrivateKey
}

// Signature holds a signature in a form of two big.Int `r` and `s` values and a
// recovery ID value in {0, 1, 2, 3}.
//
// The signature is chain-agnostic. Some chains (e.g. Ethereum and BTC)
// require `v` to start from 27 and EOSIO adds another 4 to mark compressed
// keys. Please consult the documentation about what the particular chain
// expects.
type Signature struct {
	R          *big.Int
	S          *big.Int
	RecoveryID int
}

// String formats Signature to a human-readable form.
func (s *Signature) String() string {
	return fmt.Sprintf(
		"R: %#x, S: %#x, RecoveryID: %d",
		s.R,
		s.S,
		s.RecoveryID,
	)
}

// NewSigner creates a new Signer and initializes it with a provided secp256k1
// ECDSA private key.
func NewSigner(privateKey *cecdsa.PrivateKey) *Signer {
	return &Signer{privateKey: privateKey}
}

// GenerateKey generates an ECDSA private key. It utilizes go-ethereum's secp256k1
// elliptic curve implementation.
func GenerateKey(rand io.Reader) (*cecdsa.PrivateKey, error) {
	return cecdsa.GenerateKey(secp256k1.S256(), rand)
}

// PrivateKeyFromScalar builds a secp256k1 private key from its scalar.
func PrivateKeyFromScalar(d *big.Int) *cecdsa.PrivateKey {
	curve := secp256k1.S256()

	privateKey := new(cecdsa.PrivateKey)
	privateKey.PublicKey.Curve = curve
	privateKey.D = new(big.Int).Set(d)
	privateKey.PublicKey.X, privateKey.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())

	return privateKey
}

// PublicKey returns Signer's ECDSA public key.
func (s *Signer) PublicKey() *PublicKey {
	return (*PublicKey)(&s.privateKey.PublicKey)
}

// CalculateSignature returns an signature over provided hash, calculated
// with Signer's private key. Signature is returned in `(r, s, v)` form.
func (s *Signer) CalculateSignature(rand io.Reader, hash []byte) (*Signature, error) {
	sigR, sigS, err := cecdsa.Sign(rand, s.privateKey, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate ECDSA signature: [%v]", err)
	}

	recoveryID, err := FindRecoveryID(
		NewS256Recoverer(),
		sigR,
		sigS,
		hash,
		s.PublicKey(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find recovery ID: [%w]", err)
	}

	return &Signature{
		R:          sigR,
		S:          sigS,
		RecoveryID: recoveryID,
	}, nil
}
