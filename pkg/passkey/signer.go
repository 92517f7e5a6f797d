package passkey

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
	"github.com/keep-network/keep-passkey/pkg/ecc"
)

// Credential is a registered passkey: the credential ID known to the
// authenticator and the public key registered on chain.
type Credential struct {
	ID        []byte
	PublicKey ecc.PublicKey
}

// NewCredential builds a credential from a hex-encoded credential ID and a
// textual public key.
func NewCredential(credentialID string, publicKey string) (Credential, error) {
	if credentialID == "" || publicKey == "" {
		return Credential{}, ErrMissingCredentialMetadata
	}

	id, err := hex.DecodeString(credentialID)
	if err != nil {
		return Credential{}, fmt.Errorf("invalid credential ID: [%v]", err)
	}

	key, err := ecc.StringToPublicKey(publicKey)
	if err != nil {
		return Credential{}, fmt.Errorf("invalid credential public key: [%w]", err)
	}

	credential := Credential{ID: id, PublicKey: key}
	if err := credential.validate(); err != nil {
		return Credential{}, err
	}

	return credential, nil
}

func (c Credential) validate() error {
	if len(c.ID) == 0 {
		return fmt.Errorf("%w: empty credential ID", ErrMissingCredentialMetadata)
	}
	if len(c.PublicKey.Data) == 0 {
		return fmt.Errorf("%w: empty public key", ErrMissingCredentialMetadata)
	}
	if c.PublicKey.Type != ecc.R1 && c.PublicKey.Type != ecc.WA {
		return fmt.Errorf(
			"%w: expected a P-256 key, has [%v]",
			ErrUnsupportedKey,
			c.PublicKey.Type,
		)
	}

	return nil
}

// AssertionRequest is what an authenticator needs to run an assertion
// ceremony.
type AssertionRequest struct {
	// Challenge is the signing digest.
	Challenge      []byte
	CredentialID   []byte
	RelyingPartyID string
	// Timeout is a hint for the authenticator; the signer does not enforce
	// it.
	Timeout time.Duration
}

// Assertion is the result of an assertion ceremony.
type Assertion struct {
	CredentialID      []byte
	AuthenticatorData []byte
	ClientDataJSON    []byte
	// Signature is the DER encoded ECDSA signature over
	// SHA-256(AuthenticatorData ‖ SHA-256(ClientDataJSON)).
	Signature []byte
}

// Authenticator runs assertion ceremonies with a platform authenticator.
// A cancelled or unavailable ceremony is reported as an error.
type Authenticator interface {
	GetAssertion(ctx context.Context, request *AssertionRequest) (*Assertion, error)
}

// Signer signs EOSIO transactions with a passkey. It runs at most one
// ceremony at a time since ceremonies share the authenticator.
type Signer struct {
	authenticator Authenticator
	config        *Config

	ceremony chan struct{}
}

// NewSigner creates a new Signer using the given authenticator.
func NewSigner(authenticator Authenticator, config *Config) *Signer {
	if config == nil {
		config = &Config{}
	}

	return &Signer{
		authenticator: authenticator,
		config:        config,
		ceremony:      make(chan struct{}, 1),
	}
}

// Sign authorizes a serialized transaction on the given chain with the
// credential. A fresh digest is built for every call and handed to the
// authenticator as the challenge. The resulting assertion is turned into a
// `SIG_WA_` signature recoverable to the credential key.
//
// A cancelled context or a failed ceremony returns
// ErrUserCancelledOrUnavailable. Nothing is retried; callers restart the
// whole flow.
func (s *Signer) Sign(
	ctx context.Context,
	chainID eosio.ChainID,
	serializedTransaction []byte,
	credential Credential,
) (ecc.Signature, error) {
	if err := credential.validate(); err != nil {
		return ecc.Signature{}, err
	}

	select {
	case s.ceremony <- struct{}{}:
		defer func() { <-s.ceremony }()
	case <-ctx.Done():
		return ecc.Signature{}, fmt.Errorf(
			"%w: [%v]",
			ErrUserCancelledOrUnavailable,
			ctx.Err(),
		)
	}

	digest := eosio.BuildDigest(chainID, serializedTransaction)

	logger.Debugf(
		"requesting assertion for digest [%s] with credential [%x]",
		digest.Hex(),
		credential.ID,
	)

	assertion, err := s.authenticator.GetAssertion(ctx, &AssertionRequest{
		Challenge:      digest[:],
		CredentialID:   credential.ID,
		RelyingPartyID: s.config.RelyingPartyID,
		Timeout:        s.config.GetCeremonyTimeout(),
	})
	if err != nil {
		return ecc.Signature{}, fmt.Errorf(
			"%w: [%v]",
			ErrUserCancelledOrUnavailable,
			err,
		)
	}
	if assertion == nil {
		return ecc.Signature{}, fmt.Errorf(
			"%w: authenticator returned no assertion",
			ErrUserCancelledOrUnavailable,
		)
	}

	return SignatureFromAssertion(digest, assertion, credential)
}

// SignatureFromAssertion builds a WA signature from an assertion made over
// the digest with the credential.
func SignatureFromAssertion(
	digest eosio.Digest,
	assertion *Assertion,
	credential Credential,
) (ecc.Signature, error) {
	if len(assertion.CredentialID) > 0 &&
		!bytes.Equal(assertion.CredentialID, credential.ID) {
		return ecc.Signature{}, fmt.Errorf(
			"%w: assertion made with credential [%x], expected [%x]",
			ErrRecoveryFailed,
			assertion.CredentialID,
			credential.ID,
		)
	}

	challenge, err := (&ecc.WebAuthnSignature{
		ClientDataJSON: assertion.ClientDataJSON,
	}).Challenge()
	if err != nil {
		return ecc.Signature{}, err
	}
	if !bytes.Equal(challenge, digest[:]) {
		return ecc.Signature{}, fmt.Errorf(
			"%w: challenge [%x], digest [%s]",
			ErrChallengeMismatch,
			challenge,
			digest.Hex(),
		)
	}

	parsedSignature, err := ParseDERSignature(assertion.Signature)
	if err != nil {
		return ecc.Signature{}, err
	}

	recoveryID, err := resolveRecoveryID(
		parsedSignature,
		EffectiveHash(assertion.AuthenticatorData, assertion.ClientDataJSON),
		credential.PublicKey,
	)
	if err != nil {
		return ecc.Signature{}, err
	}

	signature, err := Assemble(
		recoveryID,
		parsedSignature.R,
		parsedSignature.S,
		assertion.AuthenticatorData,
		assertion.ClientDataJSON,
	)
	if err != nil {
		return ecc.Signature{}, err
	}

	if credential.PublicKey.Type == ecc.WA {
		recoveredKey, err := signature.RecoverPublicKey(digest[:])
		if err != nil {
			return ecc.Signature{}, err
		}

		// The relying party ID and user presence are part of a WA key, so
		// an assertion made for another origin or without the registered
		// user verification recovers to a different key.
		if !recoveredKey.Equal(credential.PublicKey) {
			return ecc.Signature{}, fmt.Errorf(
				"%w: signature recovers to [%s], expected [%s]",
				ErrRecoveryFailed,
				recoveredKey,
				credential.PublicKey,
			)
		}
	}

	return signature, nil
}
