package ecc

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/keep-network/keep-passkey/pkg/utils/serialbuffer"
)

// ErrChallengeMismatch is returned when the challenge embedded in the client
// data of a WA signature is not the expected digest.
var ErrChallengeMismatch = errors.New("client data challenge does not match digest")

const (
	// authenticatorDataMinLength covers the relying party ID hash, the flags
	// byte and the signature counter.
	authenticatorDataMinLength = 37

	flagUserPresent  = 0x01
	flagUserVerified = 0x04
)

// WebAuthnSignature is the decoded payload of a WA signature.
type WebAuthnSignature struct {
	RecoveryID        int
	R                 [32]byte
	S                 [32]byte
	AuthenticatorData []byte
	ClientDataJSON    []byte
}

// WebAuthn decodes the payload of a WA signature.
func (s Signature) WebAuthn() (*WebAuthnSignature, error) {
	if s.Type != WA {
		return nil, fmt.Errorf("%w: not a WA signature", ErrInvalidFormat)
	}

	recoveryID, err := s.RecoveryID()
	if err != nil {
		return nil, err
	}

	buffer := serialbuffer.NewFromBytes(s.Data[1:])

	result := &WebAuthnSignature{RecoveryID: recoveryID}

	r, err := buffer.GetArray(scalarLength)
	if err != nil {
		return nil, fmt.Errorf("%w: r: [%v]", ErrInvalidFormat, err)
	}
	copy(result.R[:], r)

	sValue, err := buffer.GetArray(scalarLength)
	if err != nil {
		return nil, fmt.Errorf("%w: s: [%v]", ErrInvalidFormat, err)
	}
	copy(result.S[:], sValue)

	result.AuthenticatorData, err = buffer.GetBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: authenticator data: [%v]", ErrInvalidFormat, err)
	}

	result.ClientDataJSON, err = buffer.GetBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: client data: [%v]", ErrInvalidFormat, err)
	}

	if buffer.Remaining() != 0 {
		return nil, fmt.Errorf(
			"%w: [%d] trailing bytes in WA signature",
			ErrInvalidFormat,
			buffer.Remaining(),
		)
	}

	return result, nil
}

// EffectiveHash returns the hash the authenticator actually signed:
// SHA-256(authenticatorData ‖ SHA-256(clientDataJSON)).
func (ws *WebAuthnSignature) EffectiveHash() [32]byte {
	clientDataHash := sha256.Sum256(ws.ClientDataJSON)

	buffer := serialbuffer.New()
	buffer.PushArray(ws.AuthenticatorData)
	buffer.PushArray(clientDataHash[:])

	return sha256.Sum256(buffer.Bytes())
}

// ClientData decodes the client data JSON collected by the browser.
func (ws *WebAuthnSignature) ClientData() (*protocol.CollectedClientData, error) {
	clientData := &protocol.CollectedClientData{}
	if err := json.Unmarshal(ws.ClientDataJSON, clientData); err != nil {
		return nil, fmt.Errorf("%w: client data: [%v]", ErrInvalidFormat, err)
	}

	return clientData, nil
}

// Challenge returns the challenge embedded in the client data. For
// signatures produced over a transaction this is the signing digest.
func (ws *WebAuthnSignature) Challenge() ([]byte, error) {
	clientData, err := ws.ClientData()
	if err != nil {
		return nil, err
	}

	challenge, err := base64.RawURLEncoding.DecodeString(
		strings.TrimRight(clientData.Challenge, "="),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: challenge: [%v]", ErrInvalidFormat, err)
	}

	return challenge, nil
}

// RecoverPublicKey recovers the WA key which produced the signature. The
// challenge in the client data must be the digest. The relying party ID is
// the host of the client data origin and must match the relying party ID
// hash in the authenticator data; the user presence of the key is taken from
// the authenticator flags.
func (ws *WebAuthnSignature) RecoverPublicKey(digest []byte) (PublicKey, error) {
	challenge, err := ws.Challenge()
	if err != nil {
		return PublicKey{}, err
	}
	if !bytes.Equal(challenge, digest) {
		return PublicKey{}, ErrChallengeMismatch
	}

	relyingPartyID, err := ws.relyingPartyID()
	if err != nil {
		return PublicKey{}, err
	}

	effectiveHash := ws.EffectiveHash()

	point, err := recoverP256(ws.R[:], ws.S[:], effectiveHash[:], ws.RecoveryID)
	if err != nil {
		return PublicKey{}, err
	}

	return NewWebAuthnPublicKey(point, ws.userPresence(), relyingPartyID)
}

func (ws *WebAuthnSignature) relyingPartyID() (string, error) {
	if len(ws.AuthenticatorData) < authenticatorDataMinLength {
		return "", fmt.Errorf(
			"%w: authenticator data too short [%d]",
			ErrInvalidFormat,
			len(ws.AuthenticatorData),
		)
	}

	clientData, err := ws.ClientData()
	if err != nil {
		return "", err
	}

	origin, err := url.Parse(clientData.Origin)
	if err != nil || origin.Scheme != "https" || origin.Hostname() == "" {
		return "", fmt.Errorf(
			"%w: client data origin [%s] is not an https origin",
			ErrInvalidFormat,
			clientData.Origin,
		)
	}

	relyingPartyID := origin.Hostname()
	relyingPartyIDHash := sha256.Sum256([]byte(relyingPartyID))
	if !bytes.Equal(relyingPartyIDHash[:], ws.AuthenticatorData[:32]) {
		return "", fmt.Errorf(
			"%w: relying party ID hash does not match origin [%s]",
			ErrInvalidFormat,
			clientData.Origin,
		)
	}

	return relyingPartyID, nil
}

func (ws *WebAuthnSignature) userPresence() UserPresence {
	flags := ws.AuthenticatorData[32]

	switch {
	case flags&flagUserVerified != 0:
		return UserPresenceVerified
	case flags&flagUserPresent != 0:
		return UserPresencePresent
	default:
		return UserPresenceNone
	}
}
