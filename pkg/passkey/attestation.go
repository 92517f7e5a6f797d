package passkey

import (
	"bytes"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"math/big"
	"net/url"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncbor"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"

	"github.com/keep-network/keep-passkey/pkg/ecc"
)

// Registration is a newly created passkey credential.
type Registration struct {
	CredentialID []byte
	PublicKey    ecc.PublicKey
}

// Credential returns the credential used to sign with the registered key.
func (r *Registration) Credential() Credential {
	return Credential{ID: r.CredentialID, PublicKey: r.PublicKey}
}

// ParseRegistrationResponse decodes the browser response of a registration
// ceremony, as returned by `navigator.credentials.create`. The relying party
// ID of the key is the host of the client data origin.
func ParseRegistrationResponse(response []byte) (*Registration, error) {
	parsed, err := protocol.ParseCredentialCreationResponseBytes(response)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: failed to parse registration response: [%v]",
			ecc.ErrInvalidFormat,
			err,
		)
	}

	origin, err := url.Parse(parsed.Response.CollectedClientData.Origin)
	if err != nil || origin.Hostname() == "" {
		return nil, fmt.Errorf(
			"%w: invalid client data origin [%s]",
			ecc.ErrInvalidFormat,
			parsed.Response.CollectedClientData.Origin,
		)
	}

	return registrationFromAuthenticatorData(
		origin.Hostname(),
		parsed.Response.AttestationObject.AuthData,
	)
}

// DecodeAttestationObject decodes the CBOR attestation object of a
// registration ceremony into the WA key of the created credential.
func DecodeAttestationObject(
	relyingPartyID string,
	attestationObject []byte,
) (*Registration, error) {
	var object protocol.AttestationObject
	if err := webauthncbor.Unmarshal(attestationObject, &object); err != nil {
		return nil, fmt.Errorf(
			"%w: failed to decode attestation object: [%v]",
			ecc.ErrInvalidFormat,
			err,
		)
	}

	if err := object.AuthData.Unmarshal(object.RawAuthData); err != nil {
		return nil, fmt.Errorf(
			"%w: failed to decode authenticator data: [%v]",
			ecc.ErrInvalidFormat,
			err,
		)
	}

	return registrationFromAuthenticatorData(relyingPartyID, object.AuthData)
}

func registrationFromAuthenticatorData(
	relyingPartyID string,
	authenticatorData protocol.AuthenticatorData,
) (*Registration, error) {
	relyingPartyIDHash := sha256.Sum256([]byte(relyingPartyID))
	if !bytes.Equal(authenticatorData.RPIDHash, relyingPartyIDHash[:]) {
		return nil, fmt.Errorf(
			"%w: authenticator data is not bound to relying party [%s]",
			ecc.ErrInvalidFormat,
			relyingPartyID,
		)
	}

	if !authenticatorData.Flags.HasAttestedCredentialData() {
		return nil, fmt.Errorf(
			"%w: authenticator data carries no credential",
			ecc.ErrInvalidFormat,
		)
	}

	point, err := compressCOSEKey(authenticatorData.AttData.CredentialPublicKey)
	if err != nil {
		return nil, err
	}

	presence := ecc.UserPresenceNone
	switch {
	case authenticatorData.Flags.UserVerified():
		presence = ecc.UserPresenceVerified
	case authenticatorData.Flags.UserPresent():
		presence = ecc.UserPresencePresent
	}

	publicKey, err := ecc.NewWebAuthnPublicKey(point, presence, relyingPartyID)
	if err != nil {
		return nil, err
	}

	logger.Debugf(
		"decoded key [%s] of credential [%x]",
		publicKey,
		authenticatorData.AttData.CredentialID,
	)

	return &Registration{
		CredentialID: authenticatorData.AttData.CredentialID,
		PublicKey:    publicKey,
	}, nil
}

// compressCOSEKey compresses an ES256 COSE key to a 33-byte P-256 point.
func compressCOSEKey(coseKey []byte) ([]byte, error) {
	parsed, err := webauthncose.ParsePublicKey(coseKey)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: failed to parse credential key: [%v]",
			ErrUnsupportedKey,
			err,
		)
	}

	var key webauthncose.EC2PublicKeyData
	switch typed := parsed.(type) {
	case webauthncose.EC2PublicKeyData:
		key = typed
	case *webauthncose.EC2PublicKeyData:
		key = *typed
	default:
		return nil, fmt.Errorf("%w: not an EC2 key [%T]", ErrUnsupportedKey, parsed)
	}

	if webauthncose.COSEAlgorithmIdentifier(key.Algorithm) != webauthncose.AlgES256 ||
		webauthncose.COSEEllipticCurve(key.Curve) != webauthncose.P256 {
		return nil, fmt.Errorf(
			"%w: algorithm [%d] curve [%d]",
			ErrUnsupportedKey,
			key.Algorithm,
			key.Curve,
		)
	}

	curve := elliptic.P256()
	x := new(big.Int).SetBytes(key.XCoord)
	y := new(big.Int).SetBytes(key.YCoord)
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("%w: point is not on P-256", ErrUnsupportedKey)
	}

	return elliptic.MarshalCompressed(curve, x, y), nil
}
