// Package passkey turns WebAuthn assertions made by a platform authenticator
// into recoverable EOSIO `SIG_WA_` signatures.
//
// The authenticator never signs the transaction digest directly. The digest
// is handed to it as the ceremony challenge and ends up inside the client
// data JSON; the authenticator signs
// SHA-256(authenticatorData ‖ SHA-256(clientDataJSON)). A signature is
// assembled from the DER signature it returns, the recovery ID matching the
// registered credential key and both pieces of authenticator side data, so a
// verifier can recover the key and re-derive the digest.
package passkey

import (
	"errors"
	"time"

	"github.com/ipfs/go-log"

	configtime "github.com/keep-network/keep-passkey/internal/config/time"
	"github.com/keep-network/keep-passkey/pkg/ecc"
	"github.com/keep-network/keep-passkey/pkg/ecdsa"
	"github.com/keep-network/keep-passkey/pkg/utils/byteutils"
)

var logger = log.Logger("keep-passkey")

var (
	// ErrMissingDERPrefix is returned when a DER signature does not start
	// with the sequence tag.
	ErrMissingDERPrefix = errors.New("DER signature is missing the sequence prefix")
	// ErrBadLength is returned when the declared DER sequence length does
	// not match the signature length.
	ErrBadLength = errors.New("DER signature has a bad length")
	// ErrBadRMarker is returned when the first DER element is not an
	// integer.
	ErrBadRMarker = errors.New("DER signature has a bad r marker")
	// ErrBadSMarker is returned when the second DER element is not an
	// integer.
	ErrBadSMarker = errors.New("DER signature has a bad s marker")
	// ErrSignatureTooLarge is returned when r or s does not fit in 32 bytes.
	ErrSignatureTooLarge = byteutils.ErrSignatureTooLarge
	// ErrRecoveryFailed is returned when the registered key does not match
	// exactly one recovery ID.
	ErrRecoveryFailed = ecdsa.ErrRecoveryFailed
	// ErrChallengeMismatch is returned when the client data of an assertion
	// does not embed the digest presented as the challenge.
	ErrChallengeMismatch = ecc.ErrChallengeMismatch

	// ErrUserCancelledOrUnavailable is returned when the ceremony was
	// cancelled or no authenticator could serve it.
	ErrUserCancelledOrUnavailable = errors.New("user cancelled or authenticator unavailable")
	// ErrMissingCredentialMetadata is returned when the credential ID or the
	// registered public key was not supplied.
	ErrMissingCredentialMetadata = errors.New("missing credential metadata")
	// ErrUnsupportedKey is returned for credential keys other than P-256.
	ErrUnsupportedKey = errors.New("unsupported credential key")
)

const defaultCeremonyTimeout = 60 * time.Second

// Config contains configuration of the signer.
type Config struct {
	// Relying party ID requested from the authenticator, usually the wallet
	// host name.
	RelyingPartyID string

	// Timeout passed to the authenticator for a single ceremony.
	CeremonyTimeout configtime.Duration
}

// GetCeremonyTimeout returns the ceremony timeout as `time.Duration`.
func (c *Config) GetCeremonyTimeout() time.Duration {
	timeout := c.CeremonyTimeout.ToDuration()
	if timeout == 0 {
		timeout = defaultCeremonyTimeout
	}

	return timeout
}
