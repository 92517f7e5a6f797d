// Package ecdsa implements ECDSA public key recovery and recovery ID
// resolution for short Weierstrass curves, following the standards described
// in [SEC 1].
//
//   [SEC 1]: Standards for Efficient Cryptography, SEC 1: Elliptic Curve
//     Cryptography, Certicom Research, https://www.secg.org/sec1-v2.pdf
package ecdsa

import (
	cecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/secp256k1"
	"github.com/ipfs/go-log"
)

var logger = log.Logger("keep-ecdsa")

// ErrRecoveryFailed is returned when the known public key does not match
// exactly one of the candidate keys recovered from a signature.
var ErrRecoveryFailed = errors.New("failed to find recovery ID")

// PublicKey holds a public key in a form of X and Y coordinates of a point on
// an elliptic curve.
type PublicKey cecdsa.PublicKey

// ToECDSA returns the key as a standard library ECDSA public key.
func (pk *PublicKey) ToECDSA() *cecdsa.PublicKey {
	return (*cecdsa.PublicKey)(pk)
}

// PointRecoverer reconstructs the candidate signer keys of an ECDSA
// signature and compares them with a known key.
type PointRecoverer interface {
	// RecoverPoint returns the public key identified by the recovery ID for
	// the signature's `r` and `s` values over the given message hash.
	RecoverPoint(sigR, sigS *big.Int, hash []byte, recoveryID int) (*PublicKey, error)
	// Equal reports whether both keys are the same point.
	Equal(a, b *PublicKey) bool
}

// weierstrassRecoverer recovers public keys on a short-form Weierstrass curve
// `y² = x³ + a·x + b`. Both curves we support have the co-factor equal `1`.
type weierstrassRecoverer struct {
	curve elliptic.Curve
	a     *big.Int
}

// NewP256Recoverer returns a PointRecoverer for the NIST P-256 curve used by
// platform authenticators (`a = -3`).
func NewP256Recoverer() PointRecoverer {
	return &weierstrassRecoverer{
		curve: elliptic.P256(),
		a:     big.NewInt(-3),
	}
}

// NewS256Recoverer returns a PointRecoverer for the secp256k1 curve (`a = 0`).
// It utilizes go-ethereum's secp256k1 elliptic curve implementation.
func NewS256Recoverer() PointRecoverer {
	return &weierstrassRecoverer{
		curve: secp256k1.S256(),
		a:     big.NewInt(0),
	}
}

// RecoverPoint recovers a public key from the signature's R and S values for
// the given message hash. Based on the algorithm described in section 4.1.6
// of [SEC 1].
//
// It handles the inner loop of the algorithm from point 1.6 based on the
// `recoveryID` parameter. It decides to select `R` or `-R` value based on
// oddness of the y coordinate. This is consistent with solution implemented
// in btcd.
func (wr *weierstrassRecoverer) RecoverPoint(
	sigR, sigS *big.Int, // signature's `r` and `s` values
	hash []byte, // hash of the signed message
	recoveryID int,
) (*PublicKey, error) {
	params := wr.curve.Params()

	if recoveryID < 0 || recoveryID > 3 {
		return nil, fmt.Errorf("invalid recovery ID [%d]", recoveryID)
	}

	if sigR.Sign() <= 0 || sigR.Cmp(params.N) >= 0 {
		return nil, fmt.Errorf("signature r is out of range")
	}
	if sigS.Sign() <= 0 || sigS.Cmp(params.N) >= 0 {
		return nil, fmt.Errorf("signature s is out of range")
	}

	j := recoveryID / 2

	// 1.1 Calculate x coordinate of the R point.
	// x = r + (j * n)
	Rx := new(big.Int).Add(
		sigR,
		new(big.Int).Mul(
			big.NewInt(int64(j)),
			params.N,
		),
	)

	if Rx.Cmp(params.P) != -1 {
		return nil, fmt.Errorf("calculated Rx is larger than curve P")
	}

	// 1.3 Estimate y coordinate of the R point. For each x coordinate there
	// are two possible points on the elliptic curve - `R` and `-R`.
	Ry := wr.calculateY(Rx)
	if Ry == nil {
		return nil, fmt.Errorf("failed to calculate y")
	}

	// We compare oddness of the recovery ID with oddness of the y coordinate
	// to match btcec solution.
	oddRecoveryID := recoveryID%2 == 1
	if oddRecoveryID != isOdd(Ry) {
		Ry = new(big.Int).Mod(
			new(big.Int).Neg(Ry),
			params.P,
		)
	}

	// Validate found point.
	if !wr.curve.IsOnCurve(Rx, Ry) {
		return nil, fmt.Errorf("point is not on curve")
	}

	// 1.5 Calculate `e` from message using the same algorithm as ecdsa
	// signature calculation.
	e := hashToInt(wr.curve, hash)

	// 1.6.1 Calculate a candidate public key.
	// Q = (r^-1) * ( (s * R) - (e * G))
	rInverse := new(big.Int).ModInverse(sigR, params.N) // (r^-1)

	sRx, sRy := wr.curve.ScalarMult(Rx, Ry, sigS.Bytes()) // (s * R)

	// - (e * G)
	minusE := new(big.Int).Mod(
		new(big.Int).Neg(e),
		params.N,
	)
	minusEGx, minusEGy := wr.curve.ScalarBaseMult(minusE.Bytes())

	// (s * R) - (e * G)
	addedX, addedY := wr.curve.Add(
		sRx, sRy,
		minusEGx, minusEGy,
	)

	Qx, Qy := wr.curve.ScalarMult( // (r^-1) * ( (s * R) - (e * G))
		addedX, addedY,
		rInverse.Bytes(),
	)

	// 1.6.2 is left to the caller comparing the candidate with a known key.
	// We only reject the point at infinity here.
	if Qx.Sign() == 0 && Qy.Sign() == 0 {
		return nil, fmt.Errorf("recovered point at infinity")
	}

	return &PublicKey{Curve: wr.curve, X: Qx, Y: Qy}, nil
}

// Equal compares coordinates of two public keys.
func (wr *weierstrassRecoverer) Equal(a, b *PublicKey) bool {
	if a == nil || b == nil || a.X == nil || b.X == nil {
		return false
	}

	return a.X.Cmp(b.X) == 0 && a.Y.Cmp(b.Y) == 0
}

// calculateY calculates `y` coordinate for `x` curve point coordinate. It
// expects the elliptic curve to be a short-form Weierstrass curve defined by
// the equation `y² = x³ + a·x + b`. `a` and `b` are constants of the curve
// equation, specific for the particular curve.
func (wr *weierstrassRecoverer) calculateY(x *big.Int) *big.Int {
	params := wr.curve.Params()

	// x³
	x3 := new(big.Int).Exp(x, big.NewInt(3), params.P)

	// a·x
	ax := new(big.Int).Mul(wr.a, x)

	// x³ + a·x + b
	y2 := new(big.Int).Add(x3, ax)
	y2.Add(y2, params.B)
	y2.Mod(y2, params.P)

	// solve y² = x³ + a·x + b
	return new(big.Int).ModSqrt(y2, params.P)
}

// FindRecoveryID finds recovery ID for the signature. Recovery ID is a value
// used in bitcoin, ethereum and EOSIO signatures to determine public key
// which is related to the signer.
//
// Signature in a form `(r, s)` contains `r` value which is a `x` coordinate of
// the point `R`. We use public key recovery to get a missing `y` coordinate
// for the `R` point. The curve has up to 4 possible points for the given `x`
// coordinate. Exactly one of them must reconstruct the known public key,
// otherwise ErrRecoveryFailed is returned. There is no fallback to an
// arbitrary candidate.
func FindRecoveryID(
	recoverer PointRecoverer,
	sigR, sigS *big.Int,
	hash []byte,
	publicKey *PublicKey,
) (int, error) {
	// `h` is a co-factor of the elliptic curve, for the curves we support the
	// co-factor is equal `1`
	h := 1

	matches := make([]int, 0, 1)

	// We iterate over `2*(h+1) = 4` possible recovery ID values. For given
	// signature there are 4 public keys against which the signature is valid.
	for i := 0; i < 2*(h+1); i++ {
		candidate, err := recoverer.RecoverPoint(sigR, sigS, hash, i)
		if err != nil {
			logger.Debugf(
				"could not recover public key for recovery ID [%d]: [%v]",
				i,
				err,
			)
			continue
		}

		if recoverer.Equal(candidate, publicKey) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return -1, fmt.Errorf("%w: no candidate matches the public key", ErrRecoveryFailed)
	default:
		return -1, fmt.Errorf(
			"%w: ambiguous recovery IDs %v",
			ErrRecoveryFailed,
			matches,
		)
	}
}

// This code is borrowed from Golang's crypto/ecdsa/ecdsa.go.
func hashToInt(c elliptic.Curve, hash []byte) *big.Int {
	orderBits := c.Params().N.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

func isOdd(a *big.Int) bool {
	return a.Bit(0) == 1
}
