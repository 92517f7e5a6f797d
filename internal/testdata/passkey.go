// Package testdata holds a passkey signing fixture shared by package tests.
//
// The fixture was produced with a fixed P-256 credential key and a fixed
// signing nonce over the digest of Transaction on ChainID. The authenticator
// data carries the relying party ID hash of RelyingPartyID with the user
// presence and user verification flags set.
package testdata

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"runtime"
)

const assertionFixtureFile = "passkey/assertion.json"

// Passkey signing fixture.
const (
	ChainID = "73e4385a2708e6d7048834fbc1079f2fabb17b3c125b146af438971e90716c4d"

	// Transaction is a serialized eosio.token transfer.
	Transaction = "f1c5a86500000000000000000000000100a6823403ea3055000000572d3ccdcd" +
		"0100000000005cfdc300000000a8ed323221000000a8e4c1c80000000000000000" +
		"90b1ca04000000000000000400454f530000000000"

	Digest    = "d6c6df54b9b07d29cd8732fbf23019e6a47a3947d0501bd6d951d60adb0983f5"
	Challenge = "1sbfVLmwfSnNhzL78jAZ5qR6OUfQUBvW2VHWCtsJg_U"

	RelyingPartyID = "wallet.example.com"
	CredentialID   = "4f1c7a3e9b2d5c6081f3a2b4c5d6e7f8"

	// CredentialPrivateKey is the P-256 scalar of the fixture credential.
	CredentialPrivateKey = "0f6436e872c0309dd60b10ffd9ccc1764b1b8c71bd34680a474548c3243cc279"
	CredentialPoint      = "03c672622919b977c88b861e6acc5afd3bce46fe8d6a80804c37f936debeb81567"
	CredentialPublicKey  = "PUB_WA_TB1xyXXsJXTc6vcB2bSUzQvwvKd19gA9ejGt2fKE9Sae4P1oZBNh6TbzxbX5bShKhFgyo7Jn1eVFg"
	CredentialR1Key      = "PUB_R1_8Ldb2XXDrz5FQZ3hedLo9rwzLZSCizrgjYhCDzg86gc6KKHoCC"

	AuthenticatorData = "eca1ab56a47b16311220e4d86e60348b492f7cb46895290e176e70359742e41c0500000007"
	ClientDataJSON    = `{"type":"webauthn.get","challenge":"1sbfVLmwfSnNhzL78jAZ5qR6OUfQUBvW2VHWCtsJg_U","origin":"https://wallet.example.com","crossOrigin":false}`

	DERSignature = "304402207370bd46d7cfc031ce3fb64fc55f9c5e93013fd64e7b4a96f1257b6c" +
		"cd9fdfc502200f118287264ba9200e6a3e08588abdc69dd20478736f88ada2a0bb562fda5d92"
	SignatureR = "7370bd46d7cfc031ce3fb64fc55f9c5e93013fd64e7b4a96f1257b6ccd9fdfc5"
	SignatureS = "0f118287264ba9200e6a3e08588abdc69dd20478736f88ada2a0bb562fda5d92"
	RecoveryID = 0

	// Signature is the expected assembled signature.
	Signature = "SIG_WA_2yCgKmvG3y7JwmtpvDv8AgYG6kKwGyfp5zW592ZQy65xUHgt8zhBFz5BWFdMawSGdHjPmm4joDGM7HkGxDYjCBL7FpYyyLjP6PtqnDdnDGxxCWLgd971wpKUhe6YBtrJDacSGqeGf58HNERTABMmZCSFxUghzuht2k8MUDERtSxMU8CRtNoGeaxJBua1X7hCE8cEJEruzvGyUKLNHPJhNKkLvMud9ch8AD324dwsWnNaKLfkopVGvgPYTDKRVfH6Af5TJFNYCeYhySPiVNjPyEGJSmbVvCUK1Uey5q3hGAkJpVKiGnP3oQrfNecKSLryhuL59VEXpH8GHmCFDNC"

	// R1Signature is a compact R1 signature of the credential key over
	// Digest.
	R1Signature = "SIG_R1_KNUge5ZP8xyYRQeVRvuV1JT3wbWHYJhpiLW7R3zcDDre91CHk5H2TqpBcnbXc1LYrBCVq2VeE6hqwjD2LDBMubRUgo3h6h"
)

// Well known development K1 key pair.
const (
	DevPrivateKeyWIF   = "5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3"
	DevPrivateKey      = "PVT_K1_2bfGi9rYsXQSXXTvJbDAPhHLQUojjaNLomdm3cEJ1XTzMqUt3V"
	DevLegacyPublicKey = "EOS6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5GDW5CV"
	DevPublicKey       = "PUB_K1_6MRyAjQq8ud7hVNYcfnVPJqcVpscN5So8BhtHuGYqET5BoDq63"

	// DevK1Signature is a canonical K1 signature of the development key over
	// Digest.
	DevK1Signature = "SIG_K1_Ka2K36CKCc8WhgcYWEHAEMv5Xkbm4FiwXCRuKg3zLzp48Uicxv4R4A8Y5mpynXmE224yAXdT5p52JxyoLWQrd5i4smSoh2"
)

// MustDecodeHex decodes a hex fixture value.
func MustDecodeHex(value string) []byte {
	bytes, err := hex.DecodeString(value)
	if err != nil {
		panic(fmt.Sprintf("invalid hex fixture [%s]: [%v]", value, err))
	}
	return bytes
}

// LoadAssertionResponse loads the browser assertion response of the fixture
// as returned by `navigator.credentials.get`.
func LoadAssertionResponse() ([]byte, error) {
	path := makeTestFixtureFilePath(assertionFixtureFile)

	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(
			"could not open the test fixture in the expected location [%s]: [%v]",
			path,
			err,
		)
	}

	return bytes, nil
}

func makeTestFixtureFilePath(name string) string {
	_, callerFileName, _, _ := runtime.Caller(0)
	srcDirName := filepath.Dir(callerFileName)
	return filepath.Join(srcDirName, name)
}
