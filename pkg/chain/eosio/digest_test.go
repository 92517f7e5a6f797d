package eosio

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/keep-network/keep-passkey/internal/testdata"
)

func TestBuildDigest(t *testing.T) {
	chainID, err := ParseChainID(testdata.ChainID)
	if err != nil {
		t.Fatal(err)
	}

	digest := BuildDigest(chainID, testdata.MustDecodeHex(testdata.Transaction))

	if digest.Hex() != testdata.Digest {
		t.Errorf(
			"unexpected digest\nexpected: [%s]\nactual:   [%s]",
			testdata.Digest,
			digest.Hex(),
		)
	}

	if digest.Challenge() != testdata.Challenge {
		t.Errorf(
			"unexpected challenge\nexpected: [%s]\nactual:   [%s]",
			testdata.Challenge,
			digest.Challenge(),
		)
	}
}

func TestBuildDigestIsDeterministic(t *testing.T) {
	chainID, err := ParseChainID(testdata.ChainID)
	if err != nil {
		t.Fatal(err)
	}
	transaction := testdata.MustDecodeHex(testdata.Transaction)

	first := BuildDigest(chainID, transaction)
	second := BuildDigest(chainID, transaction)

	if first != second {
		t.Fatalf(
			"unexpected digest\nexpected: [%s]\nactual:   [%s]",
			first.Hex(),
			second.Hex(),
		)
	}
}

func TestBuildDigestSingleByteChange(t *testing.T) {
	chainID, err := ParseChainID(testdata.ChainID)
	if err != nil {
		t.Fatal(err)
	}
	transaction := testdata.MustDecodeHex(testdata.Transaction)

	reference := BuildDigest(chainID, transaction)
	seen := map[Digest]string{reference: "reference"}

	for i := range chainID {
		modifiedChainID := chainID
		modifiedChainID[i] ^= 0x01

		digest := BuildDigest(modifiedChainID, transaction)
		if previous, ok := seen[digest]; ok {
			t.Fatalf("chain ID byte [%d] change collides with [%s]", i, previous)
		}
		seen[digest] = "chain ID"
	}

	for i := range transaction {
		modifiedTransaction := make([]byte, len(transaction))
		copy(modifiedTransaction, transaction)
		modifiedTransaction[i] ^= 0x80

		digest := BuildDigest(chainID, modifiedTransaction)
		if previous, ok := seen[digest]; ok {
			t.Fatalf("transaction byte [%d] change collides with [%s]", i, previous)
		}
		seen[digest] = "transaction"
	}
}

func TestBuildDigestWithContextFreeData(t *testing.T) {
	chainID, err := ParseChainID(testdata.ChainID)
	if err != nil {
		t.Fatal(err)
	}
	transaction := testdata.MustDecodeHex(testdata.Transaction)

	var tests = map[string]struct {
		contextFreeData []byte
		expectedDigest  func() Digest
	}{
		"no context-free data": {
			contextFreeData: nil,
			expectedDigest: func() Digest {
				return BuildDigest(chainID, transaction)
			},
		},
		"empty context-free data": {
			contextFreeData: []byte{},
			expectedDigest: func() Digest {
				return BuildDigest(chainID, transaction)
			},
		},
		"context-free data": {
			contextFreeData: []byte{0x01, 0x02, 0x03},
			expectedDigest: func() Digest {
				contextFreeDigest := sha256.Sum256([]byte{0x01, 0x02, 0x03})

				message := append([]byte{}, chainID[:]...)
				message = append(message, transaction...)
				message = append(message, contextFreeDigest[:]...)

				return Digest(sha256.Sum256(message))
			},
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			digest := BuildDigestWithContextFreeData(
				chainID,
				transaction,
				test.contextFreeData,
			)

			expectedDigest := test.expectedDigest()
			if digest != expectedDigest {
				t.Errorf(
					"unexpected digest\nexpected: [%s]\nactual:   [%s]",
					expectedDigest.Hex(),
					digest.Hex(),
				)
			}
		})
	}
}

func TestTransactionID(t *testing.T) {
	transaction := testdata.MustDecodeHex(testdata.Transaction)
	expected := sha256.Sum256(transaction)

	transactionID := TransactionID(transaction)
	if !bytes.Equal(transactionID[:], expected[:]) {
		t.Errorf(
			"unexpected transaction ID\nexpected: [%x]\nactual:   [%x]",
			expected,
			transactionID,
		)
	}
}

func TestParseChainID(t *testing.T) {
	var tests = map[string]struct {
		text          string
		expectedError error
	}{
		"valid chain ID": {
			text: testdata.ChainID,
		},
		"0x prefixed chain ID": {
			text: "0x" + testdata.ChainID,
		},
		"short chain ID": {
			text:          testdata.ChainID[:62],
			expectedError: ErrInvalidChainID,
		},
		"not hex": {
			text:          "zz" + testdata.ChainID[2:],
			expectedError: ErrInvalidChainID,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			chainID, err := ParseChainID(test.text)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf(
					"unexpected error\nexpected: [%v]\nactual:   [%v]",
					test.expectedError,
					err,
				)
			}

			if err == nil && chainID.String() != testdata.ChainID {
				t.Errorf(
					"unexpected chain ID\nexpected: [%s]\nactual:   [%s]",
					testdata.ChainID,
					chainID.String(),
				)
			}
		})
	}
}
