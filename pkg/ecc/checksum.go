package ecc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

const checksumLength = 4

// ripemd160Checksum returns the first 4 bytes of RIPEMD-160(data ‖ suffix).
// Typed values use the key type tag as the suffix, legacy values use none.
func ripemd160Checksum(data []byte, suffix string) []byte {
	hasher := ripemd160.New()
	hasher.Write(data)
	hasher.Write([]byte(suffix))

	return hasher.Sum(nil)[:checksumLength]
}

func encodeWithChecksum(data []byte, suffix string) string {
	buf := make([]byte, 0, len(data)+checksumLength)
	buf = append(buf, data...)
	buf = append(buf, ripemd160Checksum(data, suffix)...)

	return base58.Encode(buf)
}

func decodeWithChecksum(text string, suffix string) ([]byte, error) {
	decoded := base58.Decode(text)
	if len(decoded) <= checksumLength {
		return nil, fmt.Errorf("%w: payload [%s] is not valid base58", ErrInvalidFormat, text)
	}

	data := decoded[:len(decoded)-checksumLength]
	checksum := decoded[len(decoded)-checksumLength:]

	if !bytes.Equal(checksum, ripemd160Checksum(data, suffix)) {
		return nil, ErrChecksumMismatch
	}

	return data, nil
}

// splitTypedString splits `<prefix><type>_<payload>` into its key type and
// payload.
func splitTypedString(text string, prefix string) (KeyType, string, error) {
	if !strings.HasPrefix(text, prefix) {
		return 0, "", fmt.Errorf("%w: expected [%s] prefix", ErrInvalidFormat, prefix)
	}

	parts := strings.SplitN(strings.TrimPrefix(text, prefix), "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("%w: missing key type", ErrInvalidFormat)
	}

	keyType, err := keyTypeFromString(parts[0])
	if err != nil {
		return 0, "", err
	}

	return keyType, parts[1], nil
}
