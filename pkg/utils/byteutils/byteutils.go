// Package byteutils provides helper utilities for working with bytes
package byteutils

import (
	"errors"
	"fmt"
)

// ErrSignatureTooLarge is returned when a big-endian integer cannot be
// represented in the requested number of bytes.
var ErrSignatureTooLarge = errors.New("signature has an r or s that is too big")

// ToFixedWidth converts a big-endian unsigned integer of arbitrary length to
// exactly width bytes. Shorter values are left padded with zeros. Longer
// values are accepted only if all the extra leading bytes are zero, which is
// the case for DER integers carrying a sign byte.
func ToFixedWidth(bytes []byte, width int) ([]byte, error) {
	if len(bytes) <= width {
		result := make([]byte, width)
		copy(result[width-len(bytes):], bytes)
		return result, nil
	}

	excess := len(bytes) - width
	for i := 0; i < excess; i++ {
		if bytes[i] != 0 {
			return nil, fmt.Errorf(
				"%w: cannot fit %v byte value into %v bytes",
				ErrSignatureTooLarge,
				len(bytes),
				width,
			)
		}
	}

	result := make([]byte, width)
	copy(result, bytes[excess:])

	return result, nil
}

// FromFixedWidth converts a fixed-width big-endian unsigned integer to its
// minimal DER integer content: leading zeros are stripped and a single zero
// byte is prepended when the most significant bit is set, so the value does
// not read as negative. Zero is encoded as a single zero byte.
func FromFixedWidth(bytes []byte) []byte {
	start := 0
	for start < len(bytes) && bytes[start] == 0 {
		start++
	}

	if start == len(bytes) {
		return []byte{0}
	}

	result := make([]byte, 0, len(bytes)-start+1)
	if bytes[start]&0x80 != 0 {
		result = append(result, 0)
	}

	return append(result, bytes[start:]...)
}

// LeftPadTo32Bytes appends zeros to bytes slice to make it exactly 32 bytes long.
func LeftPadTo32Bytes(bytes []byte) ([]byte, error) {
	return ToFixedWidth(bytes, 32)
}

// BytesTo32Byte converts bytes slice to a 32-byte array. It left pads the array
// with zeros in case of a slice shorter than 32-byte.
func BytesTo32Byte(bytes []byte) ([32]byte, error) {
	var result [32]byte

	paddedBytes, err := LeftPadTo32Bytes(bytes)
	if err != nil {
		return result, err
	}

	copy(result[:], paddedBytes[:32])

	return result, nil
}
