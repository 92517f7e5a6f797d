package byteutils

import (
	"bytes"
	"errors"
	"testing"
)

var value32 = []byte{89, 178, 1, 195, 69, 50, 81, 72, 28, 86, 134, 50, 240, 65, 54, 243,
	62, 118, 195, 210, 184, 57, 206, 33, 48, 3, 81, 73, 125, 189, 39, 147,
}

func TestToFixedWidth(t *testing.T) {
	tests := map[string]struct {
		value          []byte
		width          int
		expectedResult []byte
		expectedError  error
	}{
		"valid case of 32-bytes value": {
			value:          value32,
			width:          32,
			expectedResult: value32,
		},
		"valid case of 31-bytes value": {
			value:          value32[:31],
			width:          32,
			expectedResult: append([]byte{0}, value32[:31]...),
		},
		"valid case of empty value": {
			value:          []byte{},
			width:          4,
			expectedResult: []byte{0, 0, 0, 0},
		},
		"valid case of 33-bytes value with DER sign byte": {
			value:          append([]byte{0}, value32...),
			width:          32,
			expectedResult: value32,
		},
		"valid case of 35-bytes value with leading zeros": {
			value:          append([]byte{0, 0, 0}, value32...),
			width:          32,
			expectedResult: value32,
		},
		"invalid case of 33-bytes value": {
			value:         append([]byte{16}, value32...),
			width:         32,
			expectedError: ErrSignatureTooLarge,
		},
		"invalid case of non-zero byte after zero": {
			value:         append([]byte{0, 1}, value32...),
			width:         32,
			expectedError: ErrSignatureTooLarge,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			actualResult, err := ToFixedWidth(test.value, test.width)

			if !errors.Is(err, test.expectedError) {
				t.Fatalf(
					"unexpected error\nexpected: [%+v]\nactual:   [%+v]",
					test.expectedError,
					err,
				)
			}

			if !bytes.Equal(test.expectedResult, actualResult) {
				t.Errorf(
					"unexpected result\nexpected: [%+v]\nactual:   [%+v]",
					test.expectedResult,
					actualResult,
				)
			}
		})
	}
}

func TestToFixedWidthDoesNotAlias(t *testing.T) {
	value := append([]byte{}, value32...)

	result, err := ToFixedWidth(value, 32)
	if err != nil {
		t.Fatal(err)
	}

	result[0] = 0
	if value[0] != value32[0] {
		t.Errorf("result aliases the input slice")
	}
}

func TestFromFixedWidth(t *testing.T) {
	tests := map[string]struct {
		value          []byte
		expectedResult []byte
	}{
		"high bit set": {
			value:          []byte{0, 0, 0x80, 0x01},
			expectedResult: []byte{0, 0x80, 0x01},
		},
		"high bit clear": {
			value:          []byte{0, 0, 0x7f, 0x01},
			expectedResult: []byte{0x7f, 0x01},
		},
		"zero": {
			value:          []byte{0, 0, 0, 0},
			expectedResult: []byte{0},
		},
		"full width": {
			value:          value32,
			expectedResult: value32,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			actualResult := FromFixedWidth(test.value)

			if !bytes.Equal(test.expectedResult, actualResult) {
				t.Errorf(
					"unexpected result\nexpected: [%x]\nactual:   [%x]",
					test.expectedResult,
					actualResult,
				)
			}
		})
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	for length := 0; length <= 32; length++ {
		value := make([]byte, 32)
		copy(value[32-length:], value32[:length])

		restored, err := ToFixedWidth(FromFixedWidth(value), 32)
		if err != nil {
			t.Fatalf("length [%d]: [%v]", length, err)
		}

		if !bytes.Equal(value, restored) {
			t.Errorf(
				"length [%d]: unexpected round trip result\nexpected: [%x]\nactual:   [%x]",
				length,
				value,
				restored,
			)
		}
	}
}

func TestBytesTo32Byte(t *testing.T) {
	result, err := BytesTo32Byte(value32[:30])
	if err != nil {
		t.Fatal(err)
	}

	expected := append([]byte{0, 0}, value32[:30]...)
	if !bytes.Equal(expected, result[:]) {
		t.Errorf(
			"unexpected result\nexpected: [%x]\nactual:   [%x]",
			expected,
			result,
		)
	}
}
