package serialbuffer

import (
	"bytes"
	"errors"
	"testing"
)

func TestPushVarUint32(t *testing.T) {
	var tests = map[string]struct {
		value         uint32
		expectedBytes []byte
	}{
		"zero": {
			value:         0,
			expectedBytes: []byte{0x00},
		},
		"single group max": {
			value:         127,
			expectedBytes: []byte{0x7f},
		},
		"two groups": {
			value:         128,
			expectedBytes: []byte{0x80, 0x01},
		},
		"authenticator data length": {
			value:         37,
			expectedBytes: []byte{0x25},
		},
		"three hundred": {
			value:         300,
			expectedBytes: []byte{0xac, 0x02},
		},
		"max uint32": {
			value:         0xffffffff,
			expectedBytes: []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			buffer := New()
			buffer.PushVarUint32(test.value)

			if !bytes.Equal(test.expectedBytes, buffer.Bytes()) {
				t.Fatalf(
					"unexpected encoding\nexpected: [%x]\nactual:   [%x]",
					test.expectedBytes,
					buffer.Bytes(),
				)
			}

			value, err := NewFromBytes(buffer.Bytes()).GetVarUint32()
			if err != nil {
				t.Fatal(err)
			}

			if value != test.value {
				t.Errorf(
					"unexpected decoded value\nexpected: [%d]\nactual:   [%d]",
					test.value,
					value,
				)
			}
		})
	}
}

func TestGetVarUint32Invalid(t *testing.T) {
	var tests = map[string]struct {
		data          []byte
		expectedError error
	}{
		"truncated": {
			data:          []byte{0x80, 0x80},
			expectedError: ErrOutOfData,
		},
		"overflowing fifth group": {
			data:          []byte{0xff, 0xff, 0xff, 0xff, 0x1f},
			expectedError: ErrInvalidVarUint,
		},
		"too many groups": {
			data:          []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
			expectedError: ErrInvalidVarUint,
		},
	}

	for testName, test := range tests {
		t.Run(testName, func(t *testing.T) {
			_, err := NewFromBytes(test.data).GetVarUint32()
			if !errors.Is(err, test.expectedError) {
				t.Errorf(
					"unexpected error\nexpected: [%v]\nactual:   [%v]",
					test.expectedError,
					err,
				)
			}
		})
	}
}

func TestPushAndRead(t *testing.T) {
	buffer := New()
	buffer.Push(0x1f)
	buffer.PushArray([]byte{1, 2, 3})
	buffer.PushBytes([]byte{4, 5})
	buffer.PushString("wallet.example.com")

	if buffer.Len() != 1+3+3+19 {
		t.Fatalf("unexpected buffer length [%d]", buffer.Len())
	}

	first, err := buffer.Get()
	if err != nil {
		t.Fatal(err)
	}
	if first != 0x1f {
		t.Errorf("unexpected first byte [%x]", first)
	}

	array, err := buffer.GetArray(3)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal([]byte{1, 2, 3}, array) {
		t.Errorf("unexpected array [%x]", array)
	}

	prefixed, err := buffer.GetBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal([]byte{4, 5}, prefixed) {
		t.Errorf("unexpected length-prefixed bytes [%x]", prefixed)
	}

	text, err := buffer.GetString()
	if err != nil {
		t.Fatal(err)
	}
	if text != "wallet.example.com" {
		t.Errorf("unexpected string [%s]", text)
	}

	if buffer.Remaining() != 0 {
		t.Errorf("expected no remaining bytes, has [%d]", buffer.Remaining())
	}

	if _, err := buffer.Get(); !errors.Is(err, ErrOutOfData) {
		t.Errorf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			ErrOutOfData,
			err,
		)
	}
}

func TestGetArrayOutOfData(t *testing.T) {
	buffer := NewFromBytes([]byte{1, 2})

	if _, err := buffer.GetArray(3); !errors.Is(err, ErrOutOfData) {
		t.Fatalf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			ErrOutOfData,
			err,
		)
	}

	// A failed read does not move the cursor.
	if buffer.Remaining() != 2 {
		t.Errorf("unexpected remaining bytes [%d]", buffer.Remaining())
	}
}

func TestGetBytesDeclaredLengthTooLong(t *testing.T) {
	buffer := NewFromBytes([]byte{0x05, 0x01, 0x02})

	if _, err := buffer.GetBytes(); !errors.Is(err, ErrOutOfData) {
		t.Errorf(
			"unexpected error\nexpected: [%v]\nactual:   [%v]",
			ErrOutOfData,
			err,
		)
	}
}

func TestBuffersDoNotAlias(t *testing.T) {
	source := []byte{1, 2, 3}
	buffer := NewFromBytes(source)
	source[0] = 9

	first, err := buffer.Get()
	if err != nil {
		t.Fatal(err)
	}
	if first != 1 {
		t.Errorf("buffer aliases its source slice")
	}

	written := buffer.Bytes()
	written[1] = 9

	second, err := buffer.Get()
	if err != nil {
		t.Fatal(err)
	}
	if second != 2 {
		t.Errorf("Bytes() aliases the buffer contents")
	}
}
