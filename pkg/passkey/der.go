package passkey

import (
	"fmt"

	"github.com/keep-network/keep-passkey/pkg/utils/byteutils"
	"github.com/keep-network/keep-passkey/pkg/utils/serialbuffer"
)

const (
	derSequenceTag = 0x30
	derIntegerTag  = 0x02

	scalarLength = 32
)

// ParsedSignature holds ECDSA signature values as 32-byte big-endian
// integers.
type ParsedSignature struct {
	R [32]byte
	S [32]byte
}

// ParseDERSignature parses an ASN.1 DER encoded ECDSA signature:
// `0x30 <length> 0x02 <r length> <r> 0x02 <s length> <s>`.
//
// Each malformation has its own error. Truncated input fails with
// serialbuffer.ErrOutOfData.
func ParseDERSignature(der []byte) (*ParsedSignature, error) {
	buffer := serialbuffer.NewFromBytes(der)

	prefix, err := buffer.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read DER prefix: [%w]", err)
	}
	if prefix != derSequenceTag {
		return nil, fmt.Errorf("%w: has [%#x]", ErrMissingDERPrefix, prefix)
	}

	length, err := buffer.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read DER length: [%w]", err)
	}
	if int(length) != len(der)-2 {
		return nil, fmt.Errorf(
			"%w: declared [%d], has [%d]",
			ErrBadLength,
			length,
			len(der)-2,
		)
	}

	r, err := readInteger(buffer, ErrBadRMarker)
	if err != nil {
		return nil, err
	}

	s, err := readInteger(buffer, ErrBadSMarker)
	if err != nil {
		return nil, err
	}

	if buffer.Remaining() != 0 {
		return nil, fmt.Errorf(
			"%w: [%d] bytes after s value",
			ErrBadLength,
			buffer.Remaining(),
		)
	}

	signature := &ParsedSignature{}

	fixedR, err := byteutils.ToFixedWidth(r, scalarLength)
	if err != nil {
		return nil, fmt.Errorf("invalid r value: [%w]", err)
	}
	copy(signature.R[:], fixedR)

	fixedS, err := byteutils.ToFixedWidth(s, scalarLength)
	if err != nil {
		return nil, fmt.Errorf("invalid s value: [%w]", err)
	}
	copy(signature.S[:], fixedS)

	return signature, nil
}

func readInteger(buffer *serialbuffer.Buffer, markerError error) ([]byte, error) {
	marker, err := buffer.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read integer marker: [%w]", err)
	}
	if marker != derIntegerTag {
		return nil, fmt.Errorf("%w: has [%#x]", markerError, marker)
	}

	length, err := buffer.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read integer length: [%w]", err)
	}

	value, err := buffer.GetArray(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read integer: [%w]", err)
	}

	return value, nil
}

// DER encodes the signature back to its minimal ASN.1 DER form.
func (ps *ParsedSignature) DER() []byte {
	r := byteutils.FromFixedWidth(ps.R[:])
	s := byteutils.FromFixedWidth(ps.S[:])

	buffer := serialbuffer.New()
	buffer.Push(derSequenceTag, byte(4+len(r)+len(s)))
	buffer.Push(derIntegerTag, byte(len(r)))
	buffer.PushArray(r)
	buffer.Push(derIntegerTag, byte(len(s)))
	buffer.PushArray(s)

	return buffer.Bytes()
}
