// Package serialbuffer provides a growable byte buffer with typed push and
// read operations. It is the serialization substrate for keys, signatures
// and signing digests.
package serialbuffer

import (
	"errors"
	"fmt"
)

// ErrOutOfData is returned when a read reaches past the end of the buffer.
var ErrOutOfData = errors.New("read past end of buffer")

// ErrInvalidVarUint is returned when a variable-length integer does not fit
// in 32 bits.
var ErrInvalidVarUint = errors.New("invalid varuint32 encoding")

// maxVarUint32Groups is the number of 7-bit groups needed to encode any
// uint32 value.
const maxVarUint32Groups = 5

// Buffer is an append-only byte sequence with an internal read cursor.
// Writes always go to the end; reads consume from the cursor onward.
type Buffer struct {
	data     []byte
	position int
}

// New creates an empty Buffer.
func New() *Buffer {
	return &Buffer{data: make([]byte, 0, 64)}
}

// NewFromBytes creates a Buffer positioned at the beginning of a copy of the
// provided bytes.
func NewFromBytes(bytes []byte) *Buffer {
	data := make([]byte, len(bytes))
	copy(data, bytes)

	return &Buffer{data: data}
}

// Push appends single bytes.
func (b *Buffer) Push(values ...byte) {
	b.data = append(b.data, values...)
}

// PushArray appends raw bytes without a length prefix.
func (b *Buffer) PushArray(bytes []byte) {
	b.data = append(b.data, bytes...)
}

// PushVarUint32 appends an unsigned integer encoded in 7-bit groups, least
// significant group first, with the high bit set on every group except the
// last one.
func (b *Buffer) PushVarUint32(value uint32) {
	for {
		if value>>7 == 0 {
			b.Push(byte(value))
			return
		}

		b.Push(0x80 | byte(value&0x7f))
		value >>= 7
	}
}

// PushBytes appends a varuint32 length followed by the bytes.
func (b *Buffer) PushBytes(bytes []byte) {
	b.PushVarUint32(uint32(len(bytes)))
	b.PushArray(bytes)
}

// PushString appends a length-prefixed UTF-8 string.
func (b *Buffer) PushString(value string) {
	b.PushBytes([]byte(value))
}

// Get reads a single byte.
func (b *Buffer) Get() (byte, error) {
	if b.position >= len(b.data) {
		return 0, ErrOutOfData
	}

	value := b.data[b.position]
	b.position++

	return value, nil
}

// GetArray reads exactly length raw bytes. The returned slice is a copy.
func (b *Buffer) GetArray(length int) ([]byte, error) {
	if length < 0 || b.Remaining() < length {
		return nil, fmt.Errorf(
			"%w: requested [%d] bytes, [%d] remaining",
			ErrOutOfData,
			length,
			b.Remaining(),
		)
	}

	result := make([]byte, length)
	copy(result, b.data[b.position:b.position+length])
	b.position += length

	return result, nil
}

// GetVarUint32 reads an unsigned integer written by PushVarUint32.
func (b *Buffer) GetVarUint32() (uint32, error) {
	var value uint32

	for group := 0; group < maxVarUint32Groups; group++ {
		next, err := b.Get()
		if err != nil {
			return 0, err
		}

		if group == maxVarUint32Groups-1 && next > 0x0f {
			return 0, ErrInvalidVarUint
		}

		value |= uint32(next&0x7f) << (7 * uint(group))
		if next&0x80 == 0 {
			return value, nil
		}
	}

	return 0, ErrInvalidVarUint
}

// GetBytes reads bytes written by PushBytes.
func (b *Buffer) GetBytes() ([]byte, error) {
	length, err := b.GetVarUint32()
	if err != nil {
		return nil, err
	}

	return b.GetArray(int(length))
}

// GetString reads a string written by PushString.
func (b *Buffer) GetString() (string, error) {
	bytes, err := b.GetBytes()
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// Remaining returns the number of bytes not yet read.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.position
}

// Len returns the number of bytes written to the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns a copy of all bytes written to the buffer, regardless of the
// read cursor.
func (b *Buffer) Bytes() []byte {
	result := make([]byte, len(b.data))
	copy(result, b.data)

	return result
}
