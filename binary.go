package aei

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// byteOrder is used for every multi-byte field of the container.
var byteOrder binary.ByteOrder = binary.LittleEndian

func encodeUint8(v uint8) []byte {
	return []byte{v}
}

func encodeUint16(order binary.ByteOrder, v uint16) []byte {
	b := make([]byte, 2)
	order.PutUint16(b, v)
	return b
}

func encodeUint32(order binary.ByteOrder, v uint32) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, v)
	return b
}

// readFull reads exactly len(buf) bytes. It returns io.EOF untouched when
// nothing at all was available, so tolerant readers can tell "absent" from
// "truncated".
func readFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if n == 0 && errors.Is(err, io.EOF) {
		return io.EOF
	}

	return fmt.Errorf("%w: want %d bytes, got %d: %v", ErrTruncated, len(buf), n, err)
}

func readBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := readFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: want %d bytes, got 0", ErrTruncated, n)
		}
		return nil, err
	}

	return buf, nil
}

func readUint8(r io.Reader) (uint8, error) {
	b, err := readBytes(r, 1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func readUint16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	b, err := readBytes(r, 2)
	if err != nil {
		return 0, err
	}

	return order.Uint16(b), nil
}

func readUint32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	b, err := readBytes(r, 4)
	if err != nil {
		return 0, err
	}

	return order.Uint32(b), nil
}

// readUint8Default is readUint8 for optional trailing fields: an exhausted
// stream yields def.
func readUint8Default(r io.Reader, def uint8) (uint8, error) {
	var b [1]byte
	if err := readFull(r, b[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return def, nil
		}
		return 0, err
	}

	return b[0], nil
}
