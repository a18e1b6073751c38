// Package shortvec implements the compact-u16 length prefix used by the
// Solana wire format.
package shortvec

import (
	"math"

	"github.com/pkg/errors"
)

// MaxEncodedSize is the largest number of bytes a length can occupy.
const MaxEncodedSize = 3

var (
	ErrLengthTooLarge = errors.Errorf("length exceeds %d", math.MaxUint16)
	ErrTruncated      = errors.New("truncated length prefix")
	ErrOverlong       = errors.Errorf("length prefix exceeds %d bytes", MaxEncodedSize)
)

// AppendLen appends the encoded length to dst.
func AppendLen(dst []byte, length int) ([]byte, error) {
	if length < 0 || length > math.MaxUint16 {
		return dst, ErrLengthTooLarge
	}

	for length >= 0x80 {
		dst = append(dst, byte(length&0x7f)|0x80)
		length >>= 7
	}
	return append(dst, byte(length)), nil
}

// DecodeLen decodes the length prefix at the start of src and returns the
// length along with the number of bytes consumed.
func DecodeLen(src []byte) (length int, size int, err error) {
	for size < len(src) {
		b := src[size]
		length |= int(b&0x7f) << (7 * size)
		size++

		if b&0x80 == 0 {
			if size > MaxEncodedSize || length > math.MaxUint16 {
				return 0, 0, ErrOverlong
			}
			return length, size, nil
		}
		if size == MaxEncodedSize {
			return 0, 0, ErrOverlong
		}
	}

	return 0, 0, ErrTruncated
}
