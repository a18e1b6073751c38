package auctionhouse

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

func putDiscriminator(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += 8
}
func getDiscriminator(src []byte, dst *[]byte, offset *int) {
	*dst = make([]byte, 8)
	copy(*dst, src[*offset:])
	*offset += 8
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], v)
	*offset += ed25519.PublicKeySize
}
func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

// Optional keys are a one byte tag followed by the key, and always occupy
// the full width in account data.
func putOptionalKey(dst []byte, v ed25519.PublicKey, offset *int) {
	if len(v) > 0 {
		dst[*offset] = 1
		copy(dst[*offset+1:], v)
	}
	*offset += 1 + ed25519.PublicKeySize
}
func getOptionalKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = nil
	if src[*offset] == 1 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[*offset+1:])
	}
	*offset += 1 + ed25519.PublicKeySize
}

func putBool(dst []byte, v bool, offset *int) {
	if v {
		dst[*offset] = 1
	}
	*offset += 1
}
func getBool(src []byte, dst *bool, offset *int) {
	*dst = src[*offset] != 0
	*offset += 1
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}
func getUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func putUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst[*offset:], v)
	*offset += 2
}
func getUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src[*offset:])
	*offset += 2
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func putInt64(dst []byte, v int64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], uint64(v))
	*offset += 8
}
func getInt64(src []byte, dst *int64, offset *int) {
	*dst = int64(binary.LittleEndian.Uint64(src[*offset:]))
	*offset += 8
}

// Optional u64 values in account data are a one byte tag followed by the
// value, and always occupy the full width.
func putOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v != nil {
		dst[*offset] = 1
		binary.LittleEndian.PutUint64(dst[*offset+1:], *v)
	}
	*offset += 1 + 8
}
func getOptionalUint64(src []byte, dst **uint64, offset *int) {
	*dst = nil
	if src[*offset] == 1 {
		v := binary.LittleEndian.Uint64(src[*offset+1:])
		*dst = &v
	}
	*offset += 1 + 8
}

// Instruction arguments use borsh encoding, where an absent option is a
// single zero byte.
func borshOptionalUint64Size(v *uint64) int {
	if v == nil {
		return 1
	}
	return 1 + 8
}
func putBorshOptionalUint64(dst []byte, v *uint64, offset *int) {
	if v == nil {
		dst[*offset] = 0
		*offset += 1
		return
	}
	dst[*offset] = 1
	binary.LittleEndian.PutUint64(dst[*offset+1:], *v)
	*offset += 1 + 8
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
func getBorshOptionalUint64(src []byte, dst **uint64, offset *int) error {
	*dst = nil
	switch src[*offset] {
	case 0:
		*offset += 1
		return nil
	case 1:
		if len(src) < *offset+1+8 {
			return ErrInvalidInstructionData
		}
		v := binary.LittleEndian.Uint64(src[*offset+1:])
		*dst = &v
		*offset += 1 + 8
		return nil
	default:
		return ErrInvalidInstructionData
	}
}
