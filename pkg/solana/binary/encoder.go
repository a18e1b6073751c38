// Package binary encodes and decodes the little endian layouts used by
// Solana programs: fixed width SPL state and borsh encoded Anchor and
// Metaplex data.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

// COptionSize is the width of the tag preceding an SPL COption value.
const COptionSize = 4

// Encoder appends fields to a byte slice.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with room for size bytes.
func NewEncoder(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// Bytes returns the encoded data.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Raw(b []byte) {
	e.buf = append(e.buf, b...)
}

// Key writes a public key. An unset key is written as 32 zero bytes.
func (e *Encoder) Key(k ed25519.PublicKey) {
	var fixed [ed25519.PublicKeySize]byte
	copy(fixed[:], k)
	e.buf = append(e.buf, fixed[:]...)
}

func (e *Encoder) Uint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) Bool(v bool) {
	if v {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
}

func (e *Encoder) Uint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) Uint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) Uint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// String writes a borsh string: a u32 length followed by the bytes.
func (e *Encoder) String(s string) {
	e.Uint32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

// COptionKey writes an SPL COption<Pubkey>, which occupies its full width
// whether or not k is set.
func (e *Encoder) COptionKey(k ed25519.PublicKey) {
	e.coptionTag(len(k) > 0)
	e.Key(k)
}

// COptionUint64 writes an SPL COption<u64>.
func (e *Encoder) COptionUint64(v *uint64) {
	e.coptionTag(v != nil)
	if v == nil {
		e.Uint64(0)
		return
	}
	e.Uint64(*v)
}

func (e *Encoder) coptionTag(present bool) {
	if present {
		e.Uint32(1)
	} else {
		e.Uint32(0)
	}
}
