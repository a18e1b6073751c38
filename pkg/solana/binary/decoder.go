package binary

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrTruncated  = errors.New("binary: truncated data")
	ErrInvalidTag = errors.New("binary: invalid option tag")
)

// Decoder reads fields in order. The first failure is retained and every
// later read returns a zero value, so callers check Err once at the end.
type Decoder struct {
	data   []byte
	offset int
	err    error
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Err returns the first error encountered, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Offset returns the number of bytes consumed.
func (d *Decoder) Offset() int {
	return d.offset
}

// Bytes returns the next n bytes without copying.
func (d *Decoder) Bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.offset < n {
		d.err = errors.Wrapf(ErrTruncated, "need %d bytes at offset %d, have %d", n, d.offset, len(d.data)-d.offset)
		return nil
	}
	b := d.data[d.offset : d.offset+n]
	d.offset += n
	return b
}

func (d *Decoder) Key() ed25519.PublicKey {
	b := d.Bytes(ed25519.PublicKeySize)
	if b == nil {
		return nil
	}
	return append(ed25519.PublicKey(nil), b...)
}

func (d *Decoder) Uint8() uint8 {
	if b := d.Bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *Decoder) Bool() bool {
	return d.Uint8() != 0
}

func (d *Decoder) Uint16() uint16 {
	if b := d.Bytes(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *Decoder) Uint32() uint32 {
	if b := d.Bytes(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *Decoder) Uint64() uint64 {
	if b := d.Bytes(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// String reads a borsh string. Trailing null padding, which the metadata
// program uses for fixed width fields, is removed.
func (d *Decoder) String() string {
	n := d.Uint32()
	return strings.TrimRight(string(d.Bytes(int(n))), "\x00")
}

// COptionKey reads an SPL COption<Pubkey>, returning nil when absent.
func (d *Decoder) COptionKey() ed25519.PublicKey {
	present := d.coptionTag()
	key := d.Key()
	if !present {
		return nil
	}
	return key
}

// COptionUint64 reads an SPL COption<u64>, returning nil when absent.
func (d *Decoder) COptionUint64() *uint64 {
	present := d.coptionTag()
	v := d.Uint64()
	if !present || d.err != nil {
		return nil
	}
	return &v
}

func (d *Decoder) coptionTag() bool {
	switch tag := d.Uint32(); tag {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = errors.Wrapf(ErrInvalidTag, "tag %d at offset %d", tag, d.offset-COptionSize)
		}
		return false
	}
}
