package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana/shortvec"
)

// ToBase58 returns the signature in the encoding used by the RPC API.
func (s Signature) ToBase58() string {
	return base58.Encode(s[:])
}

// Marshal encodes the transaction in the legacy wire format.
func (t Transaction) Marshal() []byte {
	b := make([]byte, 0, MaxTransactionSize)
	b = appendLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		b = append(b, s[:]...)
	}
	return t.Message.appendTo(b)
}

func (t *Transaction) Unmarshal(b []byte) error {
	d := decoder{buf: b}

	count, err := d.len("signature count")
	if err != nil {
		return err
	}
	t.Signatures = make([]Signature, count)
	for i := range t.Signatures {
		raw, err := d.bytes(ed25519.SignatureSize, "signature")
		if err != nil {
			return errors.Wrapf(err, "signature %d", i)
		}
		copy(t.Signatures[i][:], raw)
	}

	return t.Message.Unmarshal(d.buf)
}

// Marshal encodes the message. The result is the payload signers sign.
func (m Message) Marshal() []byte {
	return m.appendTo(nil)
}

func (m Message) appendTo(b []byte) []byte {
	b = append(b, m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly)

	b = appendLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		b = append(b, a...)
	}

	b = append(b, m.RecentBlockhash[:]...)

	b = appendLen(b, len(m.Instructions))
	for _, i := range m.Instructions {
		b = append(b, i.ProgramIndex)
		b = appendLen(b, len(i.Accounts))
		b = append(b, i.Accounts...)
		b = appendLen(b, len(i.Data))
		b = append(b, i.Data...)
	}

	return b
}

func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	if b[0]&0x80 != 0 {
		return errors.New("versioned messages not supported")
	}

	d := decoder{buf: b}

	header, err := d.bytes(3, "header")
	if err != nil {
		return err
	}
	m.Header = Header{
		NumSignatures:     header[0],
		NumReadonlySigned: header[1],
		NumReadOnly:       header[2],
	}

	count, err := d.len("account count")
	if err != nil {
		return err
	}
	m.Accounts = make([]ed25519.PublicKey, count)
	for i := range m.Accounts {
		raw, err := d.bytes(ed25519.PublicKeySize, "account")
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		m.Accounts[i] = append(ed25519.PublicKey(nil), raw...)
	}

	blockhash, err := d.bytes(len(m.RecentBlockhash), "recent blockhash")
	if err != nil {
		return err
	}
	copy(m.RecentBlockhash[:], blockhash)

	count, err = d.len("instruction count")
	if err != nil {
		return err
	}
	m.Instructions = make([]CompiledInstruction, count)
	for i := range m.Instructions {
		if m.Instructions[i], err = d.instruction(len(m.Accounts)); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}

	return nil
}

func appendLen(b []byte, length int) []byte {
	b, err := shortvec.AppendLen(b, length)
	if err != nil {
		// Unreachable for any message under MaxTransactionSize.
		panic(err)
	}
	return b
}

type decoder struct {
	buf []byte
}

func (d *decoder) len(field string) (int, error) {
	length, size, err := shortvec.DecodeLen(d.buf)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read %s", field)
	}
	d.buf = d.buf[size:]
	return length, nil
}

func (d *decoder) bytes(n int, field string) ([]byte, error) {
	if len(d.buf) < n {
		return nil, errors.Errorf("failed to read %s: need %d bytes, have %d", field, n, len(d.buf))
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out, nil
}

func (d *decoder) instruction(numAccounts int) (c CompiledInstruction, err error) {
	program, err := d.bytes(1, "program index")
	if err != nil {
		return c, err
	}
	c.ProgramIndex = program[0]
	if int(c.ProgramIndex) >= numAccounts {
		return c, errors.Errorf("program index %d out of range", c.ProgramIndex)
	}

	count, err := d.len("account index count")
	if err != nil {
		return c, err
	}
	indexes, err := d.bytes(count, "account indexes")
	if err != nil {
		return c, err
	}
	for _, index := range indexes {
		if int(index) >= numAccounts {
			return c, errors.Errorf("account index %d out of range", index)
		}
	}
	c.Accounts = append([]byte(nil), indexes...)

	count, err = d.len("data length")
	if err != nil {
		return c, err
	}
	data, err := d.bytes(count, "data")
	if err != nil {
		return c, err
	}
	c.Data = append([]byte(nil), data...)

	return c, nil
}
