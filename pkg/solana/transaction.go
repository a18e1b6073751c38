package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	// MaxTransactionSize taken from: https://github.com/solana-labs/solana/blob/39b3ac6a8d29e14faa1de73d8b46d390ad41797b/sdk/src/packet.rs#L9-L13
	MaxTransactionSize = 1232
)

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles the instructions into a legacy transaction paid for
// by payer. The returned transaction has no blockhash and is not signed.
//
// Instructions are compiled in the order provided; the runtime executes them
// in that order.
//
// Reference: https://docs.solana.com/developing/programming-model/transactions#account-addresses-format
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	set := newAccountSet(payer)
	for _, i := range instructions {
		set.addProgram(i.Program)
		for _, a := range i.Accounts {
			set.add(a)
		}
	}

	var m Message
	m.Accounts = set.sorted()
	for _, a := range set.entries {
		switch {
		case a.IsSigner:
			m.Header.NumSignatures++
			if !a.IsWritable {
				m.Header.NumReadonlySigned++
			}
		case !a.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	m.Instructions = make([]CompiledInstruction, len(instructions))
	for n, i := range instructions {
		c := CompiledInstruction{
			ProgramIndex: set.index(i.Program),
			Accounts:     make([]byte, len(i.Accounts)),
			Data:         i.Data,
		}
		for j, a := range i.Accounts {
			c.Accounts[j] = set.index(a.PublicKey)
		}
		m.Instructions[n] = c
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Sign signs the message with each key. Every key must belong to one of the
// message's signer slots.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	message := t.Message.Marshal()

	for _, s := range signers {
		pub := s.Public().(ed25519.PublicKey)

		index := -1
		for i, a := range t.Message.Accounts {
			if bytes.Equal(a, pub) {
				index = i
				break
			}
		}
		switch {
		case index < 0:
			return errors.Errorf("signing account %s is not in the account list", base58.Encode(pub))
		case index >= len(t.Signatures):
			return errors.Errorf("signing account %s is not in the list of signers", base58.Encode(pub))
		}

		copy(t.Signatures[index][:], ed25519.Sign(s, message))
	}

	return nil
}

type compiledAccount struct {
	AccountMeta
	isPayer   bool
	isProgram bool
}

// rank orders accounts as the runtime expects: the payer, writable signers,
// readonly signers, writable accounts, readonly accounts, then programs.
func (a *compiledAccount) rank() int {
	switch {
	case a.isPayer:
		return 0
	case a.IsSigner && a.IsWritable:
		return 1
	case a.IsSigner:
		return 2
	case a.IsWritable:
		return 3
	case !a.isProgram:
		return 4
	default:
		return 5
	}
}

// accountSet deduplicates accounts across instructions, promoting each to
// the union of the permissions requested of it.
type accountSet struct {
	entries []*compiledAccount
	byKey   map[string]*compiledAccount
	indexes map[string]byte
}

func newAccountSet(payer ed25519.PublicKey) *accountSet {
	s := &accountSet{byKey: make(map[string]*compiledAccount)}
	s.add(NewAccountMeta(payer, true)).isPayer = true
	return s
}

func (s *accountSet) add(meta AccountMeta) *compiledAccount {
	key := normalizeKey(meta.PublicKey)
	if existing, ok := s.byKey[string(key)]; ok {
		existing.IsSigner = existing.IsSigner || meta.IsSigner
		existing.IsWritable = existing.IsWritable || meta.IsWritable
		return existing
	}

	meta.PublicKey = key
	entry := &compiledAccount{AccountMeta: meta}
	s.entries = append(s.entries, entry)
	s.byKey[string(key)] = entry
	return entry
}

func (s *accountSet) addProgram(program ed25519.PublicKey) {
	if _, ok := s.byKey[string(normalizeKey(program))]; ok {
		return
	}
	s.add(NewReadonlyAccountMeta(program, false)).isProgram = true
}

func (s *accountSet) sorted() []ed25519.PublicKey {
	sort.SliceStable(s.entries, func(i, j int) bool {
		ri, rj := s.entries[i].rank(), s.entries[j].rank()
		if ri != rj {
			return ri < rj
		}
		return bytes.Compare(s.entries[i].PublicKey, s.entries[j].PublicKey) < 0
	})

	keys := make([]ed25519.PublicKey, len(s.entries))
	s.indexes = make(map[string]byte, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.PublicKey
		s.indexes[string(e.PublicKey)] = byte(i)
	}
	return keys
}

func (s *accountSet) index(pub ed25519.PublicKey) byte {
	return s.indexes[string(normalizeKey(pub))]
}

// normalizeKey maps an unset key to the zero address.
func normalizeKey(pub ed25519.PublicKey) ed25519.PublicKey {
	if len(pub) == 0 {
		return make(ed25519.PublicKey, ed25519.PublicKeySize)
	}
	return pub
}
