package token

import (
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana/binary"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L36
const MintSize = 82

type Account struct {
	// The mint associated with this account
	Mint ed25519.PublicKey
	// The owner of this account.
	Owner ed25519.PublicKey
	// The amount of tokens this account holds.
	Amount uint64
	// If set, then the 'DelegatedAmount' represents the amount
	// authorized by the delegate.
	Delegate ed25519.PublicKey
	/// The account's state
	State AccountState
	// If set, this is a native token, and the value logs the rent-exempt reserve. An Account
	// is required to be rent-exempt, so the value is used by the Processor to ensure that wrapped
	// SOL accounts do not drop below this threshold.
	IsNative *uint64
	// The amount delegated
	DelegatedAmount uint64
	// Optional authority to close the account.
	CloseAuthority ed25519.PublicKey
}

func (a *Account) Marshal() []byte {
	e := binary.NewEncoder(AccountSize)
	e.Key(a.Mint)
	e.Key(a.Owner)
	e.Uint64(a.Amount)
	e.COptionKey(a.Delegate)
	e.Uint8(uint8(a.State))
	e.COptionUint64(a.IsNative)
	e.Uint64(a.DelegatedAmount)
	e.COptionKey(a.CloseAuthority)
	return e.Bytes()
}

// Unmarshal decodes a token account, reporting false if b is not one.
func (a *Account) Unmarshal(b []byte) bool {
	if len(b) != AccountSize {
		return false
	}

	d := binary.NewDecoder(b)
	a.Mint = d.Key()
	a.Owner = d.Key()
	a.Amount = d.Uint64()
	a.Delegate = d.COptionKey()
	a.State = AccountState(d.Uint8())
	a.IsNative = d.COptionUint64()
	a.DelegatedAmount = d.Uint64()
	a.CloseAuthority = d.COptionKey()
	return d.Err() == nil
}

type Mint struct {
	// Optional authority used to mint new tokens. Absent once the supply is fixed.
	MintAuthority ed25519.PublicKey
	// Total supply of tokens.
	Supply uint64
	// Number of base 10 digits to the right of the decimal place.
	Decimals uint8
	IsInitialized bool
	// Optional authority to freeze token accounts.
	FreezeAuthority ed25519.PublicKey
}

// IsNonFungible reports whether the mint describes a single indivisible unit.
func (m *Mint) IsNonFungible() bool {
	return m.IsInitialized && m.Supply == 1 && m.Decimals == 0
}

func (m *Mint) Marshal() []byte {
	e := binary.NewEncoder(MintSize)
	e.COptionKey(m.MintAuthority)
	e.Uint64(m.Supply)
	e.Uint8(m.Decimals)
	e.Bool(m.IsInitialized)
	e.COptionKey(m.FreezeAuthority)
	return e.Bytes()
}

// Unmarshal decodes a mint, reporting false if b is not one.
func (m *Mint) Unmarshal(b []byte) bool {
	if len(b) != MintSize {
		return false
	}

	d := binary.NewDecoder(b)
	m.MintAuthority = d.COptionKey()
	m.Supply = d.Uint64()
	m.Decimals = d.Uint8()
	m.IsInitialized = d.Bool()
	m.FreezeAuthority = d.COptionKey()
	return d.Err() == nil
}
