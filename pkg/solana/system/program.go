package system

import (
	"crypto/ed25519"
)

// ProgramKey is the address of the system program.
//
// Current key: 11111111111111111111111111111111
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

// IsSystemOwned reports whether the account owner is the system program, which
// is the case for plain wallets holding native currency.
func IsSystemOwned(owner ed25519.PublicKey) bool {
	return ProgramKey.Equal(owner)
}
