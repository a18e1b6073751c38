package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// RentSysVar is the address of the rent sysvar, which Anchor programs read
// when initializing accounts.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar = mustDecode("SysvarRent111111111111111111111111111111111")

func mustDecode(address string) ed25519.PublicKey {
	key, err := base58.Decode(address)
	if err != nil {
		panic(err)
	}
	return key
}
