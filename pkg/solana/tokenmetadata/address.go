package tokenmetadata

import (
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
)

var (
	MetadataPrefix = []byte("metadata")
)

type GetMetadataAddressArgs struct {
	Mint ed25519.PublicKey
}

func GetMetadataAddress(args *GetMetadataAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ProgramKey,
		MetadataPrefix,
		ProgramKey,
		args.Mint,
	)
}
