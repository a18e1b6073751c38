package auctionhouse

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/system"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

var distributeProceedsInstructionDiscriminator = []byte{
	105, 243, 161, 177, 18, 229, 38, 117,
}

const (
	DistributeProceedsInstructionArgsSize = (1 + // auction_authority_bump
		1 + // program_as_signer_bump
		8) // amount
)

type DistributeProceedsInstructionArgs struct {
	AuctionAuthorityBump uint8
	ProgramAsSignerBump  uint8
	Amount               uint64
}

// DistributeProceedsInstructionAccounts pays out of the auction payment
// account funded by a preceding ExecuteSale in the same transaction.
type DistributeProceedsInstructionAccounts struct {
	Seller           ed25519.PublicKey
	SellerPayment    ed25519.PublicKey
	Auction          ed25519.PublicKey
	AuctionAuthority ed25519.PublicKey
	AuctionPayment   ed25519.PublicKey
	NftMint          ed25519.PublicKey
	Metadata         ed25519.PublicKey
	TreasuryMint     ed25519.PublicKey
	Authority        ed25519.PublicKey
	AuctionHouse     ed25519.PublicKey
	FeeAccount       ed25519.PublicKey
	Treasury         ed25519.PublicKey
	ProgramAsSigner  ed25519.PublicKey

	// Creator payout accounts appended after the named accounts
	RemainingAccounts []solana.AccountMeta
}

func NewDistributeProceedsInstruction(
	program ed25519.PublicKey,
	accounts *DistributeProceedsInstructionAccounts,
	args *DistributeProceedsInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(distributeProceedsInstructionDiscriminator)+
			DistributeProceedsInstructionArgsSize)

	putDiscriminator(data, distributeProceedsInstructionDiscriminator, &offset)
	putUint8(data, args.AuctionAuthorityBump, &offset)
	putUint8(data, args.ProgramAsSignerBump, &offset)
	putUint64(data, args.Amount, &offset)

	metas := []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Seller, false),
		solana.NewAccountMeta(accounts.SellerPayment, false),
		solana.NewAccountMeta(accounts.Auction, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionAuthority, false),
		solana.NewAccountMeta(accounts.AuctionPayment, false),
		solana.NewReadonlyAccountMeta(accounts.NftMint, false),
		solana.NewReadonlyAccountMeta(accounts.Metadata, false),
		solana.NewReadonlyAccountMeta(accounts.TreasuryMint, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionHouse, false),
		solana.NewAccountMeta(accounts.FeeAccount, false),
		solana.NewAccountMeta(accounts.Treasury, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(token.AssociatedTokenAccountProgramKey, false),
		solana.NewReadonlyAccountMeta(accounts.ProgramAsSigner, false),
	}
	metas = append(metas, accounts.RemainingAccounts...)

	return solana.NewInstruction(program, data, metas...)
}

func DistributeProceedsInstructionArgsFromBinary(data []byte) (*DistributeProceedsInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(distributeProceedsInstructionDiscriminator)+DistributeProceedsInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, distributeProceedsInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args DistributeProceedsInstructionArgs
	getUint8(data, &args.AuctionAuthorityBump, &offset)
	getUint8(data, &args.ProgramAsSignerBump, &offset)
	getUint64(data, &args.Amount, &offset)

	return &args, nil
}
