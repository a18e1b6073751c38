package auctionhouse

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/system"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

var createAuctionInstructionDiscriminator = []byte{
	234, 6, 201, 246, 47, 219, 176, 107,
}

const (
	createAuctionInstructionFixedArgsSize = (1 + // auction_bump
		1 + // authority_bump
		8 + // starting_bid
		8 + // start_time
		8 + // bidding_period
		8) // tick_size
)

type CreateAuctionInstructionArgs struct {
	AuctionBump   uint8
	AuthorityBump uint8
	StartingBid   uint64
	StartTime     int64
	BiddingPeriod uint64
	TickSize      uint64
	BuyNowPrice   *uint64
}

type CreateAuctionInstructionAccounts struct {
	Seller             ed25519.PublicKey
	AuctionHouse       ed25519.PublicKey
	Auction            ed25519.PublicKey
	AuctionAuthority   ed25519.PublicKey
	NftMint            ed25519.PublicKey
	SellerTokenAccount ed25519.PublicKey
	AuctionEscrow      ed25519.PublicKey
	TreasuryMint       ed25519.PublicKey
}

func NewCreateAuctionInstruction(
	program ed25519.PublicKey,
	accounts *CreateAuctionInstructionAccounts,
	args *CreateAuctionInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(createAuctionInstructionDiscriminator)+
			createAuctionInstructionFixedArgsSize+
			borshOptionalUint64Size(args.BuyNowPrice))

	putDiscriminator(data, createAuctionInstructionDiscriminator, &offset)
	putUint8(data, args.AuctionBump, &offset)
	putUint8(data, args.AuthorityBump, &offset)
	putUint64(data, args.StartingBid, &offset)
	putInt64(data, args.StartTime, &offset)
	putUint64(data, args.BiddingPeriod, &offset)
	putUint64(data, args.TickSize, &offset)
	putBorshOptionalUint64(data, args.BuyNowPrice, &offset)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Seller, true),
		solana.NewReadonlyAccountMeta(accounts.AuctionHouse, false),
		solana.NewAccountMeta(accounts.Auction, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionAuthority, false),
		solana.NewReadonlyAccountMeta(accounts.NftMint, false),
		solana.NewAccountMeta(accounts.SellerTokenAccount, false),
		solana.NewAccountMeta(accounts.AuctionEscrow, false),
		solana.NewReadonlyAccountMeta(accounts.TreasuryMint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(token.AssociatedTokenAccountProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

func CreateAuctionInstructionArgsFromBinary(data []byte) (*CreateAuctionInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(createAuctionInstructionDiscriminator)+createAuctionInstructionFixedArgsSize+1 {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, createAuctionInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args CreateAuctionInstructionArgs
	getUint8(data, &args.AuctionBump, &offset)
	getUint8(data, &args.AuthorityBump, &offset)
	getUint64(data, &args.StartingBid, &offset)
	getInt64(data, &args.StartTime, &offset)
	getUint64(data, &args.BiddingPeriod, &offset)
	getUint64(data, &args.TickSize, &offset)
	if err := getBorshOptionalUint64(data, &args.BuyNowPrice, &offset); err != nil {
		return nil, err
	}

	return &args, nil
}
