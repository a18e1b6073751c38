package auctionhouse

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/system"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

var placeBidInstructionDiscriminator = []byte{
	238, 77, 148, 91, 200, 151, 92, 146,
}

const (
	PlaceBidInstructionArgsSize = (1 + // trade_state_bump
		1 + // escrow_payment_bump
		1 + // bid_wallet_bump
		8) // price
)

type PlaceBidInstructionArgs struct {
	TradeStateBump    uint8
	EscrowPaymentBump uint8
	BidWalletBump     uint8
	Price             uint64
}

type PlaceBidInstructionAccounts struct {
	Buyer           ed25519.PublicKey
	PaymentAccount  ed25519.PublicKey
	BidWallet       ed25519.PublicKey
	Bid             ed25519.PublicKey
	Auction         ed25519.PublicKey
	AuctionEscrow   ed25519.PublicKey
	NftMint         ed25519.PublicKey
	TreasuryMint    ed25519.PublicKey
	EscrowPayment   ed25519.PublicKey
	Authority       ed25519.PublicKey
	AuctionHouse    ed25519.PublicKey
	FeeAccount      ed25519.PublicKey
	BuyerTradeState ed25519.PublicKey
}

func NewPlaceBidInstruction(
	program ed25519.PublicKey,
	accounts *PlaceBidInstructionAccounts,
	args *PlaceBidInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(placeBidInstructionDiscriminator)+
			PlaceBidInstructionArgsSize)

	putDiscriminator(data, placeBidInstructionDiscriminator, &offset)
	putUint8(data, args.TradeStateBump, &offset)
	putUint8(data, args.EscrowPaymentBump, &offset)
	putUint8(data, args.BidWalletBump, &offset)
	putUint64(data, args.Price, &offset)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Buyer, true),
		solana.NewAccountMeta(accounts.PaymentAccount, false),
		solana.NewAccountMeta(accounts.BidWallet, false),
		solana.NewAccountMeta(accounts.Bid, false),
		solana.NewAccountMeta(accounts.Auction, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionEscrow, false),
		solana.NewReadonlyAccountMeta(accounts.NftMint, false),
		solana.NewReadonlyAccountMeta(accounts.TreasuryMint, false),
		solana.NewAccountMeta(accounts.EscrowPayment, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionHouse, false),
		solana.NewAccountMeta(accounts.FeeAccount, false),
		solana.NewAccountMeta(accounts.BuyerTradeState, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

func PlaceBidInstructionArgsFromBinary(data []byte) (*PlaceBidInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(placeBidInstructionDiscriminator)+PlaceBidInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, placeBidInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args PlaceBidInstructionArgs
	getUint8(data, &args.TradeStateBump, &offset)
	getUint8(data, &args.EscrowPaymentBump, &offset)
	getUint8(data, &args.BidWalletBump, &offset)
	getUint64(data, &args.Price, &offset)

	return &args, nil
}
