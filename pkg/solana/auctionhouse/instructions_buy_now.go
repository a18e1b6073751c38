package auctionhouse

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/system"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

var buyNowAuctionInstructionDiscriminator = []byte{
	66, 122, 226, 13, 221, 180, 133, 169,
}

const (
	BuyNowAuctionInstructionArgsSize = (1 + // escrow_payment_bump
		1 + // auction_trade_state_bump
		1 + // free_trade_state_bump
		1 + // buyer_trade_state_bump
		1 + // program_as_signer_bump
		1 + // auction_authority_bump
		8) // price
)

type BuyNowAuctionInstructionArgs struct {
	EscrowPaymentBump     uint8
	AuctionTradeStateBump uint8
	FreeTradeStateBump    uint8
	BuyerTradeStateBump   uint8
	ProgramAsSignerBump   uint8
	AuctionAuthorityBump  uint8
	Price                 uint64
}

type BuyNowAuctionInstructionAccounts struct {
	Buyer                    ed25519.PublicKey
	Seller                   ed25519.PublicKey
	Auction                  ed25519.PublicKey
	AuctionAuthority         ed25519.PublicKey
	AuctionEscrow            ed25519.PublicKey
	NftMint                  ed25519.PublicKey
	Metadata                 ed25519.PublicKey
	TreasuryMint             ed25519.PublicKey
	BuyerPayment             ed25519.PublicKey
	EscrowPayment            ed25519.PublicKey
	SellerPaymentReceipt     ed25519.PublicKey
	AuctionPayment           ed25519.PublicKey
	BuyerReceiptTokenAccount ed25519.PublicKey
	Authority                ed25519.PublicKey
	AuctionHouse             ed25519.PublicKey
	FeeAccount               ed25519.PublicKey
	Treasury                 ed25519.PublicKey
	AuctionTradeState        ed25519.PublicKey
	FreeTradeState           ed25519.PublicKey
	BuyerTradeState          ed25519.PublicKey
	ProgramAsSigner          ed25519.PublicKey

	// Creator payout accounts appended after the named accounts
	RemainingAccounts []solana.AccountMeta
}

func NewBuyNowAuctionInstruction(
	program ed25519.PublicKey,
	accounts *BuyNowAuctionInstructionAccounts,
	args *BuyNowAuctionInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(buyNowAuctionInstructionDiscriminator)+
			BuyNowAuctionInstructionArgsSize)

	putDiscriminator(data, buyNowAuctionInstructionDiscriminator, &offset)
	putUint8(data, args.EscrowPaymentBump, &offset)
	putUint8(data, args.AuctionTradeStateBump, &offset)
	putUint8(data, args.FreeTradeStateBump, &offset)
	putUint8(data, args.BuyerTradeStateBump, &offset)
	putUint8(data, args.ProgramAsSignerBump, &offset)
	putUint8(data, args.AuctionAuthorityBump, &offset)
	putUint64(data, args.Price, &offset)

	metas := []solana.AccountMeta{
		solana.NewAccountMeta(accounts.Buyer, true),
		solana.NewAccountMeta(accounts.Seller, false),
		solana.NewAccountMeta(accounts.Auction, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionAuthority, false),
		solana.NewAccountMeta(accounts.AuctionEscrow, false),
		solana.NewReadonlyAccountMeta(accounts.NftMint, false),
		solana.NewReadonlyAccountMeta(accounts.Metadata, false),
		solana.NewReadonlyAccountMeta(accounts.TreasuryMint, false),
		solana.NewAccountMeta(accounts.BuyerPayment, false),
		solana.NewAccountMeta(accounts.EscrowPayment, false),
		solana.NewAccountMeta(accounts.SellerPaymentReceipt, false),
		solana.NewAccountMeta(accounts.AuctionPayment, false),
		solana.NewAccountMeta(accounts.BuyerReceiptTokenAccount, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionHouse, false),
		solana.NewAccountMeta(accounts.FeeAccount, false),
		solana.NewAccountMeta(accounts.Treasury, false),
		solana.NewAccountMeta(accounts.AuctionTradeState, false),
		solana.NewAccountMeta(accounts.FreeTradeState, false),
		solana.NewAccountMeta(accounts.BuyerTradeState, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(token.AssociatedTokenAccountProgramKey, false),
		solana.NewReadonlyAccountMeta(accounts.ProgramAsSigner, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	}
	metas = append(metas, accounts.RemainingAccounts...)

	return solana.NewInstruction(program, data, metas...)
}

func BuyNowAuctionInstructionArgsFromBinary(data []byte) (*BuyNowAuctionInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(buyNowAuctionInstructionDiscriminator)+BuyNowAuctionInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, buyNowAuctionInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args BuyNowAuctionInstructionArgs
	getUint8(data, &args.EscrowPaymentBump, &offset)
	getUint8(data, &args.AuctionTradeStateBump, &offset)
	getUint8(data, &args.FreeTradeStateBump, &offset)
	getUint8(data, &args.BuyerTradeStateBump, &offset)
	getUint8(data, &args.ProgramAsSignerBump, &offset)
	getUint8(data, &args.AuctionAuthorityBump, &offset)
	getUint64(data, &args.Price, &offset)

	return &args, nil
}
