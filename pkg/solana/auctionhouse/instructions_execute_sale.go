package auctionhouse

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/system"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

var executeSaleInstructionDiscriminator = []byte{
	37, 74, 217, 157, 79, 49, 35, 6,
}

const (
	ExecuteSaleInstructionArgsSize = (1 + // escrow_payment_bump
		1 + // free_trade_state_bump
		1 + // program_as_signer_bump
		1 + // auction_authority_bump
		8 + // buyer_price
		8) // token_size
)

type ExecuteSaleInstructionArgs struct {
	EscrowPaymentBump    uint8
	FreeTradeStateBump   uint8
	ProgramAsSignerBump  uint8
	AuctionAuthorityBump uint8
	BuyerPrice           uint64
	TokenSize            uint64
}

// ExecuteSaleInstructionAccounts settles the winning bid. Sale proceeds land
// in the auction payment account and are paid out by DistributeProceeds.
type ExecuteSaleInstructionAccounts struct {
	Buyer                    ed25519.PublicKey
	Seller                   ed25519.PublicKey
	AuctionEscrow            ed25519.PublicKey
	NftMint                  ed25519.PublicKey
	Metadata                 ed25519.PublicKey
	TreasuryMint             ed25519.PublicKey
	EscrowPayment            ed25519.PublicKey
	AuctionPayment           ed25519.PublicKey
	BuyerReceiptTokenAccount ed25519.PublicKey
	Authority                ed25519.PublicKey
	AuctionHouse             ed25519.PublicKey
	FeeAccount               ed25519.PublicKey
	Treasury                 ed25519.PublicKey
	BuyerTradeState          ed25519.PublicKey
	AuctionTradeState        ed25519.PublicKey
	FreeTradeState           ed25519.PublicKey
	Auction                  ed25519.PublicKey
	Bid                      ed25519.PublicKey
	BidWallet                ed25519.PublicKey
	BidWalletReceipt         ed25519.PublicKey
	AuctionAuthority         ed25519.PublicKey
	ProgramAsSigner          ed25519.PublicKey
}

func NewExecuteSaleInstruction(
	program ed25519.PublicKey,
	accounts *ExecuteSaleInstructionAccounts,
	args *ExecuteSaleInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte,
		len(executeSaleInstructionDiscriminator)+
			ExecuteSaleInstructionArgsSize)

	putDiscriminator(data, executeSaleInstructionDiscriminator, &offset)
	putUint8(data, args.EscrowPaymentBump, &offset)
	putUint8(data, args.FreeTradeStateBump, &offset)
	putUint8(data, args.ProgramAsSignerBump, &offset)
	putUint8(data, args.AuctionAuthorityBump, &offset)
	putUint64(data, args.BuyerPrice, &offset)
	putUint64(data, args.TokenSize, &offset)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.Buyer, false),
		solana.NewAccountMeta(accounts.Seller, false),
		solana.NewAccountMeta(accounts.AuctionEscrow, false),
		solana.NewReadonlyAccountMeta(accounts.NftMint, false),
		solana.NewReadonlyAccountMeta(accounts.Metadata, false),
		solana.NewReadonlyAccountMeta(accounts.TreasuryMint, false),
		solana.NewAccountMeta(accounts.EscrowPayment, false),
		solana.NewAccountMeta(accounts.AuctionPayment, false),
		solana.NewAccountMeta(accounts.BuyerReceiptTokenAccount, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionHouse, false),
		solana.NewAccountMeta(accounts.FeeAccount, false),
		solana.NewAccountMeta(accounts.Treasury, false),
		solana.NewAccountMeta(accounts.BuyerTradeState, false),
		solana.NewAccountMeta(accounts.AuctionTradeState, false),
		solana.NewAccountMeta(accounts.FreeTradeState, false),
		solana.NewAccountMeta(accounts.Auction, false),
		solana.NewAccountMeta(accounts.Bid, false),
		solana.NewAccountMeta(accounts.BidWallet, false),
		solana.NewAccountMeta(accounts.BidWalletReceipt, false),
		solana.NewReadonlyAccountMeta(accounts.AuctionAuthority, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(token.AssociatedTokenAccountProgramKey, false),
		solana.NewReadonlyAccountMeta(accounts.ProgramAsSigner, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

func ExecuteSaleInstructionArgsFromBinary(data []byte) (*ExecuteSaleInstructionArgs, error) {
	var offset int
	var discriminator []byte

	if len(data) < len(executeSaleInstructionDiscriminator)+ExecuteSaleInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, executeSaleInstructionDiscriminator) {
		return nil, ErrInvalidInstructionData
	}

	var args ExecuteSaleInstructionArgs
	getUint8(data, &args.EscrowPaymentBump, &offset)
	getUint8(data, &args.FreeTradeStateBump, &offset)
	getUint8(data, &args.ProgramAsSignerBump, &offset)
	getUint8(data, &args.AuctionAuthorityBump, &offset)
	getUint64(data, &args.BuyerPrice, &offset)
	getUint64(data, &args.TokenSize, &offset)

	return &args, nil
}
