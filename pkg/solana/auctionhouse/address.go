package auctionhouse

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/auction-house-client/pkg/solana"
)

var (
	auctionHousePrefix = []byte("auction_house")
	escrowPrefix       = []byte("auction_house_escrow")
	treasuryPrefix     = []byte("treasury")
	signerPrefix       = []byte("signer")
	auctionPrefix      = []byte("auction")
	bidPrefix          = []byte("bid")
	bidWalletPrefix    = []byte("bid_wallet")
)

type GetAuctionHouseAddressArgs struct {
	Creator      ed25519.PublicKey
	TreasuryMint ed25519.PublicKey
}

func GetAuctionHouseAddress(program ed25519.PublicKey, args *GetAuctionHouseAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		auctionHousePrefix,
		args.Creator,
		args.TreasuryMint,
	)
}

type GetTreasuryAddressArgs struct {
	AuctionHouse ed25519.PublicKey
}

func GetTreasuryAddress(program ed25519.PublicKey, args *GetTreasuryAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		auctionHousePrefix,
		args.AuctionHouse,
		treasuryPrefix,
	)
}

type GetEscrowPaymentAddressArgs struct {
	AuctionHouse ed25519.PublicKey
	Wallet       ed25519.PublicKey
}

func GetEscrowPaymentAddress(program ed25519.PublicKey, args *GetEscrowPaymentAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		escrowPrefix,
		args.AuctionHouse,
		args.Wallet,
	)
}

type GetTradeStateAddressArgs struct {
	Wallet       ed25519.PublicKey
	AuctionHouse ed25519.PublicKey
	TokenAccount ed25519.PublicKey
	TreasuryMint ed25519.PublicKey
	TokenMint    ed25519.PublicKey
	TokenSize    uint64
	Price        uint64
}

func GetTradeStateAddress(program ed25519.PublicKey, args *GetTradeStateAddressArgs) (ed25519.PublicKey, uint8, error) {
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, args.TokenSize)

	price := make([]byte, 8)
	binary.LittleEndian.PutUint64(price, args.Price)

	return solana.FindProgramAddressAndBump(
		program,
		args.Wallet,
		args.AuctionHouse,
		args.TokenAccount,
		args.TreasuryMint,
		args.TokenMint,
		size,
		price,
	)
}

// TradeStatePair is the priced trade state and its zero price counterpart
// for the same wallet, token account and mint.
type TradeStatePair struct {
	Priced     ed25519.PublicKey
	PricedBump uint8
	Free       ed25519.PublicKey
	FreeBump   uint8
}

// GetTradeStatePair derives both trade states. The Price in args is used
// for the priced variant.
func GetTradeStatePair(program ed25519.PublicKey, args *GetTradeStateAddressArgs) (*TradeStatePair, error) {
	priced, pricedBump, err := GetTradeStateAddress(program, args)
	if err != nil {
		return nil, err
	}

	freeArgs := *args
	freeArgs.Price = 0
	free, freeBump, err := GetTradeStateAddress(program, &freeArgs)
	if err != nil {
		return nil, err
	}

	return &TradeStatePair{
		Priced:     priced,
		PricedBump: pricedBump,
		Free:       free,
		FreeBump:   freeBump,
	}, nil
}

type GetProgramAsSignerAddressArgs struct{}

func GetProgramAsSignerAddress(program ed25519.PublicKey, _ *GetProgramAsSignerAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		auctionHousePrefix,
		signerPrefix,
	)
}

type GetAuctionAddressArgs struct {
	AuctionHouse ed25519.PublicKey
	Seller       ed25519.PublicKey
	NftMint      ed25519.PublicKey
}

func GetAuctionAddress(program ed25519.PublicKey, args *GetAuctionAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		auctionPrefix,
		args.AuctionHouse,
		args.Seller,
		args.NftMint,
	)
}

type GetAuctionAuthorityAddressArgs struct {
	Seller       ed25519.PublicKey
	TreasuryMint ed25519.PublicKey
}

func GetAuctionAuthorityAddress(program ed25519.PublicKey, args *GetAuctionAuthorityAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		args.Seller,
		args.TreasuryMint,
	)
}

type GetBidAddressArgs struct {
	Auction ed25519.PublicKey
	Buyer   ed25519.PublicKey
}

func GetBidAddress(program ed25519.PublicKey, args *GetBidAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		bidPrefix,
		args.Auction,
		args.Buyer,
	)
}

type GetBidWalletAddressArgs struct {
	Auction ed25519.PublicKey
	Buyer   ed25519.PublicKey
}

func GetBidWalletAddress(program ed25519.PublicKey, args *GetBidWalletAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		program,
		bidWalletPrefix,
		args.Auction,
		args.Buyer,
	)
}
