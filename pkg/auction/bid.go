package auction

import (
	"context"
	"crypto/ed25519"

	"golang.org/x/sync/errgroup"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

type PlaceBidParams struct {
	Auction ed25519.PublicKey
	Price   uint64
}

// ComposeBid validates the bid against the live auction and returns the
// instruction placing it on behalf of buyer.
func (c *Client) ComposeBid(ctx context.Context, buyer ed25519.PublicKey, params *PlaceBidParams) ([]solana.Instruction, error) {
	state, err := c.validator.ValidateBid(ctx, c.ledger, c.marketplace, params.Auction, params.Price)
	if err != nil {
		return nil, err
	}

	house, err := c.validator.ValidateMarketplace(ctx, c.ledger, c.marketplace)
	if err != nil {
		return nil, err
	}

	m := c.marketplace
	rail := NewPaymentRail(house.TreasuryMint)

	var (
		bidWallet      ed25519.PublicKey
		bidWalletBump  uint8
		bid            ed25519.PublicKey
		paymentAccount ed25519.PublicKey
		auctionEscrow  ed25519.PublicKey
	)

	var g1 errgroup.Group
	g1.Go(func() (err error) {
		bidWallet, bidWalletBump, err = auctionhouse.GetBidWalletAddress(m.Program, &auctionhouse.GetBidWalletAddressArgs{
			Auction: params.Auction,
			Buyer:   buyer,
		})
		return err
	})
	g1.Go(func() (err error) {
		bid, _, err = auctionhouse.GetBidAddress(m.Program, &auctionhouse.GetBidAddressArgs{
			Auction: params.Auction,
			Buyer:   buyer,
		})
		return err
	})
	g1.Go(func() (err error) {
		paymentAccount, err = rail.PaymentAccount(buyer)
		return err
	})
	g1.Go(func() error {
		custody, err := deriveAuctionCustody(m, state.Seller, state.NftMint)
		if err != nil {
			return err
		}
		auctionEscrow = custody.escrow
		return nil
	})
	if err := g1.Wait(); err != nil {
		return nil, Classify(err)
	}

	var (
		escrowPayment     ed25519.PublicKey
		escrowPaymentBump uint8
		tradeState        ed25519.PublicKey
		tradeStateBump    uint8
	)

	var g2 errgroup.Group
	g2.Go(func() (err error) {
		escrowPayment, escrowPaymentBump, err = auctionhouse.GetEscrowPaymentAddress(m.Program, &auctionhouse.GetEscrowPaymentAddressArgs{
			AuctionHouse: m.AuctionHouse,
			Wallet:       bidWallet,
		})
		return err
	})
	g2.Go(func() (err error) {
		tradeState, tradeStateBump, err = auctionhouse.GetTradeStateAddress(m.Program, &auctionhouse.GetTradeStateAddressArgs{
			Wallet:       bidWallet,
			AuctionHouse: m.AuctionHouse,
			TokenAccount: auctionEscrow,
			TreasuryMint: m.TreasuryMint,
			TokenMint:    state.NftMint,
			TokenSize:    1,
			Price:        params.Price,
		})
		return err
	})
	if err := g2.Wait(); err != nil {
		return nil, Classify(err)
	}

	ixn := auctionhouse.NewPlaceBidInstruction(
		m.Program,
		&auctionhouse.PlaceBidInstructionAccounts{
			Buyer:           buyer,
			PaymentAccount:  paymentAccount,
			BidWallet:       bidWallet,
			Bid:             bid,
			Auction:         params.Auction,
			AuctionEscrow:   auctionEscrow,
			NftMint:         state.NftMint,
			TreasuryMint:    m.TreasuryMint,
			EscrowPayment:   escrowPayment,
			Authority:       m.Authority,
			AuctionHouse:    m.AuctionHouse,
			FeeAccount:      m.FeeAccount,
			BuyerTradeState: tradeState,
		},
		&auctionhouse.PlaceBidInstructionArgs{
			TradeStateBump:    tradeStateBump,
			EscrowPaymentBump: escrowPaymentBump,
			BidWalletBump:     bidWalletBump,
			Price:             params.Price,
		},
	)

	return []solana.Instruction{ixn}, nil
}

// auctionCustody is the auction authority and the token account it uses to
// custody the auctioned NFT.
type auctionCustody struct {
	authority     ed25519.PublicKey
	authorityBump uint8
	escrow        ed25519.PublicKey
}

func deriveAuctionCustody(m *Marketplace, seller, nftMint ed25519.PublicKey) (*auctionCustody, error) {
	authority, authorityBump, err := auctionhouse.GetAuctionAuthorityAddress(m.Program, &auctionhouse.GetAuctionAuthorityAddressArgs{
		Seller:       seller,
		TreasuryMint: m.TreasuryMint,
	})
	if err != nil {
		return nil, err
	}

	escrow, err := token.GetAssociatedAccount(authority, nftMint)
	if err != nil {
		return nil, err
	}

	return &auctionCustody{
		authority:     authority,
		authorityBump: authorityBump,
		escrow:        escrow,
	}, nil
}
