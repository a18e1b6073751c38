package auction

import (
	"context"
	"crypto/ed25519"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

type CreateAuctionParams struct {
	NftMint       ed25519.PublicKey
	StartingBid   uint64
	StartTime     time.Time
	BiddingPeriod time.Duration
	TickSize      uint64
	BuyNowPrice   *uint64
}

// ComposeCreate validates params and returns the instruction creating an
// auction for seller's NFT, along with the auction's address.
func (c *Client) ComposeCreate(ctx context.Context, seller ed25519.PublicKey, params *CreateAuctionParams) ([]solana.Instruction, ed25519.PublicKey, error) {
	if err := c.validator.ValidateCreateParams(params); err != nil {
		return nil, nil, err
	}

	if err := c.validator.ValidateNftMint(ctx, c.ledger, params.NftMint); err != nil {
		return nil, nil, err
	}

	if _, err := c.validator.ValidateMarketplace(ctx, c.ledger, c.marketplace); err != nil {
		return nil, nil, err
	}

	m := c.marketplace

	var (
		auction              ed25519.PublicKey
		auctionBump          uint8
		auctionAuthority     ed25519.PublicKey
		auctionAuthorityBump uint8
		auctionEscrow        ed25519.PublicKey
		sellerTokenAccount   ed25519.PublicKey
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		auction, auctionBump, err = auctionhouse.GetAuctionAddress(m.Program, &auctionhouse.GetAuctionAddressArgs{
			AuctionHouse: m.AuctionHouse,
			Seller:       seller,
			NftMint:      params.NftMint,
		})
		return err
	})
	g.Go(func() error {
		custody, err := deriveAuctionCustody(m, seller, params.NftMint)
		if err != nil {
			return err
		}
		auctionAuthority, auctionAuthorityBump, auctionEscrow = custody.authority, custody.authorityBump, custody.escrow
		return nil
	})
	g.Go(func() (err error) {
		sellerTokenAccount, err = token.GetAssociatedAccount(seller, params.NftMint)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, Classify(err)
	}

	ixn := auctionhouse.NewCreateAuctionInstruction(
		m.Program,
		&auctionhouse.CreateAuctionInstructionAccounts{
			Seller:             seller,
			AuctionHouse:       m.AuctionHouse,
			Auction:            auction,
			AuctionAuthority:   auctionAuthority,
			NftMint:            params.NftMint,
			SellerTokenAccount: sellerTokenAccount,
			AuctionEscrow:      auctionEscrow,
			TreasuryMint:       m.TreasuryMint,
		},
		&auctionhouse.CreateAuctionInstructionArgs{
			AuctionBump:   auctionBump,
			AuthorityBump: auctionAuthorityBump,
			StartingBid:   params.StartingBid,
			StartTime:     params.StartTime.Unix(),
			BiddingPeriod: uint64(params.BiddingPeriod / time.Second),
			TickSize:      params.TickSize,
			BuyNowPrice:   params.BuyNowPrice,
		},
	)

	return []solana.Instruction{ixn}, auction, nil
}
