package auction

import (
	"context"
	"crypto/ed25519"

	"golang.org/x/sync/errgroup"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

type BuyNowParams struct {
	Auction ed25519.PublicKey
}

// ComposeBuyNow validates that the auction offers a buy now price and
// returns the instruction buying it outright on behalf of buyer.
func (c *Client) ComposeBuyNow(ctx context.Context, buyer ed25519.PublicKey, params *BuyNowParams) ([]solana.Instruction, error) {
	state, err := c.validator.ValidateBuyNow(ctx, c.ledger, c.marketplace, params.Auction)
	if err != nil {
		return nil, err
	}

	house, err := c.validator.ValidateMarketplace(ctx, c.ledger, c.marketplace)
	if err != nil {
		return nil, err
	}

	m := c.marketplace
	price := *state.BuyNowPrice
	rail := NewPaymentRail(house.TreasuryMint)

	var (
		custody             *auctionCustody
		buyerReceipt        ed25519.PublicKey
		escrowPayment       ed25519.PublicKey
		escrowPaymentBump   uint8
		programAsSigner     ed25519.PublicKey
		programAsSignerBump uint8
		metadata            ed25519.PublicKey
		creators            []tokenmetadata.Creator
	)

	g1, g1Ctx := errgroup.WithContext(ctx)
	g1.Go(func() (err error) {
		custody, err = deriveAuctionCustody(m, state.Seller, state.NftMint)
		return err
	})
	g1.Go(func() (err error) {
		buyerReceipt, err = token.GetAssociatedAccount(buyer, state.NftMint)
		return err
	})
	g1.Go(func() (err error) {
		escrowPayment, escrowPaymentBump, err = auctionhouse.GetEscrowPaymentAddress(m.Program, &auctionhouse.GetEscrowPaymentAddressArgs{
			AuctionHouse: m.AuctionHouse,
			Wallet:       buyer,
		})
		return err
	})
	g1.Go(func() (err error) {
		programAsSigner, programAsSignerBump, err = auctionhouse.GetProgramAsSignerAddress(m.Program, &auctionhouse.GetProgramAsSignerAddressArgs{})
		return err
	})
	g1.Go(func() (err error) {
		metadata, _, err = tokenmetadata.GetMetadataAddress(&tokenmetadata.GetMetadataAddressArgs{
			Mint: state.NftMint,
		})
		return err
	})
	g1.Go(func() (err error) {
		creators, err = c.metadata.GetCreators(g1Ctx, state.NftMint)
		return err
	})
	if err := g1.Wait(); err != nil {
		return nil, Classify(err)
	}

	var (
		auctionTradeStates  *auctionhouse.TradeStatePair
		buyerTradeState     ed25519.PublicKey
		buyerTradeStateBump uint8
		sellerReceipt       ed25519.PublicKey
		buyerPayment        ed25519.PublicKey
		auctionPayment      ed25519.PublicKey
		remainingAccounts   []solana.AccountMeta
	)

	var g2 errgroup.Group
	g2.Go(func() (err error) {
		auctionTradeStates, err = auctionhouse.GetTradeStatePair(m.Program, &auctionhouse.GetTradeStateAddressArgs{
			Wallet:       state.Seller,
			AuctionHouse: m.AuctionHouse,
			TokenAccount: custody.escrow,
			TreasuryMint: m.TreasuryMint,
			TokenMint:    state.NftMint,
			TokenSize:    1,
			Price:        price,
		})
		return err
	})
	g2.Go(func() (err error) {
		buyerTradeState, buyerTradeStateBump, err = auctionhouse.GetTradeStateAddress(m.Program, &auctionhouse.GetTradeStateAddressArgs{
			Wallet:       buyer,
			AuctionHouse: m.AuctionHouse,
			TokenAccount: custody.escrow,
			TreasuryMint: m.TreasuryMint,
			TokenMint:    state.NftMint,
			TokenSize:    1,
			Price:        price,
		})
		return err
	})
	g2.Go(func() (err error) {
		sellerReceipt, err = rail.PaymentAccount(state.Seller)
		return err
	})
	g2.Go(func() (err error) {
		buyerPayment, err = rail.PaymentAccount(buyer)
		return err
	})
	g2.Go(func() (err error) {
		auctionPayment, err = rail.PaymentAccount(custody.authority)
		return err
	})
	g2.Go(func() (err error) {
		remainingAccounts, err = rail.CreatorAccounts(creators)
		return err
	})
	if err := g2.Wait(); err != nil {
		return nil, Classify(err)
	}

	ixn := auctionhouse.NewBuyNowAuctionInstruction(
		m.Program,
		&auctionhouse.BuyNowAuctionInstructionAccounts{
			Buyer:                    buyer,
			Seller:                   state.Seller,
			Auction:                  params.Auction,
			AuctionAuthority:         custody.authority,
			AuctionEscrow:            custody.escrow,
			NftMint:                  state.NftMint,
			Metadata:                 metadata,
			TreasuryMint:             m.TreasuryMint,
			BuyerPayment:             buyerPayment,
			EscrowPayment:            escrowPayment,
			SellerPaymentReceipt:     sellerReceipt,
			AuctionPayment:           auctionPayment,
			BuyerReceiptTokenAccount: buyerReceipt,
			Authority:                m.Authority,
			AuctionHouse:             m.AuctionHouse,
			FeeAccount:               m.FeeAccount,
			Treasury:                 house.Treasury,
			AuctionTradeState:        auctionTradeStates.Priced,
			FreeTradeState:           auctionTradeStates.Free,
			BuyerTradeState:          buyerTradeState,
			ProgramAsSigner:          programAsSigner,
			RemainingAccounts:        remainingAccounts,
		},
		&auctionhouse.BuyNowAuctionInstructionArgs{
			EscrowPaymentBump:     escrowPaymentBump,
			AuctionTradeStateBump: auctionTradeStates.PricedBump,
			FreeTradeStateBump:    auctionTradeStates.FreeBump,
			BuyerTradeStateBump:   buyerTradeStateBump,
			ProgramAsSignerBump:   programAsSignerBump,
			AuctionAuthorityBump:  custody.authorityBump,
			Price:                 price,
		},
	)

	return []solana.Instruction{ixn}, nil
}
