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

type SettleParams struct {
	Auction ed25519.PublicKey
}

// ComposeSettle returns the instructions settling the auction's winning bid
// and paying out the proceeds. The sale must execute before proceeds are
// distributed, so both instructions are always submitted together in that
// order.
func (c *Client) ComposeSettle(ctx context.Context, params *SettleParams) ([]solana.Instruction, error) {
	state, bid, err := c.validator.ValidateSettle(ctx, c.ledger, c.marketplace, params.Auction)
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
		custody             *auctionCustody
		bidWallet           ed25519.PublicKey
		programAsSigner     ed25519.PublicKey
		programAsSignerBump uint8
		buyerReceipt        ed25519.PublicKey
		metadata            ed25519.PublicKey
		creators            []tokenmetadata.Creator
	)

	g1, g1Ctx := errgroup.WithContext(ctx)
	g1.Go(func() (err error) {
		custody, err = deriveAuctionCustody(m, state.Seller, state.NftMint)
		return err
	})
	g1.Go(func() (err error) {
		bidWallet, _, err = auctionhouse.GetBidWalletAddress(m.Program, &auctionhouse.GetBidWalletAddressArgs{
			Auction: params.Auction,
			Buyer:   bid.Buyer,
		})
		return err
	})
	g1.Go(func() (err error) {
		programAsSigner, programAsSignerBump, err = auctionhouse.GetProgramAsSignerAddress(m.Program, &auctionhouse.GetProgramAsSignerAddressArgs{})
		return err
	})
	g1.Go(func() (err error) {
		buyerReceipt, err = token.GetAssociatedAccount(bid.Buyer, state.NftMint)
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
		escrowPayment      ed25519.PublicKey
		escrowPaymentBump  uint8
		bidWalletReceipt   ed25519.PublicKey
		auctionTradeStates *auctionhouse.TradeStatePair
		buyerTradeState    ed25519.PublicKey
		auctionPayment     ed25519.PublicKey
		sellerPayment      ed25519.PublicKey
		remainingAccounts  []solana.AccountMeta
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
		bidWalletReceipt, err = token.GetAssociatedAccount(bidWallet, state.NftMint)
		return err
	})
	g2.Go(func() (err error) {
		auctionTradeStates, err = auctionhouse.GetTradeStatePair(m.Program, &auctionhouse.GetTradeStateAddressArgs{
			Wallet:       state.Seller,
			AuctionHouse: m.AuctionHouse,
			TokenAccount: custody.escrow,
			TreasuryMint: m.TreasuryMint,
			TokenMint:    state.NftMint,
			TokenSize:    1,
			Price:        bid.Price,
		})
		return err
	})
	g2.Go(func() (err error) {
		buyerTradeState, _, err = auctionhouse.GetTradeStateAddress(m.Program, &auctionhouse.GetTradeStateAddressArgs{
			Wallet:       bidWallet,
			AuctionHouse: m.AuctionHouse,
			TokenAccount: custody.escrow,
			TreasuryMint: m.TreasuryMint,
			TokenMint:    state.NftMint,
			TokenSize:    1,
			Price:        bid.Price,
		})
		return err
	})
	g2.Go(func() (err error) {
		auctionPayment, err = rail.PaymentAccount(custody.authority)
		return err
	})
	g2.Go(func() (err error) {
		sellerPayment, err = rail.PaymentAccount(state.Seller)
		return err
	})
	g2.Go(func() (err error) {
		remainingAccounts, err = rail.CreatorAccounts(creators)
		return err
	})
	if err := g2.Wait(); err != nil {
		return nil, Classify(err)
	}

	executeSale := auctionhouse.NewExecuteSaleInstruction(
		m.Program,
		&auctionhouse.ExecuteSaleInstructionAccounts{
			Buyer:                    bid.Buyer,
			Seller:                   state.Seller,
			AuctionEscrow:            custody.escrow,
			NftMint:                  state.NftMint,
			Metadata:                 metadata,
			TreasuryMint:             m.TreasuryMint,
			EscrowPayment:            escrowPayment,
			AuctionPayment:           auctionPayment,
			BuyerReceiptTokenAccount: buyerReceipt,
			Authority:                m.Authority,
			AuctionHouse:             m.AuctionHouse,
			FeeAccount:               m.FeeAccount,
			Treasury:                 house.Treasury,
			BuyerTradeState:          buyerTradeState,
			AuctionTradeState:        auctionTradeStates.Priced,
			FreeTradeState:           auctionTradeStates.Free,
			Auction:                  params.Auction,
			Bid:                      state.HighestBid,
			BidWallet:                bidWallet,
			BidWalletReceipt:         bidWalletReceipt,
			AuctionAuthority:         custody.authority,
			ProgramAsSigner:          programAsSigner,
		},
		&auctionhouse.ExecuteSaleInstructionArgs{
			EscrowPaymentBump:    escrowPaymentBump,
			FreeTradeStateBump:   auctionTradeStates.FreeBump,
			ProgramAsSignerBump:  programAsSignerBump,
			AuctionAuthorityBump: custody.authorityBump,
			BuyerPrice:           bid.Price,
			TokenSize:            1,
		},
	)

	distributeProceeds := auctionhouse.NewDistributeProceedsInstruction(
		m.Program,
		&auctionhouse.DistributeProceedsInstructionAccounts{
			Seller:            state.Seller,
			SellerPayment:     sellerPayment,
			Auction:           params.Auction,
			AuctionAuthority:  custody.authority,
			AuctionPayment:    auctionPayment,
			NftMint:           state.NftMint,
			Metadata:          metadata,
			TreasuryMint:      m.TreasuryMint,
			Authority:         m.Authority,
			AuctionHouse:      m.AuctionHouse,
			FeeAccount:        m.FeeAccount,
			Treasury:          house.Treasury,
			ProgramAsSigner:   programAsSigner,
			RemainingAccounts: remainingAccounts,
		},
		&auctionhouse.DistributeProceedsInstructionArgs{
			AuctionAuthorityBump: custody.authorityBump,
			ProgramAsSignerBump:  programAsSignerBump,
			Amount:               bid.Price,
		},
	)

	return []solana.Instruction{executeSale, distributeProceeds}, nil
}
