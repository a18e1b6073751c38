package auction

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

// Validator checks operation preconditions against live ledger state. It
// holds no state besides its clock and start time tolerance, so the same
// ledger state always yields the same verdict.
//
// These checks fail fast on requests the program would reject. The program
// remains the authority: a precondition validated here may be stale by the
// time the transaction lands.
type Validator struct {
	now                func() time.Time
	startTimeTolerance time.Duration
}

func NewValidator(now func() time.Time, startTimeTolerance time.Duration) *Validator {
	return &Validator{
		now:                now,
		startTimeTolerance: startTimeTolerance,
	}
}

// ValidateCreateParams checks auction creation parameters without touching
// the ledger.
func (v *Validator) ValidateCreateParams(params *CreateAuctionParams) error {
	if len(params.NftMint) != ed25519.PublicKeySize {
		return errors.Wrap(ErrInvalidCreationParams, "nft mint is required")
	}

	earliest := v.now().Add(-v.startTimeTolerance)
	if params.StartTime.Before(earliest) {
		return errors.Wrapf(ErrInvalidCreationParams, "start time %s is in the past", params.StartTime.UTC().Format(time.RFC3339))
	}

	if params.StartingBid == 0 {
		return errors.Wrap(ErrInvalidCreationParams, "starting bid must be positive")
	}

	if params.TickSize == 0 {
		return errors.Wrap(ErrInvalidCreationParams, "tick size must be positive")
	}

	if params.BiddingPeriod < time.Second {
		return errors.Wrap(ErrInvalidCreationParams, "bidding period must be at least one second")
	}

	if params.BuyNowPrice != nil && *params.BuyNowPrice < params.StartingBid {
		return errors.Wrapf(ErrInvalidCreationParams, "buy now price %d is below starting bid %d", *params.BuyNowPrice, params.StartingBid)
	}

	return nil
}

// ValidateNftMint checks that mint describes a single indivisible token.
func (v *Validator) ValidateNftMint(ctx context.Context, fetcher AccountFetcher, mint ed25519.PublicKey) error {
	data, err := fetcher.GetAccount(ctx, mint)
	if err != nil {
		return classifyMissing(err, errors.Wrap(ErrIncompatibleAsset, "mint account not found"))
	}

	var state token.Mint
	if !state.Unmarshal(data) {
		return errors.Wrap(ErrIncompatibleAsset, "account is not a token mint")
	}
	if !state.IsNonFungible() {
		return errors.Wrapf(ErrIncompatibleAsset, "mint has supply %d and %d decimals", state.Supply, state.Decimals)
	}
	return nil
}

// ValidateMarketplace reads the auction house record and checks that it is
// the canonical auction house for its creator and treasury mint, and that it
// agrees with the caller's marketplace identities.
func (v *Validator) ValidateMarketplace(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace) (*auctionhouse.AuctionHouseAccount, error) {
	data, err := fetcher.GetAccount(ctx, marketplace.AuctionHouse)
	if err != nil {
		return nil, classifyMissing(err, errors.Wrap(ErrMarketplaceMismatch, "auction house not found"))
	}

	var house auctionhouse.AuctionHouseAccount
	if err := house.Unmarshal(data); err != nil {
		return nil, errors.Wrap(ErrMarketplaceMismatch, "account is not an auction house")
	}

	for _, field := range []struct {
		name             string
		expected, actual ed25519.PublicKey
	}{
		{"authority", marketplace.Authority, house.Authority},
		{"treasury mint", marketplace.TreasuryMint, house.TreasuryMint},
		{"fee account", marketplace.FeeAccount, house.FeeAccount},
	} {
		if !bytes.Equal(field.expected, field.actual) {
			return nil, errors.Wrapf(ErrMarketplaceMismatch, "%s is %s on chain", field.name, base58.Encode(field.actual))
		}
	}

	address, _, err := auctionhouse.GetAuctionHouseAddress(marketplace.Program, &auctionhouse.GetAuctionHouseAddressArgs{
		Creator:      house.Creator,
		TreasuryMint: house.TreasuryMint,
	})
	if err != nil {
		return nil, Classify(err)
	}
	if !bytes.Equal(address, marketplace.AuctionHouse) {
		return nil, errors.Wrap(ErrMarketplaceMismatch, "auction house is not owned by the marketplace program")
	}

	treasury, _, err := auctionhouse.GetTreasuryAddress(marketplace.Program, &auctionhouse.GetTreasuryAddressArgs{
		AuctionHouse: marketplace.AuctionHouse,
	})
	if err != nil {
		return nil, Classify(err)
	}
	if !bytes.Equal(treasury, house.Treasury) {
		return nil, errors.Wrap(ErrMarketplaceMismatch, "auction house treasury is not canonical")
	}

	return &house, nil
}

// ValidateBid checks that the auction accepts a bid at price and returns the
// auction.
func (v *Validator) ValidateBid(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace, auction ed25519.PublicKey, price uint64) (*auctionhouse.AuctionAccount, error) {
	state, err := fetchAuction(ctx, fetcher, marketplace, auction)
	if err != nil {
		return nil, err
	}

	if state.IsClosed(v.now().Unix()) {
		return nil, errors.Wrapf(ErrAuctionClosed, "auction is %s and ended at %d", state.Status, state.EndTime())
	}

	if state.BuyNowPrice != nil && price == *state.BuyNowPrice {
		return state, nil
	}

	reference := state.StartingBid
	if state.HighestBid != nil {
		highest, err := fetchBid(ctx, fetcher, marketplace, auction, state.HighestBid)
		if err != nil {
			return nil, err
		}
		reference = highest.Price
	}

	minimum := reference + state.TickSize
	if minimum < reference || price < minimum {
		return nil, errors.Wrapf(ErrBidBelowMinimumIncrement, "bid %d is below minimum %d", price, minimum)
	}

	return state, nil
}

// ValidateBuyNow checks that the auction can be bought outright and returns
// the auction.
func (v *Validator) ValidateBuyNow(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace, auction ed25519.PublicKey) (*auctionhouse.AuctionAccount, error) {
	state, err := fetchAuction(ctx, fetcher, marketplace, auction)
	if err != nil {
		return nil, err
	}

	if state.BuyNowPrice == nil {
		return nil, ErrBuyNowUnavailable
	}

	if state.IsClosed(v.now().Unix()) {
		return nil, errors.Wrapf(ErrAuctionClosed, "auction is %s and ended at %d", state.Status, state.EndTime())
	}

	return state, nil
}

// ValidateSettle checks that the auction has a winning bid and returns the
// auction and the bid.
func (v *Validator) ValidateSettle(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace, auction ed25519.PublicKey) (*auctionhouse.AuctionAccount, *auctionhouse.BidAccount, error) {
	state, err := fetchAuction(ctx, fetcher, marketplace, auction)
	if err != nil {
		return nil, nil, err
	}

	if state.HighestBid == nil {
		return nil, nil, ErrAuctionHasNoBids
	}

	bid, err := fetchBid(ctx, fetcher, marketplace, auction, state.HighestBid)
	if err != nil {
		return nil, nil, err
	}

	return state, bid, nil
}

func fetchAuction(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace, address ed25519.PublicKey) (*auctionhouse.AuctionAccount, error) {
	data, err := fetcher.GetAccount(ctx, address)
	if err != nil {
		return nil, classifyMissing(err, ErrAuctionDoesNotExist)
	}

	var state auctionhouse.AuctionAccount
	if err := state.Unmarshal(data); err != nil {
		return nil, errors.Wrap(ErrAuctionDoesNotExist, "account is not an auction")
	}

	if !bytes.Equal(state.AuctionHouse, marketplace.AuctionHouse) {
		return nil, errors.Wrap(ErrAuctionDoesNotExist, "auction belongs to a different auction house")
	}

	return &state, nil
}

func fetchBid(ctx context.Context, fetcher AccountFetcher, marketplace *Marketplace, auction, address ed25519.PublicKey) (*auctionhouse.BidAccount, error) {
	data, err := fetcher.GetAccount(ctx, address)
	if err != nil {
		return nil, classifyMissing(err, errors.Wrap(ErrAuctionHasNoBids, "highest bid record not found"))
	}

	var bid auctionhouse.BidAccount
	if err := bid.Unmarshal(data); err != nil {
		return nil, errors.Wrap(ErrAuctionHasNoBids, "highest bid is not a bid record")
	}

	if !bytes.Equal(bid.Auction, auction) {
		return nil, errors.Wrap(ErrAuctionHasNoBids, "highest bid belongs to a different auction")
	}

	expected, _, err := auctionhouse.GetBidAddress(marketplace.Program, &auctionhouse.GetBidAddressArgs{
		Auction: auction,
		Buyer:   bid.Buyer,
	})
	if err != nil {
		return nil, Classify(err)
	}
	if !bytes.Equal(expected, address) {
		return nil, errors.Wrap(ErrAuctionHasNoBids, "highest bid is not the bid record of its buyer")
	}

	return &bid, nil
}
