package auction

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/auction-house-client/pkg/metrics"
)

const (
	metricsComponentName = "auction.client"
	metricsPrefix        = "auction"

	createAuctionOperation = "create_auction"
	placeBidOperation      = "place_bid"
	buyNowOperation        = "buy_now"
	settleOperation        = "settle"

	operationEventName = "AuctionOperation"
)

// Client composes, validates and submits auction house transactions for a
// single marketplace.
type Client struct {
	log  *logrus.Entry
	conf *conf

	marketplace *Marketplace
	ledger      Ledger
	metadata    MetadataReader
	validator   *Validator
	submitter   *Submitter
}

// NewClient returns a Client for marketplace. When metadata is nil, creators
// are read from on-chain token metadata through ledger.
func NewClient(marketplace *Marketplace, ledger Ledger, metadata MetadataReader, configProvider ConfigProvider) (*Client, error) {
	if err := marketplace.Validate(); err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = NewOnChainMetadataReader(ledger)
	}

	conf := configProvider()
	return &Client{
		log:         logrus.StandardLogger().WithField("type", "auction/client"),
		conf:        conf,
		marketplace: marketplace,
		ledger:      ledger,
		metadata:    metadata,
		validator:   NewValidator(time.Now, conf.startTimeTolerance.Get(context.Background())),
		submitter:   NewSubmitter(ledger, configProvider),
	}, nil
}

// CreateAuction lists seller's NFT for auction and returns the auction's
// address along with the submission result.
func (c *Client) CreateAuction(ctx context.Context, seller Signer, params *CreateAuctionParams) (auction ed25519.PublicKey, result *Result, err error) {
	scope := c.begin(ctx, "CreateAuction", createAuctionOperation, logrus.Fields{
		"seller":   base58.Encode(seller.PublicKey()),
		"nft_mint": base58.Encode(params.NftMint),
	})
	defer func() { scope.end(result, err) }()

	instructions, auction, err := c.ComposeCreate(ctx, seller.PublicKey(), params)
	if err != nil {
		return nil, nil, err
	}

	result, err = c.submitter.Submit(ctx, seller, createAuctionOperation, instructions...)
	return auction, result, err
}

// PlaceBid bids params.Price on the auction on behalf of buyer.
func (c *Client) PlaceBid(ctx context.Context, buyer Signer, params *PlaceBidParams) (result *Result, err error) {
	scope := c.begin(ctx, "PlaceBid", placeBidOperation, logrus.Fields{
		"auction": base58.Encode(params.Auction),
		"buyer":   base58.Encode(buyer.PublicKey()),
		"price":   params.Price,
	})
	defer func() { scope.end(result, err) }()

	instructions, err := c.ComposeBid(ctx, buyer.PublicKey(), params)
	if err != nil {
		return nil, err
	}

	return c.submitter.Submit(ctx, buyer, placeBidOperation, instructions...)
}

// BuyNow buys the auctioned NFT at its buy now price on behalf of buyer.
func (c *Client) BuyNow(ctx context.Context, buyer Signer, params *BuyNowParams) (result *Result, err error) {
	scope := c.begin(ctx, "BuyNow", buyNowOperation, logrus.Fields{
		"auction": base58.Encode(params.Auction),
		"buyer":   base58.Encode(buyer.PublicKey()),
	})
	defer func() { scope.end(result, err) }()

	instructions, err := c.ComposeBuyNow(ctx, buyer.PublicKey(), params)
	if err != nil {
		return nil, err
	}

	return c.submitter.Submit(ctx, buyer, buyNowOperation, instructions...)
}

// SettleAndDistributeProceeds settles the auction's winning bid and pays
// out the proceeds in a single transaction paid for by payer.
func (c *Client) SettleAndDistributeProceeds(ctx context.Context, payer Signer, params *SettleParams) (result *Result, err error) {
	scope := c.begin(ctx, "SettleAndDistributeProceeds", settleOperation, logrus.Fields{
		"auction": base58.Encode(params.Auction),
		"payer":   base58.Encode(payer.PublicKey()),
	})
	defer func() { scope.end(result, err) }()

	instructions, err := c.ComposeSettle(ctx, params)
	if err != nil {
		return nil, err
	}

	return c.submitter.Submit(ctx, payer, settleOperation, instructions...)
}

// operationScope instruments one public operation from start to outcome.
type operationScope struct {
	ctx       context.Context
	log       *logrus.Entry
	operation string
	start     time.Time
	span      *metrics.Span
}

func (c *Client) begin(ctx context.Context, method, operation string, fields logrus.Fields) *operationScope {
	return &operationScope{
		ctx: ctx,
		log: c.log.WithFields(fields).WithFields(logrus.Fields{
			"method":       method,
			"payment_rail": railName(NewPaymentRail(c.marketplace.TreasuryMint)),
		}),
		operation: operation,
		start:     time.Now(),
		span:      metrics.StartSpan(ctx, metricsComponentName, method),
	}
}

func (s *operationScope) end(result *Result, err error) {
	outcome := outcomeOf(result, err)

	attributes := map[string]interface{}{}
	if result != nil {
		attributes["signature"] = result.Signature.ToBase58()
	}
	metrics.RecordOperation(s.ctx, metricsPrefix, operationEventName, metrics.Operation{
		Name:       s.operation,
		Outcome:    outcome,
		Duration:   time.Since(s.start),
		Attributes: attributes,
	})
	s.span.AddAttribute("outcome", outcome)
	s.span.End(err)

	log := s.log.WithField("outcome", outcome)
	switch {
	case err == nil:
		log.WithField("signature", result.Signature.ToBase58()).Debug("auction operation confirmed")
	case outcome == "upstream_failure" || outcome == "unknown":
		log.WithError(err).Warn("auction operation failed")
	default:
		log.WithError(err).Info("auction operation failed")
	}
}

func outcomeOf(result *Result, err error) string {
	var rejected *TransactionRejectedError
	switch {
	case err == nil && result != nil:
		return result.Status.String()
	case errors.As(err, &rejected):
		return "rejected"
	case errors.Is(err, ErrConfirmationTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamFetchFailed):
		return "upstream_failure"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}

	for _, validationErr := range []error{
		ErrAuctionDoesNotExist,
		ErrAuctionHasNoBids,
		ErrBuyNowUnavailable,
		ErrInvalidCreationParams,
		ErrBidBelowMinimumIncrement,
		ErrAuctionClosed,
		ErrIncompatibleAsset,
		ErrMarketplaceMismatch,
	} {
		if errors.Is(err, validationErr) {
			return "invalid"
		}
	}
	return "unknown"
}
