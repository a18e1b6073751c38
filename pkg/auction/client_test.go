package auction

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

func TestClient_CustomMetadataReader(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t, withBuyNowPrice(500))

	creators := []tokenmetadata.Creator{
		{Address: generateKey(t), Share: 50},
		{Address: generateKey(t), Share: 50},
	}

	client, err := NewClient(env.marketplace, env.ledger, &staticMetadataReader{creators: creators}, withManualTestOverrides(&testOverrides{}))
	require.NoError(t, err)
	client.validator = env.client.validator

	instructions, err := client.ComposeBuyNow(context.Background(), env.buyerKey(), &BuyNowParams{Auction: auction})
	require.NoError(t, err)
	require.Len(t, instructions[0].Accounts, 27)
	assertMeta(t, instructions[0].Accounts[25], creators[0].Address, false, true)
	assertMeta(t, instructions[0].Accounts[26], creators[1].Address, false, true)

	client.metadata = &staticMetadataReader{err: errors.New("metadata service unavailable")}
	_, err = client.ComposeBuyNow(context.Background(), env.buyerKey(), &BuyNowParams{Auction: auction})
	assert.True(t, errors.Is(err, ErrUpstreamFetchFailed))
}

func TestClient_CancelledDuringValidation(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := env.client.PlaceBid(ctx, NewKeypairSigner(env.buyer), &PlaceBidParams{
		Auction: auction,
		Price:   110,
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, result)
	assert.Empty(t, env.ledger.submittedTransactions())
}

func TestClient_RejectedBid(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)
	env.ledger.submitErr = solana.NewTransactionError(solana.TransactionErrorInsufficientFundsForFee)

	result, err := env.client.PlaceBid(context.Background(), NewKeypairSigner(env.buyer), &PlaceBidParams{
		Auction: auction,
		Price:   110,
	})

	var rejected *TransactionRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, "rejected", outcomeOf(result, err))
}

func TestClient_LogsPaymentRail(t *testing.T) {
	for _, tc := range []struct {
		treasuryMint ed25519.PublicKey
		expected     string
	}{
		{token.NativeMint, "native"},
		{generateKey(t), "token"},
	} {
		env := setupWithTreasuryMint(t, tc.treasuryMint)
		hook := logtest.NewGlobal()

		_, err := env.client.PlaceBid(context.Background(), NewKeypairSigner(env.buyer), &PlaceBidParams{
			Auction: generateKey(t),
			Price:   110,
		})
		require.True(t, errors.Is(err, ErrAuctionDoesNotExist))

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, tc.expected, entry.Data["payment_rail"])
		assert.Equal(t, "PlaceBid", entry.Data["method"])
	}
}

func TestOutcomeOf(t *testing.T) {
	for _, tc := range []struct {
		result   *Result
		err      error
		expected string
	}{
		{&Result{Status: StatusConfirmed}, nil, "confirmed"},
		{&Result{}, ErrConfirmationTimeout, "timeout"},
		{nil, Classify(errors.New("eof")), "upstream_failure"},
		{nil, context.Canceled, "cancelled"},
		{nil, errors.Wrap(ErrAuctionClosed, "ended"), "invalid"},
		{nil, ErrBuyNowUnavailable, "invalid"},
		{nil, errors.New("unexpected"), "unknown"},
	} {
		assert.Equal(t, tc.expected, outcomeOf(tc.result, tc.err), tc.err)
	}
}

type staticMetadataReader struct {
	creators []tokenmetadata.Creator
	err      error
}

func (r *staticMetadataReader) GetCreators(_ context.Context, _ ed25519.PublicKey) ([]tokenmetadata.Creator, error) {
	return r.creators, r.err
}
