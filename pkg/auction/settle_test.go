package auction

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
)

func TestComposeSettle(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)
	bidder := generateKey(t)
	bid := env.placeHighestBid(t, auction, bidder, 300)

	instructions, err := env.client.ComposeSettle(context.Background(), &SettleParams{Auction: auction})
	require.NoError(t, err)
	require.Len(t, instructions, 2)

	m := env.marketplace
	custody, err := deriveAuctionCustody(m, env.sellerKey(), env.nftMint)
	require.NoError(t, err)
	bidWallet, _, err := auctionhouse.GetBidWalletAddress(m.Program, &auctionhouse.GetBidWalletAddressArgs{
		Auction: auction,
		Buyer:   bidder,
	})
	require.NoError(t, err)
	escrowPayment, escrowPaymentBump, err := auctionhouse.GetEscrowPaymentAddress(m.Program, &auctionhouse.GetEscrowPaymentAddressArgs{
		AuctionHouse: m.AuctionHouse,
		Wallet:       bidWallet,
	})
	require.NoError(t, err)
	tradeStates, err := auctionhouse.GetTradeStatePair(m.Program, &auctionhouse.GetTradeStateAddressArgs{
		Wallet:       env.sellerKey(),
		AuctionHouse: m.AuctionHouse,
		TokenAccount: custody.escrow,
		TreasuryMint: m.TreasuryMint,
		TokenMint:    env.nftMint,
		TokenSize:    1,
		Price:        300,
	})
	require.NoError(t, err)
	buyerReceipt, err := token.GetAssociatedAccount(bidder, env.nftMint)
	require.NoError(t, err)

	executeSale := instructions[0]
	saleArgs, err := auctionhouse.ExecuteSaleInstructionArgsFromBinary(executeSale.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 300, saleArgs.BuyerPrice)
	assert.EqualValues(t, 1, saleArgs.TokenSize)
	assert.Equal(t, escrowPaymentBump, saleArgs.EscrowPaymentBump)
	assert.Equal(t, tradeStates.FreeBump, saleArgs.FreeTradeStateBump)
	assert.Equal(t, custody.authorityBump, saleArgs.AuctionAuthorityBump)

	require.Len(t, executeSale.Accounts, 26)
	assertMeta(t, executeSale.Accounts[0], bidder, false, true)
	assertMeta(t, executeSale.Accounts[1], env.sellerKey(), false, true)
	assertMeta(t, executeSale.Accounts[2], custody.escrow, false, true)
	assertMeta(t, executeSale.Accounts[6], escrowPayment, false, true)
	assertMeta(t, executeSale.Accounts[7], custody.authority, false, true)
	assertMeta(t, executeSale.Accounts[8], buyerReceipt, false, true)
	assertMeta(t, executeSale.Accounts[14], tradeStates.Priced, false, true)
	assertMeta(t, executeSale.Accounts[15], tradeStates.Free, false, true)
	assertMeta(t, executeSale.Accounts[17], bid, false, true)
	assertMeta(t, executeSale.Accounts[18], bidWallet, false, true)
	for _, meta := range executeSale.Accounts {
		assert.False(t, meta.IsSigner)
	}

	distribute := instructions[1]
	distributeArgs, err := auctionhouse.DistributeProceedsInstructionArgsFromBinary(distribute.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 300, distributeArgs.Amount)
	assert.Equal(t, custody.authorityBump, distributeArgs.AuctionAuthorityBump)
	assert.Equal(t, saleArgs.ProgramAsSignerBump, distributeArgs.ProgramAsSignerBump)

	require.Len(t, distribute.Accounts, 17)
	assertMeta(t, distribute.Accounts[0], env.sellerKey(), false, true)
	assertMeta(t, distribute.Accounts[1], env.sellerKey(), false, true)
	assertMeta(t, distribute.Accounts[4], custody.authority, false, true)
	assertMeta(t, distribute.Accounts[16], env.creator, false, true)
}

func TestComposeSettle_Ordering(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)
	env.placeHighestBid(t, auction, generateKey(t), 250)

	for i := 0; i < 10; i++ {
		instructions, err := env.client.ComposeSettle(context.Background(), &SettleParams{Auction: auction})
		require.NoError(t, err)
		require.Len(t, instructions, 2)

		_, err = auctionhouse.ExecuteSaleInstructionArgsFromBinary(instructions[0].Data)
		assert.NoError(t, err)
		_, err = auctionhouse.DistributeProceedsInstructionArgsFromBinary(instructions[1].Data)
		assert.NoError(t, err)

		txn := solana.NewTransaction(generateKey(t), instructions...)
		require.Len(t, txn.Message.Instructions, 2)
		assert.True(t, bytes.Equal(instructions[0].Data, txn.Message.Instructions[0].Data))
		assert.True(t, bytes.Equal(instructions[1].Data, txn.Message.Instructions[1].Data))
	}
}

func TestComposeSettle_TokenRail(t *testing.T) {
	mint := generateKey(t)
	env := setupWithTreasuryMint(t, mint)
	auction := env.createAuction(t)
	env.placeHighestBid(t, auction, generateKey(t), 300)

	instructions, err := env.client.ComposeSettle(context.Background(), &SettleParams{Auction: auction})
	require.NoError(t, err)

	custody, err := deriveAuctionCustody(env.marketplace, env.sellerKey(), env.nftMint)
	require.NoError(t, err)
	auctionPayment, err := token.GetAssociatedAccount(custody.authority, mint)
	require.NoError(t, err)
	sellerPayment, err := token.GetAssociatedAccount(env.sellerKey(), mint)
	require.NoError(t, err)

	assertMeta(t, instructions[0].Accounts[7], auctionPayment, false, true)
	assertMeta(t, instructions[1].Accounts[1], sellerPayment, false, true)
	assertMeta(t, instructions[1].Accounts[4], auctionPayment, false, true)
	require.Len(t, instructions[1].Accounts, 18)
}

func TestSettleAndDistributeProceeds_NoBids(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)

	result, err := env.client.SettleAndDistributeProceeds(context.Background(), NewKeypairSigner(generatePrivateKey(t)), &SettleParams{
		Auction: auction,
	})
	assert.Equal(t, ErrAuctionHasNoBids, err)
	assert.Nil(t, result)
	assert.Empty(t, env.ledger.submittedTransactions())
}

func TestSettleAndDistributeProceeds(t *testing.T) {
	env := setup(t)
	auction := env.createAuction(t)
	env.placeHighestBid(t, auction, generateKey(t), 300)
	env.ledger.setStatuses(confirmedStatus())

	payer := generatePrivateKey(t)
	result, err := env.client.SettleAndDistributeProceeds(context.Background(), NewKeypairSigner(payer), &SettleParams{
		Auction: auction,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)

	submitted := env.ledger.submittedTransactions()
	require.Len(t, submitted, 1)
	assert.EqualValues(t, payer.Public().(ed25519.PublicKey), submitted[0].Message.Accounts[0])
	assert.Len(t, submitted[0].Message.Instructions, 2)
}
