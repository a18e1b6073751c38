package auction

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

type memoryLedger struct {
	mu sync.Mutex

	accounts    map[string][]byte
	fetchErrors map[string]error
	fetches     map[string]int

	blockhash      solana.Blockhash
	blockhashCalls int

	submitted []solana.Transaction
	submitErr error

	// statuses are returned in order, repeating the last one once exhausted.
	statuses    []*solana.SignatureStatus
	statusErr   error
	statusCalls int
}

func newMemoryLedger() *memoryLedger {
	l := &memoryLedger{
		accounts:    make(map[string][]byte),
		fetchErrors: make(map[string]error),
		fetches:     make(map[string]int),
	}
	copy(l.blockhash[:], []byte("memory-ledger-recent-blockhash.."))
	return l
}

func (l *memoryLedger) setAccount(address ed25519.PublicKey, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts[base58.Encode(address)] = data
}

func (l *memoryLedger) removeAccount(address ed25519.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.accounts, base58.Encode(address))
}

func (l *memoryLedger) account(address ed25519.PublicKey) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.accounts[base58.Encode(address)]
}

func (l *memoryLedger) setFetchError(address ed25519.PublicKey, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fetchErrors[base58.Encode(address)] = err
}

func (l *memoryLedger) setStatuses(statuses ...*solana.SignatureStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statuses = statuses
}

func (l *memoryLedger) fetchCount(address ed25519.PublicKey) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.fetches[base58.Encode(address)]
}

func (l *memoryLedger) totalFetches() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total int
	for _, count := range l.fetches {
		total += count
	}
	return total
}

func (l *memoryLedger) networkCalls() int {
	total := l.totalFetches()

	l.mu.Lock()
	defer l.mu.Unlock()

	return total + l.blockhashCalls + len(l.submitted) + l.statusCalls
}

func (l *memoryLedger) submittedTransactions() []solana.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]solana.Transaction(nil), l.submitted...)
}

func (l *memoryLedger) GetAccount(ctx context.Context, address ed25519.PublicKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := base58.Encode(address)
	l.fetches[key]++

	if err, ok := l.fetchErrors[key]; ok {
		return nil, err
	}

	data, ok := l.accounts[key]
	if !ok {
		return nil, solana.ErrNoAccountInfo
	}
	return append([]byte(nil), data...), nil
}

func (l *memoryLedger) GetLatestBlockhash(ctx context.Context) (solana.Blockhash, error) {
	if err := ctx.Err(); err != nil {
		return solana.Blockhash{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.blockhashCalls++
	return l.blockhash, nil
}

func (l *memoryLedger) SubmitTransaction(ctx context.Context, txn solana.Transaction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.submitted = append(l.submitted, txn)
	if l.submitErr != nil {
		return txn.Signatures[0], l.submitErr
	}
	return txn.Signatures[0], nil
}

func (l *memoryLedger) GetSignatureStatus(ctx context.Context, _ solana.Signature) (*solana.SignatureStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.statusCalls++
	if l.statusErr != nil {
		return nil, l.statusErr
	}
	if len(l.statuses) == 0 {
		return nil, nil
	}

	i := l.statusCalls - 1
	if i >= len(l.statuses) {
		i = len(l.statuses) - 1
	}
	return l.statuses[i], nil
}

var testNow = time.Unix(1_700_000_000, 0)

type testEnv struct {
	ledger      *memoryLedger
	client      *Client
	marketplace *Marketplace

	seller  ed25519.PrivateKey
	buyer   ed25519.PrivateKey
	nftMint ed25519.PublicKey
	creator ed25519.PublicKey
}

func setup(t *testing.T) *testEnv {
	return setupWithTreasuryMint(t, token.NativeMint)
}

func setupWithTreasuryMint(t *testing.T, treasuryMint ed25519.PublicKey) *testEnv {
	authority := generateKey(t)

	auctionHouse, _, err := auctionhouse.GetAuctionHouseAddress(auctionhouse.PROGRAM_ID, &auctionhouse.GetAuctionHouseAddressArgs{
		Creator:      authority,
		TreasuryMint: treasuryMint,
	})
	require.NoError(t, err)

	env := &testEnv{
		ledger: newMemoryLedger(),
		marketplace: &Marketplace{
			Program:      auctionhouse.PROGRAM_ID,
			AuctionHouse: auctionHouse,
			Authority:    authority,
			TreasuryMint: treasuryMint,
			FeeAccount:   generateKey(t),
		},
		seller:  generatePrivateKey(t),
		buyer:   generatePrivateKey(t),
		nftMint: generateKey(t),
		creator: generateKey(t),
	}

	env.client, err = NewClient(env.marketplace, env.ledger, nil, withManualTestOverrides(&testOverrides{
		confirmationTimeout:      250 * time.Millisecond,
		confirmationPollInterval: 5 * time.Millisecond,
		startTimeTolerance:       30 * time.Second,
	}))
	require.NoError(t, err)
	env.client.validator = NewValidator(func() time.Time { return testNow }, 30*time.Second)

	env.ledger.setAccount(auctionHouse, env.auctionHouseAccount(t).Marshal())

	env.ledger.setAccount(env.nftMint, (&token.Mint{
		Supply:        1,
		Decimals:      0,
		IsInitialized: true,
	}).Marshal())

	metadata, _, err := tokenmetadata.GetMetadataAddress(&tokenmetadata.GetMetadataAddressArgs{
		Mint: env.nftMint,
	})
	require.NoError(t, err)
	env.ledger.setAccount(metadata, (&tokenmetadata.MetadataAccount{
		UpdateAuthority:      env.creator,
		Mint:                 env.nftMint,
		Name:                 "Test Asset",
		Symbol:               "TEST",
		Uri:                  "https://example.com/asset.json",
		SellerFeeBasisPoints: 500,
		Creators: []tokenmetadata.Creator{
			{Address: env.creator, Verified: true, Share: 100},
		},
	}).Marshal())

	return env
}

// auctionHouseAccount returns the on-chain record matching the marketplace.
func (e *testEnv) auctionHouseAccount(t *testing.T) *auctionhouse.AuctionHouseAccount {
	m := e.marketplace

	_, bump, err := auctionhouse.GetAuctionHouseAddress(m.Program, &auctionhouse.GetAuctionHouseAddressArgs{
		Creator:      m.Authority,
		TreasuryMint: m.TreasuryMint,
	})
	require.NoError(t, err)

	treasury, treasuryBump, err := auctionhouse.GetTreasuryAddress(m.Program, &auctionhouse.GetTreasuryAddressArgs{
		AuctionHouse: m.AuctionHouse,
	})
	require.NoError(t, err)

	return &auctionhouse.AuctionHouseAccount{
		FeeAccount:                    m.FeeAccount,
		Treasury:                      treasury,
		TreasuryWithdrawalDestination: m.Authority,
		FeeWithdrawalDestination:      m.Authority,
		TreasuryMint:                  m.TreasuryMint,
		Authority:                     m.Authority,
		Creator:                       m.Authority,
		Bump:                          bump,
		TreasuryBump:                  treasuryBump,
		SellerFeeBasisPoints:          250,
	}
}

func (e *testEnv) sellerKey() ed25519.PublicKey {
	return e.seller.Public().(ed25519.PublicKey)
}

func (e *testEnv) buyerKey() ed25519.PublicKey {
	return e.buyer.Public().(ed25519.PublicKey)
}

type auctionOption func(*auctionhouse.AuctionAccount)

func withBuyNowPrice(price uint64) auctionOption {
	return func(a *auctionhouse.AuctionAccount) {
		a.BuyNowPrice = &price
	}
}

func withStatus(status auctionhouse.AuctionStatus) auctionOption {
	return func(a *auctionhouse.AuctionAccount) {
		a.Status = status
	}
}

func withStartTime(startTime int64) auctionOption {
	return func(a *auctionhouse.AuctionAccount) {
		a.StartTime = startTime
	}
}

// createAuction stores an active auction with a starting bid of 100 and a
// tick size of 10, returning its address.
func (e *testEnv) createAuction(t *testing.T, opts ...auctionOption) ed25519.PublicKey {
	address, bump, err := auctionhouse.GetAuctionAddress(e.marketplace.Program, &auctionhouse.GetAuctionAddressArgs{
		AuctionHouse: e.marketplace.AuctionHouse,
		Seller:       e.sellerKey(),
		NftMint:      e.nftMint,
	})
	require.NoError(t, err)

	state := &auctionhouse.AuctionAccount{
		AuctionHouse:  e.marketplace.AuctionHouse,
		Seller:        e.sellerKey(),
		NftMint:       e.nftMint,
		StartTime:     testNow.Unix() - 60,
		BiddingPeriod: 3600,
		StartingBid:   100,
		TickSize:      10,
		Status:        auctionhouse.AuctionStatusActive,
		Bump:          bump,
	}
	for _, opt := range opts {
		opt(state)
	}

	e.ledger.setAccount(address, state.Marshal())
	return address
}

// placeHighestBid stores a bid record from bidder and marks it as the
// auction's highest bid.
func (e *testEnv) placeHighestBid(t *testing.T, auction, bidder ed25519.PublicKey, price uint64) ed25519.PublicKey {
	bid, bump, err := auctionhouse.GetBidAddress(e.marketplace.Program, &auctionhouse.GetBidAddressArgs{
		Auction: auction,
		Buyer:   bidder,
	})
	require.NoError(t, err)

	e.ledger.setAccount(bid, (&auctionhouse.BidAccount{
		Auction: auction,
		Buyer:   bidder,
		Price:   price,
		Bump:    bump,
	}).Marshal())

	var state auctionhouse.AuctionAccount
	require.NoError(t, state.Unmarshal(e.ledger.account(auction)))
	state.HighestBid = bid
	e.ledger.setAccount(auction, state.Marshal())

	return bid
}

func assertMeta(t *testing.T, meta solana.AccountMeta, key ed25519.PublicKey, isSigner, isWritable bool) {
	assert.EqualValues(t, key, meta.PublicKey)
	assert.Equal(t, isSigner, meta.IsSigner)
	assert.Equal(t, isWritable, meta.IsWritable)
}

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func generatePrivateKey(t *testing.T) ed25519.PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}
