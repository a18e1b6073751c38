package auction

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/code-payments/auction-house-client/pkg/solana"
)

// AccountFetcher reads raw account data. A missing account must be reported
// as solana.ErrNoAccountInfo. Any other error is considered transient.
type AccountFetcher interface {
	GetAccount(ctx context.Context, address ed25519.PublicKey) ([]byte, error)
}

// TransactionSender submits signed transactions and reports their status.
type TransactionSender interface {
	GetLatestBlockhash(ctx context.Context) (solana.Blockhash, error)
	SubmitTransaction(ctx context.Context, txn solana.Transaction) (solana.Signature, error)

	// GetSignatureStatus returns nil when the signature is not yet known.
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error)
}

type Ledger interface {
	AccountFetcher
	TransactionSender
}

type solanaLedger struct {
	log     *logrus.Entry
	conf    *conf
	client  solana.Client
	limiter *rate.Limiter
}

// NewSolanaLedger adapts a JSON-RPC client into a Ledger. Reads are rate
// limited according to the configured RPC read rate.
func NewSolanaLedger(client solana.Client, configProvider ConfigProvider) Ledger {
	conf := configProvider()

	readRate := conf.rpcReadRate.Get(context.Background())
	burst := int(readRate)
	if burst < 1 {
		burst = 1
	}

	return &solanaLedger{
		log:     logrus.StandardLogger().WithField("type", "auction/ledger"),
		conf:    conf,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(readRate), burst),
	}
}

func (l *solanaLedger) commitment(ctx context.Context) solana.Commitment {
	return solana.CommitmentFromString(l.conf.commitment.Get(ctx))
}

func (l *solanaLedger) GetAccount(ctx context.Context, address ed25519.PublicKey) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	info, err := l.client.GetAccountInfo(ctx, address, l.commitment(ctx))
	if err == solana.ErrNoAccountInfo {
		return nil, err
	} else if err != nil {
		return nil, upstreamFailure(errors.Wrapf(err, "failed to get account %s", base58.Encode(address)))
	}
	return info.Data, nil
}

func (l *solanaLedger) GetLatestBlockhash(ctx context.Context) (solana.Blockhash, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return solana.Blockhash{}, err
	}

	blockhash, err := l.client.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Blockhash{}, upstreamFailure(err)
	}
	return blockhash, nil
}

func (l *solanaLedger) SubmitTransaction(ctx context.Context, txn solana.Transaction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}

	sig, err := l.client.SubmitTransaction(ctx, txn, l.commitment(ctx))
	if err != nil {
		l.log.WithError(err).WithField("signature", sig.ToBase58()).Debug("failed to submit transaction")
	}
	return sig, err
}

func (l *solanaLedger) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	statuses, err := l.client.GetSignatureStatuses(ctx, []solana.Signature{sig})
	if err != nil {
		return nil, upstreamFailure(err)
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	return statuses[0], nil
}

// upstreamFailure marks err as ErrUpstreamFetchFailed unless the caller gave
// up first.
func upstreamFailure(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &upstreamError{cause: err}
}
