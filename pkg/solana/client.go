package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/auction-house-client/pkg/retry"
	"github.com/code-payments/auction-house-client/pkg/retry/backoff"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005

	blockhashTTL = 2 * time.Second
)

// Client is the subset of the Solana JSON RPC API used to build and track
// transactions. Every method returns as soon as ctx is done.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (AccountInfo, error)
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)
	GetSignatureStatuses(ctx context.Context, sigs []Signature) ([]*SignatureStatus, error)
	SubmitTransaction(ctx context.Context, txn Transaction, commitment Commitment) (Signature, error)
}

var (
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ReadRetries retries reads that were rate limited or hit an unavailable
// node. Transactions are never resubmitted.
type ReadRetries struct {
	MaxAttempts uint
	Backoff     backoff.Strategy
	MaxBackoff  time.Duration
}

type client struct {
	log         *logrus.Entry
	rpc         jsonrpc.RPCClient
	readRetries ReadRetries

	blockhashMu      sync.Mutex
	blockhash        Blockhash
	blockhashExpires time.Time
}

// New returns a client using the specified endpoint. Each call is attempted
// once.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return newClient(endpoint, opts, ReadRetries{})
}

// NewWithReadRetries returns a client that retries failed reads according to
// retries. Backoff between attempts is cut short when the call's context is
// done.
func NewWithReadRetries(endpoint string, opts *jsonrpc.RPCClientOpts, retries ReadRetries) Client {
	return newClient(endpoint, opts, retries)
}

func newClient(endpoint string, opts *jsonrpc.RPCClientOpts, retries ReadRetries) *client {
	if retries.Backoff == nil {
		retries.Backoff = backoff.BinaryExponential(250 * time.Millisecond)
	}
	if retries.MaxBackoff == 0 {
		retries.MaxBackoff = 5 * time.Second
	}

	return &client{
		log:         logrus.StandardLogger().WithField("type", "solana/client"),
		rpc:         jsonrpc.NewClientWithOpts(endpoint, opts),
		readRetries: retries,
	}
}

// call makes a single request. Rate limits and unhealthy nodes are reported
// as ErrRateLimited and ErrServiceUnavailable. Other RPC errors are returned
// as *jsonrpc.RPCError.
func (c *client) call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// out must not be written once an abandoned call has returned.
	done := make(chan error, 1)
	var raw json.RawMessage
	go func() {
		done <- c.rpc.CallFor(&raw, method, params...)
	}()

	var err error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err = <-done:
	}

	if err == nil {
		return json.Unmarshal(raw, out)
	}

	switch e := err.(type) {
	case *jsonrpc.HTTPError:
		if e.Code == http.StatusTooManyRequests {
			c.log.WithField("method", method).Warn("rate limited")
			return errors.Wrap(ErrRateLimited, method)
		}
		if e.Code >= http.StatusInternalServerError {
			return errors.Wrapf(ErrServiceUnavailable, "%s: http %d", method, e.Code)
		}
	case *jsonrpc.RPCError:
		if e.Code == rpcNodeUnhealthyCode {
			return errors.Wrapf(ErrServiceUnavailable, "%s: %s", method, e.Message)
		}
	}
	return err
}

// read is call, retried when the client was built with ReadRetries.
func (c *client) read(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if c.readRetries.MaxAttempts <= 1 {
		return c.call(ctx, out, method, params...)
	}

	_, err := retry.Retry(
		func() error {
			return c.call(ctx, out, method, params...)
		},
		retry.RetriableErrors(ErrRateLimited, ErrServiceUnavailable),
		retry.Limit(c.readRetries.MaxAttempts),
		retry.BackoffContext(ctx, c.readRetries.Backoff, c.readRetries.MaxBackoff),
	)
	return err
}

// GetLatestBlockhash returns a recent blockhash. Results are reused for a
// short, jittered window so bursts of transactions share one lookup.
func (c *client) GetLatestBlockhash(ctx context.Context) (Blockhash, error) {
	c.blockhashMu.Lock()
	defer c.blockhashMu.Unlock()

	if time.Now().Before(c.blockhashExpires) {
		return c.blockhash, nil
	}

	var resp struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.read(ctx, &resp, "getLatestBlockhash"); err != nil {
		return Blockhash{}, errors.Wrap(err, "getLatestBlockhash() failed to send request")
	}

	decoded, err := base58.Decode(resp.Value.Blockhash)
	if err != nil || len(decoded) != len(c.blockhash) {
		return Blockhash{}, errors.Errorf("invalid blockhash in response: %q", resp.Value.Blockhash)
	}

	copy(c.blockhash[:], decoded)
	jitter := time.Duration(rand.Int63n(int64(blockhashTTL / 2)))
	c.blockhashExpires = time.Now().Add(blockhashTTL/2 + jitter)

	return c.blockhash, nil
}

// SubmitTransaction sends the transaction once, with preflight simulation
// enabled. Simulation failures are returned as a *TransactionError.
func (c *client) SubmitTransaction(ctx context.Context, txn Transaction, commitment Commitment) (Signature, error) {
	sig := txn.Signatures[0]

	config := struct {
		SkipPreflight       bool   `json:"skipPreflight"`
		PreflightCommitment string `json:"preflightCommitment"`
		Encoding            string `json:"encoding"`
	}{
		PreflightCommitment: commitment.Commitment,
		Encoding:            "base64",
	}

	var ignored string
	err := c.call(ctx, &ignored, "sendTransaction", base64.StdEncoding.EncodeToString(txn.Marshal()), config)
	if err == nil {
		return sig, nil
	}

	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sig, ctxErr
		}
		return sig, errors.Wrap(err, "sendTransaction() failed to send request")
	}
	if txErr, parseErr := ParseRPCError(rpcErr); parseErr == nil && txErr != nil {
		c.log.WithField("signature", sig.ToBase58()).WithError(txErr).Debug("transaction rejected in preflight")
		return sig, txErr
	}
	return sig, err
}

func (c *client) GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (AccountInfo, error) {
	config := struct {
		Commitment string `json:"commitment"`
		Encoding   string `json:"encoding"`
	}{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp struct {
		Value *struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}
	if err := c.read(ctx, &resp, "getAccountInfo", base58.Encode(account), config); err != nil {
		return AccountInfo{}, errors.Wrap(err, "getAccountInfo() failed to send request")
	}
	if resp.Value == nil {
		return AccountInfo{}, ErrNoAccountInfo
	}

	owner, err := base58.Decode(resp.Value.Owner)
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "invalid base58 encoded owner")
	}
	if len(resp.Value.Data) == 0 {
		return AccountInfo{}, errors.New("missing account data in response")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Value.Data[0])
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "invalid base64 encoded data")
	}

	return AccountInfo{
		Data:       data,
		Owner:      owner,
		Lamports:   resp.Value.Lamports,
		Executable: resp.Value.Executable,
	}, nil
}

// GetSignatureStatuses returns one status per signature, nil for those the
// cluster has no record of.
func (c *client) GetSignatureStatuses(ctx context.Context, sigs []Signature) ([]*SignatureStatus, error) {
	encoded := make([]string, len(sigs))
	for i := range sigs {
		encoded[i] = sigs[i].ToBase58()
	}

	config := struct {
		SearchTransactionHistory bool `json:"searchTransactionHistory"`
	}{
		SearchTransactionHistory: true,
	}

	var resp struct {
		Value []*struct {
			Slot               uint64          `json:"slot"`
			Confirmations      *int            `json:"confirmations"`
			ConfirmationStatus string          `json:"confirmationStatus"`
			Err                json.RawMessage `json:"err"`
		} `json:"value"`
	}
	if err := c.read(ctx, &resp, "getSignatureStatuses", encoded, config); err != nil {
		return nil, errors.Wrap(err, "getSignatureStatuses() failed to send request")
	}

	statuses := make([]*SignatureStatus, len(sigs))
	for i, v := range resp.Value {
		if v == nil || i >= len(statuses) {
			continue
		}

		status := &SignatureStatus{
			Slot:               v.Slot,
			Confirmations:      v.Confirmations,
			ConfirmationStatus: v.ConfirmationStatus,
		}

		var raw interface{}
		if len(v.Err) > 0 {
			if err := json.Unmarshal(v.Err, &raw); err != nil {
				return nil, errors.Wrap(err, "failed to decode transaction error")
			}
		}
		txErr, err := ParseTransactionError(raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse transaction error")
		}
		status.ErrorResult = txErr

		statuses[i] = status
	}

	return statuses, nil
}
