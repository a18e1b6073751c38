package auction

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/auction-house-client/pkg/retry"
	"github.com/code-payments/auction-house-client/pkg/retry/backoff"
	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/computebudget"
	"github.com/code-payments/auction-house-client/pkg/solana/memo"
)

const memoApp = "auction-house"

type Status uint8

const (
	StatusUnknown Status = iota
	StatusConfirmed
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// Result is the outcome of a submitted transaction. The signature is set as
// soon as the transaction has been signed, even when an error is returned.
type Result struct {
	Signature solana.Signature
	Status    Status
}

var (
	errNotConfirmed      = errors.New("transaction not yet confirmed")
	errSignerModifiedTxn = errors.New("signer modified the transaction message")
	errMissingSignature  = errors.New("signer did not sign the transaction")
)

// Submitter signs, submits and tracks a single transaction. Submitted
// transactions are never resubmitted: once the transaction has been sent,
// failures are reported with its signature so callers can track it.
type Submitter struct {
	log    *logrus.Entry
	conf   *conf
	sender TransactionSender
}

func NewSubmitter(sender TransactionSender, configProvider ConfigProvider) *Submitter {
	return &Submitter{
		log:    logrus.StandardLogger().WithField("type", "auction/submitter"),
		conf:   configProvider(),
		sender: sender,
	}
}

// Submit composes the instructions into one transaction paid for by signer,
// requests its signature and waits for the configured commitment.
func (s *Submitter) Submit(ctx context.Context, signer Signer, operation string, instructions ...solana.Instruction) (*Result, error) {
	log := s.log.WithField("operation", operation)

	instructions, err := s.decorate(ctx, operation, instructions)
	if err != nil {
		return nil, err
	}

	blockhash, err := s.sender.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, Classify(errors.Wrap(err, "failed to get latest blockhash"))
	}

	txn := solana.NewTransaction(signer.PublicKey(), instructions...)
	txn.SetBlockhash(blockhash)

	signedBytes, err := signer.Sign(ctx, txn.Marshal())
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	var signed solana.Transaction
	if err := signed.Unmarshal(signedBytes); err != nil {
		return nil, errors.Wrap(err, "signer returned an invalid transaction")
	}
	if !bytes.Equal(signed.Message.Marshal(), txn.Message.Marshal()) {
		return nil, errSignerModifiedTxn
	}
	if len(signed.Signatures) == 0 || signed.Signatures[0] == (solana.Signature{}) {
		return nil, errMissingSignature
	}

	result := &Result{
		Signature: signed.Signatures[0],
		Status:    StatusUnknown,
	}
	log = log.WithField("signature", result.Signature.ToBase58())

	// Abandoning before submission leaves nothing to track.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.sender.SubmitTransaction(ctx, signed); err != nil {
		var txErr *solana.TransactionError
		if errors.As(err, &txErr) {
			log.WithError(err).Info("transaction rejected in preflight")
			result.Status = StatusRejected
			return result, newTransactionRejectedError(result.Signature, txErr)
		}

		log.WithError(err).Warn("failure submitting transaction")
		return result, Classify(err)
	}

	log.Debug("transaction submitted")

	status, err := s.awaitConfirmation(ctx, result.Signature)
	if err != nil {
		log.WithError(err).Warn("transaction outcome unknown")
		return result, err
	}

	if status.ErrorResult != nil {
		log.WithError(status.ErrorResult).Info("transaction failed")
		result.Status = StatusRejected
		return result, newTransactionRejectedError(result.Signature, status.ErrorResult)
	}

	log.Debug("transaction confirmed")
	result.Status = StatusConfirmed
	return result, nil
}

// decorate prepends the configured priority fee and appends an operation
// memo. The composed instructions keep their relative order.
func (s *Submitter) decorate(ctx context.Context, operation string, instructions []solana.Instruction) ([]solana.Instruction, error) {
	var decorated []solana.Instruction

	computeUnitLimit := s.conf.computeUnitLimit.Get(ctx)
	computeUnitPrice := s.conf.computeUnitPrice.Get(ctx)
	if computeUnitLimit > 0 || computeUnitPrice > 0 {
		if computeUnitLimit == 0 {
			computeUnitLimit = computebudget.MaxComputeUnitLimit
		}
		if computeUnitLimit > computebudget.MaxComputeUnitLimit {
			return nil, computebudget.ErrInvalidComputeUnitLimit
		}

		priorityFee, err := computebudget.PriorityFee(uint32(computeUnitLimit), computeUnitPrice)
		if err != nil {
			return nil, err
		}
		decorated = append(decorated, priorityFee...)
	}

	decorated = append(decorated, instructions...)

	if s.conf.memoEnabled.Get(ctx) {
		memoIxn, err := memo.Instruction(memo.Tag(memoApp, operation))
		if err != nil {
			return nil, err
		}
		decorated = append(decorated, memoIxn)
	}

	return decorated, nil
}

// awaitConfirmation polls the signature status until it reaches the
// configured commitment, fails, or the confirmation timeout elapses.
func (s *Submitter) awaitConfirmation(ctx context.Context, sig solana.Signature) (*solana.SignatureStatus, error) {
	commitment := solana.CommitmentFromString(s.conf.commitment.Get(ctx))
	pollInterval := s.conf.confirmationPollInterval.Get(ctx)

	pollCtx, cancel := context.WithTimeout(ctx, s.conf.confirmationTimeout.Get(ctx))
	defer cancel()

	var status *solana.SignatureStatus
	_, err := retry.Retry(
		func() error {
			latest, err := s.sender.GetSignatureStatus(pollCtx, sig)
			if err != nil {
				return err
			}

			if latest == nil {
				return errNotConfirmed
			}
			if latest.ErrorResult == nil && !latest.Reached(commitment) {
				return errNotConfirmed
			}

			status = latest
			return nil
		},
		retry.BackoffContext(pollCtx, backoff.Constant(pollInterval), pollInterval),
	)
	if err == nil {
		return status, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if pollCtx.Err() != nil {
		return nil, ErrConfirmationTimeout
	}
	return nil, Classify(err)
}
