package auction

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
)

var (
	ErrAuctionDoesNotExist   = errors.New("auction does not exist")
	ErrAuctionHasNoBids      = errors.New("auction has no bids")
	ErrBuyNowUnavailable     = errors.New("auction has no buy now price")
	ErrInvalidCreationParams = errors.New("invalid auction creation parameters")
	ErrDerivationExhausted   = errors.New("no canonical address found for seeds")
	ErrConfirmationTimeout   = errors.New("timed out waiting for transaction confirmation")
	ErrUpstreamFetchFailed   = errors.New("upstream fetch failed")

	ErrBidBelowMinimumIncrement = errors.New("bid is below the minimum increment")
	ErrAuctionClosed            = errors.New("auction is closed")
	ErrIncompatibleAsset        = errors.New("asset is not a non-fungible token mint")
	ErrMarketplaceMismatch      = errors.New("marketplace does not match the on-chain auction house")
)

// TransactionRejectedError is returned when the ledger rejects a submitted
// transaction, either in preflight or after inclusion.
type TransactionRejectedError struct {
	Signature solana.Signature
	Reason    string

	// ProgramError is set when the failing instruction returned a known
	// auction house error code.
	ProgramError *auctionhouse.AuctionHouseError

	cause error
}

func (e *TransactionRejectedError) Error() string {
	return "transaction rejected: " + e.Reason
}

func (e *TransactionRejectedError) Unwrap() error {
	return e.cause
}

func newTransactionRejectedError(sig solana.Signature, txErr *solana.TransactionError) *TransactionRejectedError {
	rejected := &TransactionRejectedError{
		Signature: sig,
		Reason:    txErr.Error(),
		cause:     txErr,
	}

	instructionErr := txErr.InstructionError()
	if instructionErr == nil {
		return rejected
	}

	custom := instructionErr.CustomError()
	if custom == nil {
		return rejected
	}

	if programErr, ok := auctionhouse.ErrorFromCode(int(*custom)); ok {
		rejected.ProgramError = &programErr
		rejected.Reason = fmt.Sprintf("instruction %d: %s", instructionErr.Index, programErr.Error())
	}
	return rejected
}

type upstreamError struct {
	cause error
}

func (e *upstreamError) Error() string {
	return ErrUpstreamFetchFailed.Error() + ": " + e.cause.Error()
}

func (e *upstreamError) Unwrap() error {
	return e.cause
}

func (e *upstreamError) Is(target error) bool {
	return target == ErrUpstreamFetchFailed
}

var domainErrors = []error{
	ErrAuctionDoesNotExist,
	ErrAuctionHasNoBids,
	ErrBuyNowUnavailable,
	ErrInvalidCreationParams,
	ErrDerivationExhausted,
	ErrConfirmationTimeout,
	ErrUpstreamFetchFailed,
	ErrBidBelowMinimumIncrement,
	ErrAuctionClosed,
	ErrIncompatibleAsset,
	ErrMarketplaceMismatch,
}

// Classify maps an error raised by the ledger, the deriver or a collaborator
// into the auction error taxonomy. Errors already in the taxonomy and
// context errors are returned unchanged. Anything unrecognized is treated as
// a transient upstream failure.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}

	var rejected *TransactionRejectedError
	if errors.As(err, &rejected) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, solana.ErrDerivationExhausted) {
		return errors.Wrap(ErrDerivationExhausted, err.Error())
	}

	var txErr *solana.TransactionError
	if errors.As(err, &txErr) {
		return newTransactionRejectedError(solana.Signature{}, txErr)
	}

	var instructionErr solana.InstructionError
	if errors.As(err, &instructionErr) {
		txErr, convErr := solana.TransactionErrorFromInstructionError(&instructionErr)
		if convErr == nil {
			return newTransactionRejectedError(solana.Signature{}, txErr)
		}
		return &TransactionRejectedError{Reason: instructionErr.Error(), cause: err}
	}

	return &upstreamError{cause: err}
}

// classifyMissing maps a missing account to notFound. Other errors are
// classified normally.
func classifyMissing(err error, notFound error) error {
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return notFound
	}
	return Classify(err)
}
