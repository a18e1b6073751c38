package auction

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
	"github.com/code-payments/auction-house-client/pkg/solana/computebudget"
	"github.com/code-payments/auction-house-client/pkg/solana/memo"
)

func TestSubmit_Confirmed(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.setStatuses(nil, processedStatus(), confirmedStatus())

	submitter := newTestSubmitter(ledger, &testOverrides{})
	payer := generatePrivateKey(t)
	ixn := testInstruction(t)

	result, err := submitter.Submit(context.Background(), NewKeypairSigner(payer), "test", ixn)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.Equal(t, 3, ledger.statusCalls)

	submitted := ledger.submittedTransactions()
	require.Len(t, submitted, 1)

	txn := submitted[0]
	assert.Equal(t, ledger.blockhash, txn.Message.RecentBlockhash)
	assert.EqualValues(t, payer.Public().(ed25519.PublicKey), txn.Message.Accounts[0])
	assert.True(t, ed25519.Verify(payer.Public().(ed25519.PublicKey), txn.Message.Marshal(), result.Signature[:]))
	require.Len(t, txn.Message.Instructions, 1)
	assert.Equal(t, ixn.Data, txn.Message.Instructions[0].Data)
}

func TestSubmit_RejectedAfterInclusion(t *testing.T) {
	txErr, err := solana.TransactionErrorFromInstructionError(&solana.InstructionError{
		Index: 0,
		Err:   solana.CustomError(auctionhouse.ErrBidTooLow),
	})
	require.NoError(t, err)

	ledger := newMemoryLedger()
	ledger.setStatuses(&solana.SignatureStatus{
		Slot:               10,
		ErrorResult:        txErr,
		ConfirmationStatus: "confirmed",
	})

	submitter := newTestSubmitter(ledger, &testOverrides{})
	result, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, StatusRejected, result.Status)

	var rejected *TransactionRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, result.Signature, rejected.Signature)
	require.NotNil(t, rejected.ProgramError)
	assert.Equal(t, auctionhouse.ErrBidTooLow, *rejected.ProgramError)
	assert.Contains(t, rejected.Reason, "BidTooLow")
}

func TestSubmit_RejectedInPreflight(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.submitErr = solana.NewTransactionError(solana.TransactionErrorBlockhashNotFound)

	submitter := newTestSubmitter(ledger, &testOverrides{})
	result, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))

	var rejected *TransactionRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Nil(t, rejected.ProgramError)
	assert.Equal(t, string(solana.TransactionErrorBlockhashNotFound), rejected.Reason)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Zero(t, ledger.statusCalls)
}

func TestSubmit_SubmissionFailure(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.submitErr = errors.New("connection refused")

	submitter := newTestSubmitter(ledger, &testOverrides{})
	result, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))
	assert.True(t, errors.Is(err, ErrUpstreamFetchFailed))
	require.NotNil(t, result)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.NotEqual(t, solana.Signature{}, result.Signature)
}

func TestSubmit_ConfirmationTimeout(t *testing.T) {
	ledger := newMemoryLedger()

	submitter := newTestSubmitter(ledger, &testOverrides{
		confirmationTimeout: 50 * time.Millisecond,
	})
	result, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))
	assert.Equal(t, ErrConfirmationTimeout, err)
	require.NotNil(t, result)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.NotEqual(t, solana.Signature{}, result.Signature)

	// Timed out transactions are never resubmitted.
	assert.Len(t, ledger.submittedTransactions(), 1)
	assert.True(t, ledger.statusCalls > 1)
}

func TestSubmit_CancelledBeforeSubmission(t *testing.T) {
	ledger := newMemoryLedger()
	submitter := newTestSubmitter(ledger, &testOverrides{})

	ctx, cancel := context.WithCancel(context.Background())
	signer := &funcSigner{
		key: generatePrivateKey(t),
		sign: func(s *funcSigner, unsigned []byte) ([]byte, error) {
			cancel()
			return s.signWithKey(unsigned)
		},
	}

	result, err := submitter.Submit(ctx, signer, "test", testInstruction(t))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, result)
	assert.Empty(t, ledger.submittedTransactions())
}

func TestSubmit_CancelledAfterSubmission(t *testing.T) {
	ledger := newMemoryLedger()
	submitter := newTestSubmitter(ledger, &testOverrides{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result, err := submitter.Submit(ctx, NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	require.NotNil(t, result)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Len(t, ledger.submittedTransactions(), 1)
}

func TestSubmit_InvalidSigner(t *testing.T) {
	for _, tc := range []struct {
		name string
		sign func(s *funcSigner, unsigned []byte) ([]byte, error)
		err  error
	}{
		{
			name: "unsigned",
			sign: func(_ *funcSigner, unsigned []byte) ([]byte, error) {
				return unsigned, nil
			},
			err: errMissingSignature,
		},
		{
			name: "modified",
			sign: func(s *funcSigner, unsigned []byte) ([]byte, error) {
				var txn solana.Transaction
				if err := txn.Unmarshal(unsigned); err != nil {
					return nil, err
				}
				txn.Message.Instructions[0].Data = []byte("tampered")
				if err := txn.Sign(s.key); err != nil {
					return nil, err
				}
				return txn.Marshal(), nil
			},
			err: errSignerModifiedTxn,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newMemoryLedger()
			submitter := newTestSubmitter(ledger, &testOverrides{})

			signer := &funcSigner{key: generatePrivateKey(t), sign: tc.sign}
			_, err := submitter.Submit(context.Background(), signer, "test", testInstruction(t))
			assert.Equal(t, tc.err, err)
			assert.Empty(t, ledger.submittedTransactions())
		})
	}
}

func TestSubmit_SignerFailure(t *testing.T) {
	ledger := newMemoryLedger()
	submitter := newTestSubmitter(ledger, &testOverrides{})

	signErr := errors.New("user declined")
	signer := &funcSigner{
		key: generatePrivateKey(t),
		sign: func(*funcSigner, []byte) ([]byte, error) {
			return nil, signErr
		},
	}

	_, err := submitter.Submit(context.Background(), signer, "test", testInstruction(t))
	assert.Equal(t, signErr, errors.Cause(err))
	assert.Empty(t, ledger.submittedTransactions())
}

func TestSubmit_Decorations(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.setStatuses(confirmedStatus())

	submitter := newTestSubmitter(ledger, &testOverrides{
		computeUnitPrice: 1_000,
		memoEnabled:      true,
	})

	first, second := testInstruction(t), testInstruction(t)
	_, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), placeBidOperation, first, second)
	require.NoError(t, err)

	submitted := ledger.submittedTransactions()
	require.Len(t, submitted, 1)
	msg := submitted[0].Message
	require.Len(t, msg.Instructions, 5)

	programOf := func(i int) ed25519.PublicKey {
		return msg.Accounts[msg.Instructions[i].ProgramIndex]
	}

	assert.EqualValues(t, computebudget.ProgramKey, programOf(0))
	limit, err := computebudget.ParseSetComputeUnitLimitIxnData(msg.Instructions[0].Data)
	require.NoError(t, err)
	assert.EqualValues(t, computebudget.MaxComputeUnitLimit, limit)

	price, err := computebudget.ParseSetComputeUnitPriceIxnData(msg.Instructions[1].Data)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000, price)

	assert.True(t, bytes.Equal(first.Data, msg.Instructions[2].Data))
	assert.True(t, bytes.Equal(second.Data, msg.Instructions[3].Data))

	decompiled, err := memo.DecompileMemo(msg, 4)
	require.NoError(t, err)
	assert.Equal(t, "auction-house:place_bid", string(decompiled.Data))
}

func TestSubmit_InvalidComputeUnitLimit(t *testing.T) {
	ledger := newMemoryLedger()
	submitter := newTestSubmitter(ledger, &testOverrides{
		computeUnitLimit: computebudget.MaxComputeUnitLimit + 1,
	})

	_, err := submitter.Submit(context.Background(), NewKeypairSigner(generatePrivateKey(t)), "test", testInstruction(t))
	assert.Equal(t, computebudget.ErrInvalidComputeUnitLimit, err)
	assert.Zero(t, ledger.networkCalls())
}

func newTestSubmitter(ledger *memoryLedger, overrides *testOverrides) *Submitter {
	if overrides.confirmationTimeout == 0 {
		overrides.confirmationTimeout = time.Second
	}
	if overrides.confirmationPollInterval == 0 {
		overrides.confirmationPollInterval = 2 * time.Millisecond
	}
	return NewSubmitter(ledger, withManualTestOverrides(overrides))
}

func testInstruction(t *testing.T) solana.Instruction {
	return solana.NewInstruction(
		generateKey(t),
		generateKey(t),
		solana.NewAccountMeta(generateKey(t), false),
	)
}

func confirmedStatus() *solana.SignatureStatus {
	confirmations := 1
	return &solana.SignatureStatus{
		Slot:               100,
		Confirmations:      &confirmations,
		ConfirmationStatus: "confirmed",
	}
}

func processedStatus() *solana.SignatureStatus {
	confirmations := 0
	return &solana.SignatureStatus{
		Slot:               100,
		Confirmations:      &confirmations,
		ConfirmationStatus: "processed",
	}
}

type funcSigner struct {
	key  ed25519.PrivateKey
	sign func(s *funcSigner, unsigned []byte) ([]byte, error)
}

func (s *funcSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *funcSigner) Sign(_ context.Context, unsigned []byte) ([]byte, error) {
	return s.sign(s, unsigned)
}

func (s *funcSigner) signWithKey(unsigned []byte) ([]byte, error) {
	return NewKeypairSigner(s.key).Sign(context.Background(), unsigned)
}
