package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "meme-forge-backend/internal/common/errors"
	"meme-forge-backend/internal/features/payment/models"
	"meme-forge-backend/internal/platform/solana"
)

const (
	testSender    = "7nYabs9dUhvxYwdTnrWVBL9MYviKSfrEbdWCUbcBwCPc"
	testRecipient = "4YweNXQbjMMDnD2sBG5FSWDP5mnqeu1gmCm48r4WV9q3"
)

var testSignature = strings.Repeat("5", 88)

type fakeChain struct {
	calls int
	txFn  func(ctx context.Context, signature string) (*solana.Transaction, error)
}

func (f *fakeChain) GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error) {
	f.calls++
	return f.txFn(ctx, signature)
}

func newTestService(chain *fakeChain) *Service {
	return NewService(chain, Config{
		RecipientWallet: testRecipient,
		RequiredAmount:  decimal.RequireFromString("0.01"),
		Network:         "devnet",
	})
}

// transferTx builds a finalized two-party transfer where the sender paid
// preLamports-postLamports.
func transferTx(preLamports, postLamports uint64) *solana.Transaction {
	blockTime := time.Unix(1700000000, 0)
	return &solana.Transaction{
		Signature:    testSignature,
		Slot:         271828,
		BlockTime:    &blockTime,
		AccountKeys:  []string{testSender, testRecipient, "11111111111111111111111111111111"},
		PreBalances:  []uint64{preLamports, 0, 1},
		PostBalances: []uint64{postLamports, preLamports - postLamports, 1},
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func TestVerifyMissingParams(t *testing.T) {
	chain := &fakeChain{}
	svc := newTestService(chain)

	for _, req := range []*models.VerificationRequest{
		{},
		{TransactionSignature: testSignature},
		{UserWallet: testSender},
	} {
		_, err := svc.Verify(context.Background(), req)
		requireCode(t, err, apperrors.ErrCodeMissingParams)
	}
	require.Zero(t, chain.calls, "no RPC call for missing params")
}

func TestVerifyShortSignature(t *testing.T) {
	chain := &fakeChain{}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: "tooshort",
		UserWallet:           testSender,
	})
	requireCode(t, err, apperrors.ErrCodeInvalidSignature)
	require.Zero(t, chain.calls, "no RPC call for malformed signature")
}

func TestVerifySuccess(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return transferTx(1_000_000_000, 980_000_000), nil // paid 0.02 SOL
	}}
	svc := newTestService(chain)

	result, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	require.NoError(t, err)
	require.True(t, result.Verified)
	require.True(t, result.Amount.Equal(decimal.RequireFromString("0.02")), "paid %s", result.Amount)
	require.True(t, result.RequiredAmount.Equal(decimal.RequireFromString("0.01")))
	require.Equal(t, testSignature, result.Signature)
	require.Equal(t, testSender, result.Sender)
	require.Equal(t, testRecipient, result.Recipient)
	require.Equal(t, int64(1700000000), result.Timestamp)
	require.Equal(t, "x402", result.Protocol)
	require.Equal(t, 1, chain.calls)
}

func TestVerifyInsufficientAmount(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return transferTx(1_000_000_000, 995_000_000), nil // paid 0.005 SOL
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	appErr := requireCode(t, err, apperrors.ErrCodeInsufficientAmount)

	paid, ok := appErr.Details["paid"].(decimal.Decimal)
	require.True(t, ok)
	require.True(t, paid.Equal(decimal.RequireFromString("0.005")), "paid %s", paid)
	required, ok := appErr.Details["required"].(decimal.Decimal)
	require.True(t, ok)
	require.True(t, required.Equal(decimal.RequireFromString("0.01")))
}

func TestVerifyAmountOverride(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return transferTx(1_000_000_000, 980_000_000), nil // paid 0.02 SOL
	}}
	svc := newTestService(chain)

	override := decimal.RequireFromString("0.05")
	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
		Amount:               &override,
	})
	requireCode(t, err, apperrors.ErrCodeInsufficientAmount)
}

func TestVerifySenderMismatch(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return transferTx(1_000_000_000, 980_000_000), nil
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           "SomeOtherWallet11111111111111111111111111111",
	})
	appErr := requireCode(t, err, apperrors.ErrCodeSenderMismatch)
	require.Equal(t, testSender, appErr.Details["actual"])
}

func TestVerifyRecipientMismatch(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		tx := transferTx(1_000_000_000, 980_000_000)
		tx.AccountKeys[1] = "WrongRecipient111111111111111111111111111111"
		return tx, nil
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	appErr := requireCode(t, err, apperrors.ErrCodeRecipientMismatch)
	require.Equal(t, testRecipient, appErr.Details["expected"])
}

func TestVerifyTransactionNotFound(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return nil, solana.ErrTxNotFound
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	requireCode(t, err, apperrors.ErrCodeTransactionNotFound)
}

func TestVerifyTransactionFailed(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		tx := transferTx(1_000_000_000, 980_000_000)
		tx.ExecutionErr = "InstructionError: [0, InsufficientFunds]"
		return tx, nil
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	appErr := requireCode(t, err, apperrors.ErrCodeTransactionFailed)
	require.Contains(t, appErr.Details["details"], "InsufficientFunds")
}

func TestVerifyNoBalanceData(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		tx := transferTx(1_000_000_000, 980_000_000)
		tx.PreBalances = nil
		tx.PostBalances = nil
		return tx, nil
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	requireCode(t, err, apperrors.ErrCodeNoBalanceData)
}

func TestVerifyRPCFailure(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return nil, errors.New("rpc: connection refused")
	}}
	svc := newTestService(chain)

	_, err := svc.Verify(context.Background(), &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	})
	requireCode(t, err, apperrors.ErrCodeVerificationError)
}

func TestVerifyIsIdempotent(t *testing.T) {
	chain := &fakeChain{txFn: func(ctx context.Context, signature string) (*solana.Transaction, error) {
		return transferTx(1_000_000_000, 980_000_000), nil
	}}
	svc := newTestService(chain)

	req := &models.VerificationRequest{
		TransactionSignature: testSignature,
		UserWallet:           testSender,
	}
	first, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Verify(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second, "identical ledger state yields identical results")
	require.Equal(t, 2, chain.calls)
}
