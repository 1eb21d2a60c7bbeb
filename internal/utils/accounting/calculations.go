package accounting

import (
	"fmt"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits a balance or amount may carry.
const MaxAmountScale = 8

// HasValidScale reports whether d has at most MaxAmountScale fractional digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MaxAmountScale))
}

// ValidateAmount checks a transaction amount: strictly positive, at most MaxAmountScale decimals.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidAmount)
	}
	if !HasValidScale(amount) {
		return fmt.Errorf("%w: amount supports at most %d decimal places", apperrors.ErrInvalidAmount, MaxAmountScale)
	}
	return nil
}

// ValidateBalance checks an override target: non-negative, at most MaxAmountScale decimals.
func ValidateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", apperrors.ErrInvalidAmount)
	}
	if !HasValidScale(balance) {
		return fmt.Errorf("%w: balance supports at most %d decimal places", apperrors.ErrInvalidAmount, MaxAmountScale)
	}
	return nil
}

// ApplyEffect returns the balance after approving txn. A withdrawal larger than
// balance fails with apperrors.ErrInsufficientFunds.
func ApplyEffect(balance decimal.Decimal, txn domain.Transaction) (decimal.Decimal, error) {
	switch txn.Kind {
	case domain.Deposit:
		return balance.Add(txn.Amount), nil
	case domain.Withdrawal:
		if txn.Amount.GreaterThan(balance) {
			return balance, fmt.Errorf("%w: withdrawal of %s exceeds balance %s", apperrors.ErrInsufficientFunds, txn.Amount, balance)
		}
		return balance.Sub(txn.Amount), nil
	default:
		return balance, fmt.Errorf("unknown transaction kind '%s' for transaction %d", txn.Kind, txn.TransactionID)
	}
}

// Reconcile checks balance == approved deposits - approved withdrawals + sum of adjustment deltas.
// Declined and pending transactions contribute nothing.
func Reconcile(account domain.Account, decided []domain.Transaction, adjustments []domain.BalanceAdjustment) domain.Reconciliation {
	deposits := decimal.Zero
	withdrawals := decimal.Zero
	for _, txn := range decided {
		if txn.Status != domain.Approved {
			continue
		}
		switch txn.Kind {
		case domain.Deposit:
			deposits = deposits.Add(txn.Amount)
		case domain.Withdrawal:
			withdrawals = withdrawals.Add(txn.Amount)
		}
	}

	adjusted := decimal.Zero
	for _, adj := range adjustments {
		adjusted = adjusted.Add(adj.Delta)
	}

	expected := deposits.Sub(withdrawals).Add(adjusted)
	return domain.Reconciliation{
		AccountID:           account.AccountID,
		ApprovedDeposits:    deposits,
		ApprovedWithdrawals: withdrawals,
		AdjustmentTotal:     adjusted,
		ExpectedBalance:     expected,
		ActualBalance:       account.Balance,
		Consistent:          expected.Equal(account.Balance),
	}
}
