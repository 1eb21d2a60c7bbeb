package repositories

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// AdjustmentReader reads the balance override audit trail.
type AdjustmentReader interface {
	// ListAdjustmentsByAccount returns every adjustment of an account, newest first.
	ListAdjustmentsByAccount(ctx context.Context, accountID string) ([]domain.BalanceAdjustment, error)
}
