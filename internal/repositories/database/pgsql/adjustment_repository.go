package pgsql

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/SscSPs/brokerdesk/internal/models"
	"github.com/SscSPs/brokerdesk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adjustmentColumns = `adjustment_id, account_id, previous_balance, new_balance, delta, reason, adjusted_by, created_at`

type PgxAdjustmentRepository struct {
	BaseRepository
}

func newPgxAdjustmentRepository(pool *pgxpool.Pool) portsrepo.AdjustmentReader {
	return &PgxAdjustmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdjustmentReader = (*PgxAdjustmentRepository)(nil)

func scanAdjustment(row pgx.Row) (domain.BalanceAdjustment, error) {
	var m models.BalanceAdjustment
	err := row.Scan(
		&m.AdjustmentID,
		&m.AccountID,
		&m.PreviousBalance,
		&m.NewBalance,
		&m.Delta,
		&m.Reason,
		&m.AdjustedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.BalanceAdjustment{}, err
	}
	return mapping.ToDomainBalanceAdjustment(m), nil
}

// ListAdjustmentsByAccount returns the override history of an account, newest first.
func (r *PgxAdjustmentRepository) ListAdjustmentsByAccount(ctx context.Context, accountID string) ([]domain.BalanceAdjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM balance_adjustments
		WHERE account_id = $1
		ORDER BY created_at DESC, adjustment_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, storageErr(err, "failed to list adjustments for account %s", accountID)
	}
	defer rows.Close()

	adjustments := make([]domain.BalanceAdjustment, 0)
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan adjustment row")
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "error iterating adjustment rows")
	}
	return adjustments, nil
}
