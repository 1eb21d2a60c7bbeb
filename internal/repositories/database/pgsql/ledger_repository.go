package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/SscSPs/brokerdesk/internal/models"
	"github.com/SscSPs/brokerdesk/internal/utils/mapping"
	"github.com/SscSPs/brokerdesk/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, account_id, kind, amount, auxiliary, status, created_at, decided_at, decided_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Kind,
		&m.Amount,
		&m.Auxiliary,
		&m.Status,
		&m.CreatedAt,
		&m.DecidedAt,
		&m.DecidedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan transaction row")
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "error iterating transaction rows")
	}
	return txns, nil
}

// InsertPendingTransaction stores a new pending request. The id comes from the sequence.
func (r *PgxLedgerRepository) InsertPendingTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	txn.Status = domain.Pending
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (account_id, kind, amount, auxiliary, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING ` + transactionColumns + `;
	`
	saved, err := scanTransaction(r.Pool.QueryRow(ctx, query, m.AccountID, m.Kind, m.Amount, m.Auxiliary))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
		}
		return nil, storageErr(err, "failed to insert transaction for account %s", m.AccountID)
	}
	return &saved, nil
}

// FindTransactionByID retrieves a transaction by id.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, storageErr(err, "failed to find transaction %d", transactionID)
	}
	return &txn, nil
}

// ListTransactionsByAccount pages through an account's transactions newest first.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE account_id = $1 AND (created_at, transaction_id) < ($2, $3)
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, cursorAt, cursorID, limit+1)
	} else {
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE account_id = $1
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, accountID, limit+1)
	}
	if err != nil {
		return nil, nil, storageErr(err, "failed to list transactions for account %s", accountID)
	}

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

// ListPendingTransactions returns the admin review queue, oldest first.
func (r *PgxLedgerRepository) ListPendingTransactions(ctx context.Context, accountID *string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = 'pending' AND ($1::uuid IS NULL OR account_id = $1::uuid)
		ORDER BY created_at, transaction_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, storageErr(err, "failed to list pending transactions")
	}
	return collectTransactions(rows)
}

// ListDecidedTransactionsByAccount returns every approved or declined transaction of an account.
func (r *PgxLedgerRepository) ListDecidedTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND status <> 'pending'
		ORDER BY created_at DESC, transaction_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, storageErr(err, "failed to list decided transactions for account %s", accountID)
	}
	return collectTransactions(rows)
}
