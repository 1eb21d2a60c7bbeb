package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/SscSPs/brokerdesk/internal/models"
	"github.com/SscSPs/brokerdesk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, email, name, credential_hash, role, balance, status,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Email,
		&m.Name,
		&m.CredentialHash,
		&m.Role,
		&m.Balance,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, email, name, credential_hash, role, balance, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Email,
		m.Name,
		m.CredentialHash,
		m.Role,
		m.Balance,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: account with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return storageErr(err, "failed to save account %s", m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID, including soft-deleted ones.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, storageErr(err, "failed to find account %s", accountID)
	}
	return &acc, nil
}

// FindAccountByEmail retrieves an account by its login identifier (case-insensitive).
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1);`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, storageErr(err, "failed to find account by email")
	}
	return &acc, nil
}

// ListAccounts returns live accounts newest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, account_id
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storageErr(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, limit)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan account row")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "error iterating account rows")
	}
	return accounts, nil
}

// UpdateAccountStatus changes the status of a live account.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(status), now, updatedBy)
	if err != nil {
		return storageErr(err, "failed to update status of account %s", accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAccountDeleted soft-deletes an account.
func (r *PgxAccountRepository) MarkAccountDeleted(ctx context.Context, accountID string, deletedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, deletedBy)
	if err != nil {
		return storageErr(err, "failed to delete account %s", accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
