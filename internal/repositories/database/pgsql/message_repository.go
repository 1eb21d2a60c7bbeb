package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/SscSPs/brokerdesk/internal/models"
	"github.com/SscSPs/brokerdesk/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `message_id, account_id, subject, body, created_by, created_at`

type PgxMessageRepository struct {
	BaseRepository
}

func newPgxMessageRepository(pool *pgxpool.Pool) portsrepo.MessageRepositoryFacade {
	return &PgxMessageRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MessageRepositoryFacade = (*PgxMessageRepository)(nil)

func scanMessage(row pgx.Row) (domain.BillingMessage, error) {
	var m models.BillingMessage
	if err := row.Scan(&m.MessageID, &m.AccountID, &m.Subject, &m.Body, &m.CreatedBy, &m.CreatedAt); err != nil {
		return domain.BillingMessage{}, err
	}
	return mapping.ToDomainBillingMessage(m), nil
}

// SaveMessage stores a billing message addressed to an account.
func (r *PgxMessageRepository) SaveMessage(ctx context.Context, msg domain.BillingMessage) (*domain.BillingMessage, error) {
	query := `
		INSERT INTO billing_messages (account_id, subject, body, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns + `;
	`
	saved, err := scanMessage(r.Pool.QueryRow(ctx, query, msg.AccountID, msg.Subject, msg.Body, msg.CreatedBy, msg.CreatedAt))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, msg.AccountID)
		}
		return nil, storageErr(err, "failed to save message for account %s", msg.AccountID)
	}
	return &saved, nil
}

// ListMessagesByAccount returns an account's messages newest first.
func (r *PgxMessageRepository) ListMessagesByAccount(ctx context.Context, accountID string, limit int) ([]domain.BillingMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + messageColumns + `
		FROM billing_messages
		WHERE account_id = $1
		ORDER BY created_at DESC, message_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, storageErr(err, "failed to list messages for account %s", accountID)
	}
	defer rows.Close()

	messages := make([]domain.BillingMessage, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan message row")
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "error iterating message rows")
	}
	return messages, nil
}
