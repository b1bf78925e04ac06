package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quangtran/folio-api/internal/domain/contact"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type postgresContactRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresContactRepo(db *pgxpool.Pool, logger logger.Logger) contact.Repository {
	return &postgresContactRepo{db: db, logger: logger}
}

var psqlContact = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresContactRepo) Save(ctx context.Context, m *contact.Message) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.Name, m.Email, m.Message, m.Read, m.CreatedAt)
	if err != nil {
		return apperror.NewStorage("failed to save contact message", err)
	}
	return nil
}

func (r *postgresContactRepo) List(ctx context.Context, onlyUnread bool, page, limit int) ([]*contact.Message, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	builder := psqlContact.
		Select("id", "name", "email", "message", "read", "created_at").
		From("contact_messages").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))

	if onlyUnread {
		builder = builder.Where(sq.Eq{"read": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build contact list query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewStorage("failed to list contact messages", err)
	}
	defer rows.Close()

	messages := make([]*contact.Message, 0)
	for rows.Next() {
		m := &contact.Message{}
		if err := scanContactMessage(rows, m); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStorage("error iterating contact rows", err)
	}
	return messages, nil
}

func (r *postgresContactRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE contact_messages SET read = TRUE WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewStorage("failed to mark contact message read", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("contact message", id.String())
	}
	return nil
}

func scanContactMessage(row pgx.Row, m *contact.Message) error {
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt)
	if err != nil {
		return apperror.NewStorage("failed to scan contact message row", err)
	}
	return nil
}
