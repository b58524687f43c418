package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

// ActivityRepository persiste eventos de autenticación para auditoría.
type ActivityRepository interface {
	Insert(ctx context.Context, event domain.ActivityEvent) error
}

// PgActivityRepository implementa ActivityRepository usando pgxpool.
type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) Insert(ctx context.Context, event domain.ActivityEvent) error {
	const query = `
		INSERT INTO activity_log (id, user_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.UserID,
		event.Action,
		event.Detail,
		event.CreatedAt,
	)
	return err
}
