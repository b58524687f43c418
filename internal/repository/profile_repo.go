package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

// ProfileRepository define el contrato de persistencia para perfiles locales.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (domain.LocalProfile, error)
	Upsert(ctx context.Context, profile domain.LocalProfile) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// PgProfileRepository implementa ProfileRepository usando pgxpool.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.LocalProfile, error) {
	const query = `
		SELECT id, email, first_name, last_name, bio, phone, job_title,
		       company, location, timezone, website, linkedin, twitter,
		       github, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var p domain.LocalProfile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&p.Phone,
		&p.JobTitle,
		&p.Company,
		&p.Location,
		&p.Timezone,
		&p.Website,
		&p.LinkedIn,
		&p.Twitter,
		&p.GitHub,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LocalProfile{}, err
	}
	return p, err
}

// Upsert inserta el perfil con conflicto sobre id. En la rama de conflicto
// los nombres existentes nunca se pisan: COALESCE preserva lo que un humano
// ya escribió y solo rellena columnas nulas. Esto hace convergentes los
// primeros logins concurrentes de una misma identidad.
func (r *PgProfileRepository) Upsert(ctx context.Context, profile domain.LocalProfile) error {
	const query = `
		INSERT INTO users (id, email, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			first_name = COALESCE(users.first_name, EXCLUDED.first_name),
			last_name  = COALESCE(users.last_name, EXCLUDED.last_name),
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FirstName,
		profile.LastName,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// UpdateFields aplica un patch parcial. Las claves son nombres de columna
// controlados por el merge engine y el servicio, nunca entrada del cliente.
func (r *PgProfileRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, fields[column])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
