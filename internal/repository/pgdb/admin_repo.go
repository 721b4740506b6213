package pgdb

import (
	"context"
	"errors"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/repository/pgdb/converter"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// AdminRepo читает учетные записи администраторов из PostgreSQL.
type AdminRepo struct {
	pool *pgxpool.Pool
	conv converter.AdminConverter
}

func NewAdminRepo(pool *pgxpool.Pool, conv converter.AdminConverter) *AdminRepo {
	return &AdminRepo{pool: pool, conv: conv}
}

func (a *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM admins
		WHERE email = $1
	`

	var model converter.AdminModel
	if err := a.pool.QueryRow(ctx, query, email).
		Scan(&model.ID, &model.Email, &model.PasswordHash, &model.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrAdminNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(&model), nil
}
