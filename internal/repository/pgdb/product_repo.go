package pgdb

import (
	"context"
	"errors"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/repository/pgdb/converter"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует шлюз каталога поверх PostgreSQL.
// Чтение идет через пул; мутации выполняются в транзакции из контекста,
// чтобы запись в outbox была атомарной с изменением товара.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает полную коллекцию товаров.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, brand, category, picture, shopee_url, tiktok_url, created_at, updated_at
		FROM products
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Brand, &model.Category,
			&model.Picture, &model.ShopeeURL, &model.TiktokURL,
			&model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// Insert создает запись товара и возвращает присвоенный базой ID.
func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (name, brand, category, picture, shopee_url, tiktok_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	if err := tx.QueryRow(ctx, query,
		product.Name, product.Brand, product.Category,
		product.Picture, product.ShopeeURL, product.TiktokURL,
	).Scan(&id); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// Update полностью заменяет поля записи с указанным ID.
func (p *ProductRepo) Update(ctx context.Context, id int64, product *domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products SET
			name = $2,
			brand = $3,
			category = $4,
			picture = $5,
			shopee_url = $6,
			tiktok_url = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`

	var updatedID int64
	if err := tx.QueryRow(ctx, query, id,
		product.Name, product.Brand, product.Category,
		product.Picture, product.ShopeeURL, product.TiktokURL,
	).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Delete удаляет запись с указанным ID.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}
