package usecase

import (
	"context"

	"github.com/drsn-tech/catalog-core/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) (int64, error)
	Update(ctx context.Context, id int64, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) error
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetSnapshot(ctx context.Context) ([]domain.Product, error)
	SetSnapshot(ctx context.Context, products []domain.Product) error
	DeleteSnapshot(ctx context.Context) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
