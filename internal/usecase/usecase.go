package usecase

import (
	"context"

	"github.com/drsn-tech/catalog-core/internal/domain"
)

type CatalogUC interface {
	Load(ctx context.Context) error
	Products() []domain.Product
	Insert(ctx context.Context, draft *ProductDraft) (int64, error)
	Update(ctx context.Context, id int64, draft *ProductDraft) error
	Delete(ctx context.Context, id int64) error
}

type AuthUC interface {
	SignIn(ctx context.Context, req *SignInReq) (string, error)
	CurrentUser(ctx context.Context, token string) (*User, error)
}
