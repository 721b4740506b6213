package converter

import (
	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// AdminConverter преобразует сущности Admin между domain и моделью PostgreSQL.
type AdminConverter interface {
	ToEntity(model *AdminModel) *domain.Admin
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Brand:     entity.Brand,
		Category:  entity.Category,
		Picture:   entity.Picture,
		ShopeeURL: entity.ShopeeURL,
		TiktokURL: entity.TiktokURL,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Brand:     model.Brand,
		Category:  model.Category,
		Picture:   model.Picture,
		ShopeeURL: model.ShopeeURL,
		TiktokURL: model.TiktokURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []*ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type AdminConverterImpl struct{}

func NewAdminConverterImpl() *AdminConverterImpl {
	return &AdminConverterImpl{}
}

func (c *AdminConverterImpl) ToEntity(model *AdminModel) *domain.Admin {
	return &domain.Admin{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		ProductID:   entity.ProductID,
		EventType:   string(entity.EventType),
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		ProductID:   model.ProductID,
		EventType:   usecase.OutboxEventType(model.EventType),
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
