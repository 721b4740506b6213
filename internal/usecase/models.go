package usecase

import (
	"time"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/google/uuid"
)

// CATALOG USECASE

// CategoryAll — сентинел фильтра "все категории".
const CategoryAll = "All"

// FilterState — эфемерное состояние фильтра витрины.
type FilterState struct {
	Category string // выбранная категория или CategoryAll
	Query    string // поисковая строка, пустая = без поиска
}

// Facet — пара (категория, количество товаров), производная от полной коллекции.
type Facet struct {
	Category string
	Count    int
}

// ProductDraft — набор полей товара до присвоения ID (создание)
// или перед полной заменой существующей записи (редактирование).
type ProductDraft struct {
	Name      string
	Brand     string
	Category  string
	Picture   string
	ShopeeURL string
	TiktokURL string
}

// ADMIN USECASE

// Mode — режим формы администратора.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// AUTH USECASE

// User — аутентифицированный администратор; presence = authorization.
type User struct {
	ID    int64
	Email string
}

// SignInReq — запрос на вход администратора.
type SignInReq struct {
	Email    string
	Password string
}

// INFRASTRUCTURE

// UploadPictureReq — запрос на загрузку изображения товара.
type UploadPictureReq struct {
	FileName string
	Data     []byte
	MimeType string
}

// UploadPictureRes — результат загрузки: ключ объекта и публичный URL.
type UploadPictureRes struct {
	ObjectKey string
	URL       string
}

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventProductInserted OutboxEventType = "product.inserted"
	EventProductUpdated  OutboxEventType = "product.updated"
	EventProductDeleted  OutboxEventType = "product.deleted"
)

// OutboxEvent — событие изменения каталога, записанное в одной транзакции с мутацией.
type OutboxEvent struct {
	ID          int64
	EventID     string
	ProductID   int64
	EventType   OutboxEventType
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewOutboxEvent(eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   uuid.NewString(),
		ProductID: productID,
		EventType: eventType,
		Payload:   payload,
		Status:    OutboxStatusPending,
	}
}

func NewFilterState(category, query string) FilterState {
	if category == "" {
		category = CategoryAll
	}
	return FilterState{Category: category, Query: query}
}

func NewFacet(category string, count int) Facet {
	return Facet{Category: category, Count: count}
}

func NewSignInReq(email, password string) *SignInReq {
	return &SignInReq{Email: email, Password: password}
}

func NewUploadPictureReq(fileName string, data []byte, mimeType string) *UploadPictureReq {
	return &UploadPictureReq{
		FileName: fileName,
		Data:     data,
		MimeType: mimeType,
	}
}

func NewUploadPictureRes(objectKey, url string) *UploadPictureRes {
	return &UploadPictureRes{
		ObjectKey: objectKey,
		URL:       url,
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

// draftToProduct переносит поля черновика в доменную сущность.
func draftToProduct(draft *ProductDraft) *domain.Product {
	return domain.NewProduct(
		draft.Name,
		draft.Brand,
		draft.Category,
		draft.Picture,
		draft.ShopeeURL,
		draft.TiktokURL,
	)
}

// draftFromProduct копирует поля товара в черновик формы редактирования.
func draftFromProduct(product *domain.Product) ProductDraft {
	return ProductDraft{
		Name:      product.Name,
		Brand:     product.Brand,
		Category:  product.Category,
		Picture:   product.Picture,
		ShopeeURL: product.ShopeeURL,
		TiktokURL: product.TiktokURL,
	}
}
