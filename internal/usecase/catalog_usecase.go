package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

// CatalogStore владеет локальной копией коллекции товаров и синхронизирует
// ее с удаленным хранилищем. Коллекция заменяется целиком после каждой
// успешной загрузки; точечные правки снапшота не применяются никогда,
// чтобы локальное состояние не расходилось с подтвержденным удаленным.
type CatalogStore struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	txRunner    TxRunner
	logger      logger.Logger

	mu       sync.RWMutex
	products []domain.Product

	// Одновременно допускается не более одной мутации: повторный submit
	// до завершения перезагрузки отклоняется.
	mutating atomic.Bool

	// Поколение кэша снапшота. Инкрементируется при сбросе кэша после
	// мутации; фоновая запись с прошлым поколением не выполняется.
	cacheGen atomic.Uint64
}

func NewCatalogStore(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txRunner TxRunner,
	logger logger.Logger,
) *CatalogStore {
	return &CatalogStore{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		txRunner:    txRunner,
		logger:      logger,
	}
}

// Load загружает полную коллекцию и заменяет локальное состояние.
// Сначала опрашивается кэш снапшота; при промахе коллекция читается из
// хранилища и кэшируется в фоне. При ошибке чтения прежнее локальное
// состояние сохраняется без частичной перезаписи.
func (s *CatalogStore) Load(ctx context.Context) error {
	if cached := s.loadFromCache(ctx); cached != nil {
		s.replaceSnapshot(cached)
		return nil
	}

	return s.loadFromStorage(ctx)
}

// loadFromStorage перечитывает коллекцию напрямую из хранилища, минуя кэш,
// и заменяет локальный снапшот. Кэш обновляется в фоне; запись со старым
// поколением пропускается.
func (s *CatalogStore) loadFromStorage(ctx context.Context) error {
	const op = "CatalogStore.Load"

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrLoadFailed, err))
	}

	s.replaceSnapshot(products)

	// Фоновое обновление кэша снапшота
	gen := s.cacheGen.Load()
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if s.cacheGen.Load() != gen {
			return
		}

		if err := s.cacheRepo.SetSnapshot(bgCtx, products); err != nil {
			s.logger.Warnf("Failed to cache catalog snapshot in background: %v", e.Wrap(op, err))
		}
	}()

	return nil
}

// Products возвращает копию текущего локального снапшота коллекции.
func (s *CatalogStore) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Insert отправляет черновик в хранилище и возвращает присвоенный ID.
// Мутация и outbox-событие пишутся в одной транзакции; после успеха
// выполняется ровно одна полная перезагрузка коллекции.
func (s *CatalogStore) Insert(ctx context.Context, draft *ProductDraft) (int64, error) {
	const op = "CatalogStore.Insert"

	if err := s.beginMutation(ctx); err != nil {
		return 0, e.Wrap(op, err)
	}
	defer s.endMutation()

	var id int64
	err := s.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.productRepo.Insert(ctx, draftToProduct(draft))
		if err != nil {
			return err
		}

		return s.outboxRepo.Create(ctx, s.changeEvent(EventProductInserted, id))
	})
	if err != nil {
		return 0, e.Wrap(op, fmt.Errorf("%w: %w", e.ErrMutationFailed, err))
	}

	s.refreshAfterMutation(ctx, op)
	return id, nil
}

// Update полностью заменяет поля записи с указанным ID; сам ID неизменяем.
func (s *CatalogStore) Update(ctx context.Context, id int64, draft *ProductDraft) error {
	const op = "CatalogStore.Update"

	if err := s.beginMutation(ctx); err != nil {
		return e.Wrap(op, err)
	}
	defer s.endMutation()

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Update(ctx, id, draftToProduct(draft)); err != nil {
			return err
		}

		return s.outboxRepo.Create(ctx, s.changeEvent(EventProductUpdated, id))
	})
	if err != nil {
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrMutationFailed, err))
	}

	s.refreshAfterMutation(ctx, op)
	return nil
}

// Delete удаляет запись с указанным ID из хранилища.
func (s *CatalogStore) Delete(ctx context.Context, id int64) error {
	const op = "CatalogStore.Delete"

	if err := s.beginMutation(ctx); err != nil {
		return e.Wrap(op, err)
	}
	defer s.endMutation()

	err := s.txRunner.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return s.outboxRepo.Create(ctx, s.changeEvent(EventProductDeleted, id))
	})
	if err != nil {
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrMutationFailed, err))
	}

	s.refreshAfterMutation(ctx, op)
	return nil
}

/// refreshAfterMutation — единственный путь обновления снапшота после мутации:
// сброс кэша и полная перезагрузка напрямую из хранилища. Кэш здесь не
// читается: фоновая запись прошлой загрузки могла лечь в кэш уже после
// сброса. Ошибка перезагрузки не отменяет уже подтвержденную мутацию;
// снапшот догонит хранилище на следующей загрузке.
func (s *CatalogStore) refreshAfterMutation(ctx context.Context, op string) {
	s.cacheGen.Add(1)

	if err := s.cacheRepo.DeleteSnapshot(ctx); err != nil {
		s.logger.Warnf("Failed to drop catalog snapshot cache: %v", e.Wrap(op, err))
	}

	if err := s.loadFromStorage(ctx); err != nil {
		s.logger.Warnf("Reload after mutation failed, snapshot is stale: %v", e.Wrap(op, err))
	}
}

// beginMutation проверяет авторизацию и захватывает слот мутации.
func (s *CatalogStore) beginMutation(ctx context.Context) error {
	if _, ok := UserFromCtx(ctx); !ok {
		return e.ErrUnauthorized
	}

	if !s.mutating.CompareAndSwap(false, true) {
		return e.ErrMutationInFlight
	}

	return nil
}

func (s *CatalogStore) endMutation() {
	s.mutating.Store(false)
}

func (s *CatalogStore) replaceSnapshot(products []domain.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

func (s *CatalogStore) loadFromCache(ctx context.Context) []domain.Product {
	products, err := s.cacheRepo.GetSnapshot(ctx)
	if err != nil {
		s.logger.Warnf("Snapshot cache read failed: %v", err)
		return nil
	}

	return products
}

// changeEvent собирает outbox-событие изменения каталога с JSON-полезной нагрузкой.
func (s *CatalogStore) changeEvent(eventType OutboxEventType, productID int64) *OutboxEvent {
	event := NewOutboxEvent(eventType, productID, nil)

	payload, err := json.Marshal(map[string]any{
		"event_id":    event.EventID,
		"event_type":  string(eventType),
		"product_id":  productID,
		"occurred_at": time.Now().UTC().UnixNano(),
	})
	if err != nil {
		s.logger.Warnf("Failed to marshal change event payload: %v", err)
	}
	event.Payload = payload

	return event
}
