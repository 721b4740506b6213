package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// IN-MEMORY FAKES

type fakeProductRepo struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int64

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	repo := &fakeProductRepo{nextID: 1}
	for _, p := range products {
		p.ID = repo.nextID
		repo.nextID++
		repo.products = append(repo.products, p)
	}
	return repo
}

func (r *fakeProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Product(nil), r.products...), nil
}

func (r *fakeProductRepo) Insert(ctx context.Context, product *domain.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	stored := *product
	stored.ID = r.nextID
	r.nextID++
	r.products = append(r.products, stored)
	return stored.ID, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id int64, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.products {
		if r.products[i].ID == id {
			updated := *product
			updated.ID = id
			r.products[i] = updated
			return nil
		}
	}
	return e.ErrProductNotFound
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return e.ErrProductNotFound
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent

	createErr error
}

func (r *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (r *fakeOutboxRepo) eventTypes() []OutboxEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]OutboxEventType, 0, len(r.events))
	for _, ev := range r.events {
		types = append(types, ev.EventType)
	}
	return types
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	snapshot []domain.Product
	has      bool
}

func (r *fakeCacheRepo) GetSnapshot(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.has {
		return nil, nil
	}
	return append([]domain.Product(nil), r.snapshot...), nil
}

func (r *fakeCacheRepo) SetSnapshot(ctx context.Context, products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = append([]domain.Product(nil), products...)
	r.has = true
	return nil
}

func (r *fakeCacheRepo) DeleteSnapshot(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
	r.has = false
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestStore(repo *fakeProductRepo) (*CatalogStore, *fakeOutboxRepo, *fakeCacheRepo) {
	outbox := &fakeOutboxRepo{}
	cache := &fakeCacheRepo{}
	store := NewCatalogStore(repo, outbox, cache, fakeTxRunner{}, logger.NewSlogLogger())
	return store, outbox, cache
}

func adminCtx() context.Context {
	return CtxWithUser(context.Background(), &User{ID: 1, Email: "admin@example.com"})
}

// waitForCachedSnapshot дожидается фонового кэширования после Load,
// чтобы дальнейшие шаги теста не гонялись с ним за состояние кэша.
func waitForCachedSnapshot(t *testing.T, cache *fakeCacheRepo) {
	t.Helper()
	require.Eventually(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.has
	}, time.Second, 5*time.Millisecond)
}

// TESTS

func TestCatalogStore_LoadReplacesSnapshot(t *testing.T) {
	repo := newFakeProductRepo(
		domain.Product{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"},
		domain.Product{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"},
	)
	store, _, _ := newTestStore(repo)

	require.NoError(t, store.Load(context.Background()))
	require.Len(t, store.Products(), 2)

	// Повторная загрузка заменяет коллекцию целиком, без дублей.
	require.NoError(t, store.Load(context.Background()))
	assert.Len(t, store.Products(), 2)
}

func TestCatalogStore_LoadFailureKeepsPreviousSnapshot(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, _, cache := newTestStore(repo)

	require.NoError(t, store.Load(context.Background()))
	require.Len(t, store.Products(), 1)
	waitForCachedSnapshot(t, cache)
	require.NoError(t, cache.DeleteSnapshot(context.Background()))

	repo.mu.Lock()
	repo.listErr = errors.New("gateway is down")
	repo.mu.Unlock()

	err := store.Load(context.Background())

	require.ErrorIs(t, err, e.ErrLoadFailed)
	assert.Len(t, store.Products(), 1)
}

func TestCatalogStore_LoadUsesCachedSnapshot(t *testing.T) {
	repo := newFakeProductRepo()
	store, _, cache := newTestStore(repo)

	cached := []domain.Product{{ID: 42, Name: "Cached Mug"}}
	require.NoError(t, cache.SetSnapshot(context.Background(), cached))

	repo.mu.Lock()
	repo.listErr = errors.New("storage must not be touched")
	repo.mu.Unlock()

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, cached, store.Products())
}

func TestCatalogStore_ProductsReturnsCopy(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, _, _ := newTestStore(repo)
	require.NoError(t, store.Load(context.Background()))

	products := store.Products()
	products[0].Name = "mutated"

	assert.Equal(t, "Pink Mug", store.Products()[0].Name)
}

func TestCatalogStore_InsertAppearsOnceWithNewID(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, outbox, cache := newTestStore(repo)
	require.NoError(t, store.Load(context.Background()))
	waitForCachedSnapshot(t, cache)

	id, err := store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	products := store.Products()
	require.Len(t, products, 2)

	count := 0
	for _, p := range products {
		if p.ID == id {
			count++
			assert.Equal(t, "Blue Mug", p.Name)
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []OutboxEventType{EventProductInserted}, outbox.eventTypes())
}

func TestCatalogStore_UpdateKeepsID(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, outbox, cache := newTestStore(repo)
	require.NoError(t, store.Load(context.Background()))
	waitForCachedSnapshot(t, cache)

	err := store.Update(adminCtx(), 1, &ProductDraft{Name: "Repainted Mug", ShopeeURL: "s", TiktokURL: "t"})

	require.NoError(t, err)
	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Repainted Mug", products[0].Name)
	assert.Equal(t, []OutboxEventType{EventProductUpdated}, outbox.eventTypes())
}

func TestCatalogStore_DeleteRemovesProduct(t *testing.T) {
	repo := newFakeProductRepo(
		domain.Product{Name: "Pink Mug"},
		domain.Product{Name: "Blue Mug"},
	)
	store, outbox, cache := newTestStore(repo)
	require.NoError(t, store.Load(context.Background()))
	waitForCachedSnapshot(t, cache)

	require.NoError(t, store.Delete(adminCtx(), 1))

	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)
	assert.Equal(t, []OutboxEventType{EventProductDeleted}, outbox.eventTypes())
}

func TestCatalogStore_MutationFailureLeavesSnapshotIntact(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, outbox, _ := newTestStore(repo)
	require.NoError(t, store.Load(context.Background()))

	repo.mu.Lock()
	repo.insertErr = errors.New("constraint violated")
	repo.mu.Unlock()

	_, err := store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})

	require.ErrorIs(t, err, e.ErrMutationFailed)
	assert.Len(t, store.Products(), 1)
	assert.Empty(t, outbox.eventTypes())
}

func TestCatalogStore_MutationRequiresUser(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, _, _ := newTestStore(repo)

	_, err := store.Insert(context.Background(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})
	require.ErrorIs(t, err, e.ErrUnauthorized)

	require.ErrorIs(t, store.Update(context.Background(), 1, &ProductDraft{}), e.ErrUnauthorized)
	require.ErrorIs(t, store.Delete(context.Background(), 1), e.ErrUnauthorized)
}

func TestCatalogStore_RejectsOverlappingMutations(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug"})
	store, _, _ := newTestStore(repo)

	store.mutating.Store(true)

	_, err := store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})
	require.ErrorIs(t, err, e.ErrMutationInFlight)

	store.mutating.Store(false)

	_, err = store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})
	assert.NoError(t, err)
}

func TestCatalogStore_OutboxFailureRollsBackMutation(t *testing.T) {
	repo := newFakeProductRepo()
	store, outbox, _ := newTestStore(repo)

	outbox.createErr = errors.New("outbox insert failed")

	_, err := store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})

	require.ErrorIs(t, err, e.ErrMutationFailed)
}

// gatedCacheRepo задерживает фоновую запись снапшота до закрытия release.
type gatedCacheRepo struct {
	fakeCacheRepo
	release chan struct{}
}

func (r *gatedCacheRepo) SetSnapshot(ctx context.Context, products []domain.Product) error {
	<-r.release
	return r.fakeCacheRepo.SetSnapshot(ctx, products)
}

func TestCatalogStore_DelayedCacheWriteDoesNotMaskMutation(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"})
	cache := &gatedCacheRepo{release: make(chan struct{})}
	store := NewCatalogStore(repo, &fakeOutboxRepo{}, cache, fakeTxRunner{}, logger.NewSlogLogger())

	// Фоновая запись снапшота первой загрузки висит на release и ляжет
	// в кэш только после того, как мутация сбросит его.
	require.NoError(t, store.Load(context.Background()))

	id, err := store.Insert(adminCtx(), &ProductDraft{Name: "Blue Mug", ShopeeURL: "s", TiktokURL: "t"})
	require.NoError(t, err)

	close(cache.release)

	products := store.Products()
	require.Len(t, products, 2)

	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
		}
	}
	assert.True(t, found, "committed insert is missing from the snapshot")
}
