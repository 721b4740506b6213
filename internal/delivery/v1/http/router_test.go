package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "token-123"

type fakeCatalog struct {
	products []domain.Product

	insertedDrafts []usecase.ProductDraft
	updatedIDs     []int64
	deletedIDs     []int64

	insertErr error
	updateErr error
	deleteErr error
}

func (c *fakeCatalog) Load(ctx context.Context) error { return nil }

func (c *fakeCatalog) Products() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

func (c *fakeCatalog) Insert(ctx context.Context, draft *usecase.ProductDraft) (int64, error) {
	if c.insertErr != nil {
		return 0, c.insertErr
	}
	c.insertedDrafts = append(c.insertedDrafts, *draft)
	return int64(len(c.insertedDrafts)), nil
}

func (c *fakeCatalog) Update(ctx context.Context, id int64, draft *usecase.ProductDraft) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updatedIDs = append(c.updatedIDs, id)
	return nil
}

func (c *fakeCatalog) Delete(ctx context.Context, id int64) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deletedIDs = append(c.deletedIDs, id)
	return nil
}

type fakeAuth struct{}

func (fakeAuth) SignIn(ctx context.Context, req *usecase.SignInReq) (string, error) {
	if req.Email == "admin@example.com" && req.Password == "swordfish" {
		return testToken, nil
	}
	return "", e.ErrInvalidCredentials
}

func (fakeAuth) CurrentUser(ctx context.Context, token string) (*usecase.User, error) {
	if token != testToken {
		return nil, e.ErrInvalidToken
	}
	return &usecase.User{ID: 1, Email: "admin@example.com"}, nil
}

type fakePictures struct {
	url string
	err error
}

func (p *fakePictures) UploadPicture(ctx context.Context, req *usecase.UploadPictureReq) (*usecase.UploadPictureRes, error) {
	if p.err != nil {
		return nil, p.err
	}
	return usecase.NewUploadPictureRes("key", p.url), nil
}

func (p *fakePictures) CleanupPictures(keys []string) {}

type yesConfirmer struct{}

func (yesConfirmer) Confirm(prompt string) bool { return true }

func newTestRouter(catalog *fakeCatalog) *chi.Mux {
	log := logger.NewSlogLogger()
	workflow := usecase.NewAdminWorkflow(catalog, &fakePictures{url: "http://minio/bucket/key"}, yesConfirmer{}, log)

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(catalog, fakeAuth{}, workflow)
	return mux
}

func doJSON(t *testing.T, mux *chi.Mux, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListProducts_FilterAndFacets(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: 1, Name: "Pink Mug", Brand: "HomeCo", Category: "Mugs"},
		{ID: 2, Name: "Pink Tee", Brand: "WearX", Category: "Shirts"},
		{ID: 3, Name: "Blue Mug", Brand: "HomeCo", Category: "Mugs"},
	}}
	mux := newTestRouter(catalog)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/products?category=Mugs&q=pink", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Products, 1)
	assert.Equal(t, int64(1), resp.Products[0].ID)

	// Фасеты считаются по полной коллекции независимо от фильтра.
	require.Len(t, resp.Facets, 3)
	assert.Equal(t, FacetResponse{Category: usecase.CategoryAll, Count: 3}, resp.Facets[0])
	assert.Equal(t, FacetResponse{Category: "Mugs", Count: 2}, resp.Facets[1])
}

func TestListSuggestions(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: 1, Brand: "HomeCo", Category: "Mugs"},
		{ID: 2, Brand: "WearX", Category: "Shirts"},
		{ID: 3, Brand: "HomeCo", Category: "Mugs"},
	}}
	mux := newTestRouter(catalog)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/products/suggestions?field=brand", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"HomeCo", "WearX"}, resp["suggestions"])
}

func TestListSuggestions_UnknownField(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/products/suggestions?field=color", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignIn(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/auth/login", "", SignInRequest{Email: "admin@example.com", Password: "swordfish"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SignInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testToken, resp.Token)
}

func TestSignIn_WrongCredentials(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/auth/login", "", SignInRequest{Email: "admin@example.com", Password: "guppy"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/auth/me", testToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin@example.com", resp.Email)
}

func TestMe_MissingToken(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	catalog := &fakeCatalog{}
	mux := newTestRouter(catalog)

	draft := DraftRequest{Name: "Pink Mug", Brand: "HomeCo", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/admin/products", testToken, draft)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, catalog.insertedDrafts, 1)
	assert.Equal(t, "Pink Mug", catalog.insertedDrafts[0].Name)
}

func TestCreateProduct_RequiresAuth(t *testing.T) {
	catalog := &fakeCatalog{}
	mux := newTestRouter(catalog)

	draft := DraftRequest{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/admin/products", "", draft)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, catalog.insertedDrafts)
}

func TestCreateProduct_MissingFields(t *testing.T) {
	catalog := &fakeCatalog{}
	mux := newTestRouter(catalog)

	draft := DraftRequest{Name: "Pink Mug"}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/admin/products", testToken, draft)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, catalog.insertedDrafts)
}

func TestCreateProduct_GatewayMessageReachesClient(t *testing.T) {
	catalog := &fakeCatalog{
		insertErr: fmt.Errorf("%w: %w", e.ErrMutationFailed, errors.New("unique constraint broken")),
	}
	mux := newTestRouter(catalog)

	draft := DraftRequest{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/admin/products", testToken, draft)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "unique constraint broken")
}

func TestUpdateProduct(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{{ID: 7, Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"}}}
	mux := newTestRouter(catalog)

	draft := DraftRequest{Name: "Repainted Mug", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPut, "/api/v1/admin/products/7", testToken, draft)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, catalog.updatedIDs)
}

func TestUpdateProduct_InvalidID(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	draft := DraftRequest{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPut, "/api/v1/admin/products/abc", testToken, draft)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_UnknownID(t *testing.T) {
	mux := newTestRouter(&fakeCatalog{})

	draft := DraftRequest{Name: "Pink Mug", ShopeeURL: "s", TiktokURL: "t"}
	rec := doJSON(t, mux, http.MethodPut, "/api/v1/admin/products/99", testToken, draft)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{{ID: 7}}}
	mux := newTestRouter(catalog)

	rec := doJSON(t, mux, http.MethodDelete, "/api/v1/admin/products/7", testToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, catalog.deletedIDs)
}
