package http

import (
	"net/http"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type ProductResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	Picture   string `json:"picture"`
	ShopeeURL string `json:"shopee_url"`
	TiktokURL string `json:"tiktok_url"`
}

type FacetResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Facets   []FacetResponse   `json:"facets"`
}

// listProducts
//
//	@Summary		Список товаров каталога
//	@Description	Возвращает видимые товары с учётом фильтра по категории и поисковой строки
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Категория (пусто или All — без фильтра)"
//	@Param			q			query		string	false	"Подстрока для поиска по названию и бренду"
//	@Success		200			{object}	ListProductsResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := usecase.NewFilterState(r.URL.Query().Get("category"), r.URL.Query().Get("q"))

	products := p.catalogUsecase.Products()
	visible := usecase.VisibleProducts(products, filter)
	facets := usecase.CategoryFacets(products)

	resp := ListProductsResponse{
		Products: toProductResponses(visible),
		Facets:   toFacetResponses(facets),
	}

	WriteSuccess(w, http.StatusOK, resp)
}

// listSuggestions
//
//	@Summary		Подсказки для автодополнения
//	@Description	Возвращает различные значения поля в порядке первого появления
//	@Tags			products
//	@Produce		json
//	@Param			field	query		string	true	"Поле: brand или category"
//	@Success		200		{object}	map[string][]string
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products/suggestions [get]
func (p *ProductHandler) listSuggestions(w http.ResponseWriter, r *http.Request) {
	products := p.catalogUsecase.Products()

	var values []string
	switch r.URL.Query().Get("field") {
	case "brand":
		values = usecase.BrandSuggestions(products)
	case "category":
		values = usecase.CategorySuggestions(products)
	default:
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrUnknownSuggestField.Error(), r.URL.Query().Get("field"))
		WriteError(w, e.ErrUnknownSuggestField)
		return
	}

	if values == nil {
		values = []string{}
	}

	WriteSuccess(w, http.StatusOK, map[string][]string{"suggestions": values})
}

func toProductResponses(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, pr := range products {
		resp = append(resp, ProductResponse{
			ID:        pr.ID,
			Name:      pr.Name,
			Brand:     pr.Brand,
			Category:  pr.Category,
			Picture:   pr.Picture,
			ShopeeURL: pr.ShopeeURL,
			TiktokURL: pr.TiktokURL,
		})
	}
	return resp
}

func toFacetResponses(facets []usecase.Facet) []FacetResponse {
	resp := make([]FacetResponse, 0, len(facets))
	for _, f := range facets {
		resp = append(resp, FacetResponse{Category: f.Category, Count: f.Count})
	}
	return resp
}
