package usecase

import (
	"testing"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Pink Mug", Brand: "HomeCo", Category: "Mugs"},
		{ID: 2, Name: "Pink Tee", Brand: "WearX", Category: "Shirts"},
		{ID: 3, Name: "Blue Mug", Brand: "HomeCo", Category: "Mugs"},
		{ID: 4, Name: "Running Shoes", Brand: "Pinnacle", Category: "Shoes"},
	}
}

func TestVisibleProducts_AllCategoryPassesEverything(t *testing.T) {
	visible := VisibleProducts(catalogFixture(), NewFilterState("", ""))

	require.Len(t, visible, 4)
}

func TestVisibleProducts_CategoryFilter(t *testing.T) {
	visible := VisibleProducts(catalogFixture(), NewFilterState("Mugs", ""))

	require.Len(t, visible, 2)
	for _, p := range visible {
		assert.Equal(t, "Mugs", p.Category)
	}
}

func TestVisibleProducts_QueryMatchesNameAndBrand(t *testing.T) {
	// "pink" входит в названия товаров 1 и 2 и в бренд товара 4.
	visible := VisibleProducts(catalogFixture(), NewFilterState(CategoryAll, "pink"))

	ids := make([]int64, 0, len(visible))
	for _, p := range visible {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2, 4}, ids)
}

func TestVisibleProducts_QueryDoesNotMatchCategory(t *testing.T) {
	visible := VisibleProducts(catalogFixture(), NewFilterState(CategoryAll, "shirts"))

	assert.Empty(t, visible)
}

func TestVisibleProducts_CategoryAndQueryCombined(t *testing.T) {
	visible := VisibleProducts(catalogFixture(), NewFilterState("Mugs", "pink"))

	require.Len(t, visible, 1)
	assert.Equal(t, int64(1), visible[0].ID)
}

func TestVisibleProducts_SortedByName(t *testing.T) {
	visible := VisibleProducts(catalogFixture(), NewFilterState(CategoryAll, ""))

	names := make([]string, 0, len(visible))
	for _, p := range visible {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Blue Mug", "Pink Mug", "Pink Tee", "Running Shoes"}, names)
}

func TestVisibleProducts_DoesNotMutateInput(t *testing.T) {
	products := catalogFixture()

	VisibleProducts(products, NewFilterState(CategoryAll, ""))

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(4), products[3].ID)
}

func TestCategoryFacets_AllFirstThenFirstSeenOrder(t *testing.T) {
	facets := CategoryFacets(catalogFixture())

	require.Len(t, facets, 4)
	assert.Equal(t, NewFacet(CategoryAll, 4), facets[0])
	assert.Equal(t, NewFacet("Mugs", 2), facets[1])
	assert.Equal(t, NewFacet("Shirts", 1), facets[2])
	assert.Equal(t, NewFacet("Shoes", 1), facets[3])
}

func TestCategoryFacets_IgnoreActiveFilter(t *testing.T) {
	// Фасеты всегда считаются по полной коллекции, а не по видимой части.
	products := catalogFixture()
	visible := VisibleProducts(products, NewFilterState("Mugs", ""))
	facets := CategoryFacets(products)

	require.Len(t, visible, 2)
	assert.Equal(t, 4, facets[0].Count)
}

func TestBrandSuggestions_DistinctFirstSeen(t *testing.T) {
	suggestions := BrandSuggestions(catalogFixture())

	assert.Equal(t, []string{"HomeCo", "WearX", "Pinnacle"}, suggestions)
}

func TestCategorySuggestions_DistinctFirstSeen(t *testing.T) {
	suggestions := CategorySuggestions(catalogFixture())

	assert.Equal(t, []string{"Mugs", "Shirts", "Shoes"}, suggestions)
}

func TestNewFilterState_EmptyCategoryBecomesAll(t *testing.T) {
	filter := NewFilterState("", "mug")

	assert.Equal(t, CategoryAll, filter.Category)
	assert.Equal(t, "mug", filter.Query)
}
