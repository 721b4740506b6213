package usecase

import (
	"sort"
	"strings"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Чистые производные представления каталога. Пересчитываются на каждый запрос
// из (products, filter); никакие промежуточные результаты не кэшируются,
// чтобы фасеты и подсказки не переживали смену коллекции.

// VisibleProducts возвращает видимое подмножество коллекции:
// фильтр по категории (CategoryAll пропускает все), затем регистронезависимый
// поиск подстроки по имени или бренду, затем сортировка по имени с учетом локали.
// Сортировка стабильна относительно исходного порядка коллекции.
func VisibleProducts(products []domain.Product, filter FilterState) []domain.Product {
	visible := make([]domain.Product, 0, len(products))
	query := strings.ToLower(filter.Query)

	for _, product := range products {
		if filter.Category != CategoryAll && product.Category != filter.Category {
			continue
		}
		if query != "" && !matchesQuery(&product, query) {
			continue
		}
		visible = append(visible, product)
	}

	c := collate.New(language.Und)
	sort.SliceStable(visible, func(i, j int) bool {
		return c.CompareString(visible[i].Name, visible[j].Name) < 0
	})

	return visible
}

// CategoryFacets возвращает фасеты категорий по нефильтрованной коллекции.
// Первым идет фасет CategoryAll с общим количеством, далее категории
// в порядке первого появления в коллекции.
func CategoryFacets(products []domain.Product) []Facet {
	counts := make(map[string]int, len(products))
	order := make([]string, 0, len(products))

	for _, product := range products {
		if _, seen := counts[product.Category]; !seen {
			order = append(order, product.Category)
		}
		counts[product.Category]++
	}

	facets := make([]Facet, 0, len(order)+1)
	facets = append(facets, NewFacet(CategoryAll, len(products)))
	for _, category := range order {
		facets = append(facets, NewFacet(category, counts[category]))
	}

	return facets
}

// BrandSuggestions возвращает различные бренды нефильтрованной коллекции
// в порядке первого появления. Значения нигде не валидируются: админ может
// отправить бренд вне списка, и он появится здесь после следующей загрузки.
func BrandSuggestions(products []domain.Product) []string {
	return distinctValues(products, func(p *domain.Product) string { return p.Brand })
}

// CategorySuggestions возвращает различные категории нефильтрованной коллекции.
func CategorySuggestions(products []domain.Product) []string {
	return distinctValues(products, func(p *domain.Product) string { return p.Category })
}

func matchesQuery(product *domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(product.Name), query) ||
		strings.Contains(strings.ToLower(product.Brand), query)
}

func distinctValues(products []domain.Product, field func(*domain.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	values := make([]string, 0, len(products))

	for _, product := range products {
		value := field(&product)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values
}
