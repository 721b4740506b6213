package domain

import "time"

// Product описывает товар витрины
type Product struct {
	ID        int64
	Name      string
	Brand     string
	Category  string
	Picture   string // публичный URL изображения, может быть пустым
	ShopeeURL string
	TiktokURL string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(name, brand, category, picture, shopeeURL, tiktokURL string) *Product {
	return &Product{
		Name:      name,
		Brand:     brand,
		Category:  category,
		Picture:   picture,
		ShopeeURL: shopeeURL,
		TiktokURL: tiktokURL,
	}
}
