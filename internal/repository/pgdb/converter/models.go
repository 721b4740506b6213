package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Brand     string     `db:"brand"`
	Category  string     `db:"category"`
	Picture   string     `db:"picture"`
	ShopeeURL string     `db:"shopee_url"`
	TiktokURL string     `db:"tiktok_url"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// AdminModel представляет запись таблицы admins в PostgreSQL.
type AdminModel struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	ProductID   int64      `db:"product_id"`
	EventType   string     `db:"event_type"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
