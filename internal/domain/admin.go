package domain

import "time"

// Admin описывает учетную запись администратора каталога
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
