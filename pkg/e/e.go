package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки синхронизации каталога
	ErrLoadFailed       = fmt.Errorf("catalog load failed")
	ErrMutationFailed   = fmt.Errorf("catalog mutation failed")
	ErrMutationInFlight = fmt.Errorf("another mutation is in flight")
	ErrUploadFailed     = fmt.Errorf("image upload failed")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrAdminNotFound    = fmt.Errorf("admin not found")

	// Ошибки авторизации
	ErrUnauthorized       = fmt.Errorf("admin authorization required")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("required fields are missing")
	ErrInvalidProductID     = fmt.Errorf("invalid product id")
	ErrNoFile               = fmt.Errorf("no file provided")
	ErrFileTooLarge         = fmt.Errorf("file is too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrUnknownSuggestField  = fmt.Errorf("unknown suggestion field")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
