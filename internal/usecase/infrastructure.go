package usecase

import "context"

type PictureInfra interface {
	UploadPicture(ctx context.Context, req *UploadPictureReq) (*UploadPictureRes, error)
	CleanupPictures(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// TxRunner выполняет функцию внутри транзакции базы данных.
// Объект транзакции прокидывается через контекст (см. pkg/tr).
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Confirmer запрашивает у пользователя блокирующее подтверждение действия.
type Confirmer interface {
	Confirm(prompt string) bool
}
