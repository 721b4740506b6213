package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drsn-tech/catalog-core/internal/cfg"
	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/internal/infrastructure"
	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/jitter"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/google/uuid"
)

// MinioInfrastructure управляет загрузкой и очисткой изображений товаров в MinIO.
// Одновременно в работе находится не больше одной загрузки на форму,
// поэтому конвейер здесь простой: загрузить, получить публичный URL.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	maxFileSize int64
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		maxFileSize: cfg.MaxFileSize,
	}
}

// UploadPicture загружает изображение товара и возвращает ключ объекта
// вместе с публичным URL. Ключ устойчив к коллизиям: временной префикс
// плюс оригинальное имя файла плюс uuid.
func (m *MinioInfrastructure) UploadPicture(ctx context.Context, req *usecase.UploadPictureReq) (*usecase.UploadPictureRes, error) {
	const op = "MinioInfrastructure.UploadPicture"

	if int64(len(req.Data)) > m.maxFileSize {
		return nil, e.Wrap(op, e.ErrFileTooLarge)
	}

	ext, err := infrastructure.GetExtensionFromMIME(req.MimeType)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", req.MimeType, req.FileName, err))
	}

	imageID := uuid.NewString()
	size := int64(len(req.Data))
	objKey := fmt.Sprintf("%d_%s-%s.%s", time.Now().UnixMilli(), req.FileName, imageID, ext)
	image := domain.NewImage(imageID, m.cfg.BucketName, objKey, req.Data, &size, &req.MimeType)

	key, err := m.minioRepo.Upload(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("upload %s failed: %w", req.FileName, err))
	}

	return usecase.NewUploadPictureRes(key, m.minioRepo.PublicURL(key)), nil
}

// CleanupPictures запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupPictures(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const (
		op          = "MinioInfrastructure.cleanupUploadedKeys"
		maxAttempts = 3
		baseBackoff = time.Second
		maxBackoff  = 10 * time.Second
	)
	m.logger.Infof("%s: Cleaning up uploaded keys", op)

	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < maxAttempts; attempt++ {
			if err := m.minioRepo.Delete(ctx, key); err == nil {
				break // Успешно удалено
			}

			select {
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < maxAttempts-1 {
				sleepTime := jitter.ExponentialBackoff(baseBackoff, maxBackoff, attempt, jitter.DefaultJitter)

				select {
				case <-time.After(sleepTime):
				case <-ctx.Done():
					m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
					return
				}
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
