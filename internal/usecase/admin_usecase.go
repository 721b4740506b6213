package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

// AdminWorkflow — машина состояний формы администратора с двумя
// взаимоисключающими режимами: Create и Edit. Персистентность полностью
// делегирована CatalogStore; воркфлоу владеет только состоянием формы.
type AdminWorkflow struct {
	catalog  CatalogUC
	pictures PictureInfra
	confirm  Confirmer
	logger   logger.Logger

	mu      sync.Mutex
	form    ProductDraft
	editID  int64
	editing bool

	// Ключ объекта последнего загруженного, но еще не отправленного
	// изображения. Повторная загрузка до submit делает прежний объект
	// сиротой, и он отправляется на удаление.
	pendingKey string
}

func NewAdminWorkflow(catalog CatalogUC, pictures PictureInfra, confirm Confirmer, logger logger.Logger) *AdminWorkflow {
	return &AdminWorkflow{
		catalog:  catalog,
		pictures: pictures,
		confirm:  confirm,
		logger:   logger,
	}
}

// Mode возвращает текущий режим формы.
func (w *AdminWorkflow) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.editing {
		return ModeEdit
	}
	return ModeCreate
}

// Form возвращает копию текущего состояния формы.
func (w *AdminWorkflow) Form() ProductDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SetForm заменяет состояние формы (ввод пользователя).
// Форму ведет один администратор за раз: пара SetForm/Submit
// не атомарна и между конкурентными вызовами не сериализуется.
func (w *AdminWorkflow) SetForm(form ProductDraft) {
	w.mu.Lock()
	w.form = form
	w.mu.Unlock()
}

// BeginEdit копирует поля товара из видимого списка в форму и
// запоминает его ID. Режим Create при этом завершается.
func (w *AdminWorkflow) BeginEdit(id int64) error {
	const op = "AdminWorkflow.BeginEdit"

	for _, product := range w.catalog.Products() {
		if product.ID == id {
			w.mu.Lock()
			w.form = draftFromProduct(&product)
			w.editID = id
			w.editing = true
			w.mu.Unlock()
			return nil
		}
	}

	return e.Wrap(op, e.ErrProductNotFound)
}

// CancelEdit завершает сессию редактирования и сбрасывает форму.
func (w *AdminWorkflow) CancelEdit() {
	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()
}

// Submit валидирует форму и выполняет insert либо update в зависимости
// от режима. При успехе форма сбрасывается; режим Edit завершается,
// режим Create сохраняется. При ошибке форма остается нетронутой,
// чтобы администратор мог повторить отправку.
func (w *AdminWorkflow) Submit(ctx context.Context) error {
	const op = "AdminWorkflow.Submit"

	w.mu.Lock()
	form := w.form
	editing := w.editing
	editID := w.editID
	w.mu.Unlock()

	if err := ValidateDraft(&form); err != nil {
		return e.Wrap(op, err)
	}

	if editing {
		if err := w.catalog.Update(ctx, editID, &form); err != nil {
			return e.Wrap(op, err)
		}
	} else {
		if _, err := w.catalog.Insert(ctx, &form); err != nil {
			return e.Wrap(op, err)
		}
	}

	w.mu.Lock()
	w.resetLocked()
	w.mu.Unlock()
	return nil
}

// RequestDelete запрашивает блокирующее подтверждение и удаляет товар.
// Возвращает false без ошибки, если пользователь отказался.
// Удаление товара, открытого на редактирование, завершает сессию Edit.
func (w *AdminWorkflow) RequestDelete(ctx context.Context, id int64) (bool, error) {
	const op = "AdminWorkflow.RequestDelete"

	if !w.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete product %d?", id)) {
		return false, nil
	}

	if err := w.catalog.Delete(ctx, id); err != nil {
		return false, e.Wrap(op, err)
	}

	w.mu.Lock()
	if w.editing && w.editID == id {
		w.resetLocked()
	}
	w.mu.Unlock()

	return true, nil
}

// AttachImage загружает изображение в хранилище и записывает публичный URL
// в поле Picture формы. При ошибке загрузки прежнее значение Picture
// сохраняется. Если до отправки формы уже было загружено другое
// изображение, осиротевший объект удаляется из хранилища в фоне.
func (w *AdminWorkflow) AttachImage(ctx context.Context, fileName string, data []byte, mimeType string) error {
	const op = "AdminWorkflow.AttachImage"

	res, err := w.pictures.UploadPicture(ctx, NewUploadPictureReq(fileName, data, mimeType))
	if err != nil {
		return e.Wrap(op, fmt.Errorf("%w: %w", e.ErrUploadFailed, err))
	}

	w.mu.Lock()
	orphan := w.pendingKey
	w.form.Picture = res.URL
	w.pendingKey = res.ObjectKey
	w.mu.Unlock()

	if orphan != "" && orphan != res.ObjectKey {
		w.pictures.CleanupPictures([]string{orphan})
	}

	return nil
}

// ValidateDraft проверяет обязательные поля черновика перед отправкой.
// Brand, category и picture обязательными не являются.
func ValidateDraft(draft *ProductDraft) error {
	if strings.TrimSpace(draft.Name) == "" ||
		strings.TrimSpace(draft.ShopeeURL) == "" ||
		strings.TrimSpace(draft.TiktokURL) == "" {
		return e.ErrMissingFields
	}

	return nil
}

// resetLocked сбрасывает форму и снимает объект с ожидания: после
// успешного submit изображение принадлежит товару и не удаляется.
func (w *AdminWorkflow) resetLocked() {
	w.form = ProductDraft{}
	w.editID = 0
	w.editing = false
	w.pendingKey = ""
}
