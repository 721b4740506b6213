package http

import (
	"net/http"
	"strconv"

	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminHandler переводит HTTP-запросы администратора в переходы AdminWorkflow.
type AdminHandler struct {
	workflow *usecase.AdminWorkflow
	logger   logger.Logger
}

func NewAdminHandler(workflow *usecase.AdminWorkflow, logger logger.Logger) *AdminHandler {
	return &AdminHandler{workflow: workflow, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт новый товар в каталоге
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			draft	body		DraftRequest	true	"Черновик товара"
//	@Success		201		{object}	map[string]bool
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/admin/products [post]
func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	draft, err := parseDraftBody(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	h.workflow.CancelEdit()
	h.workflow.SetForm(*draft)

	if err := h.workflow.Submit(r.Context()); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]bool{"created": true})
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Полностью заменяет поля существующего товара
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int				true	"Идентификатор товара"
//	@Param			draft	body		DraftRequest	true	"Черновик товара"
//	@Success		200		{object}	map[string]bool
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/admin/products/{id} [put]
func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidProductID.Error(), chi.URLParam(r, "id"))
		WriteError(w, err)
		return
	}

	draft, err := parseDraftBody(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	if err := h.workflow.BeginEdit(id); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	h.workflow.SetForm(*draft)

	if err := h.workflow.Submit(r.Context()); err != nil {
		h.workflow.CancelEdit()
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"updated": true})
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Идентификатор товара"
//	@Success		200	{object}	map[string]bool
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/admin/products/{id} [delete]
func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidProductID.Error(), chi.URLParam(r, "id"))
		WriteError(w, err)
		return
	}

	deleted, err := h.workflow.RequestDelete(r.Context(), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Принимает один файл и возвращает публичный URL
//	@Tags			admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image	formData	file	true	"Файл изображения"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Router			/admin/products/image [post]
func (h *AdminHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		h.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrNoFile.Error())
		WriteError(w, e.ErrNoFile)
		return
	}

	data, mimeType, err := readFile(files[0], maxFileSize)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if err := h.workflow.AttachImage(r.Context(), files[0].Filename, data, mimeType); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"picture": h.workflow.Form().Picture})
}

func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidProductID
	}
	return id, nil
}
