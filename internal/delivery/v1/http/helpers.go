package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrNoFile):
		return http.StatusBadRequest, e.ErrNoFile.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrUnknownSuggestField):
		return http.StatusBadRequest, e.ErrUnknownSuggestField.Error()
	case errors.Is(err, e.ErrInvalidCredentials):
		return http.StatusUnauthorized, e.ErrInvalidCredentials.Error()
	case errors.Is(err, e.ErrInvalidToken):
		return http.StatusUnauthorized, e.ErrInvalidToken.Error()
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, e.ErrUnauthorized.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrMutationInFlight):
		return http.StatusConflict, e.ErrMutationInFlight.Error()
	case errors.Is(err, e.ErrMutationFailed),
		errors.Is(err, e.ErrUploadFailed),
		errors.Is(err, e.ErrLoadFailed):
		// Сообщение шлюза уходит администратору как есть.
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

type DraftRequest struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	Picture   string `json:"picture"`
	ShopeeURL string `json:"shopee_url"`
	TiktokURL string `json:"tiktok_url"`
}

func parseDraftBody(r *http.Request) (*usecase.ProductDraft, error) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ShopeeURL) == "" || strings.TrimSpace(req.TiktokURL) == "" {
		return nil, e.Wrap(fmt.Sprintf("name: %q, shopee_url: %q, tiktok_url: %q", req.Name, req.ShopeeURL, req.TiktokURL), e.ErrMissingFields)
	}

	return &usecase.ProductDraft{
		Name:      req.Name,
		Brand:     req.Brand,
		Category:  req.Category,
		Picture:   req.Picture,
		ShopeeURL: req.ShopeeURL,
		TiktokURL: req.TiktokURL,
	}, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
