package http

import (
	"encoding/json"
	"net/http"

	"github.com/drsn-tech/catalog-core/internal/usecase"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type MeResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// signIn
//
//	@Summary		Вход администратора
//	@Description	Проверяет учётные данные и выдаёт JWT
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		SignInRequest	true	"Учётные данные"
//	@Success		200			{object}	SignInResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Router			/auth/login [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrMissingFields.Error())
		WriteError(w, e.ErrMissingFields)
		return
	}

	token, err := h.authUsecase.SignIn(r.Context(), usecase.NewSignInReq(req.Email, req.Password))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SignInResponse{Token: token})
}

// me
//
//	@Summary		Текущий администратор
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	MeResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/auth/me [get]
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := usecase.UserFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrUnauthorized)
		return
	}

	WriteSuccess(w, http.StatusOK, MeResponse{ID: user.ID, Email: user.Email})
}
