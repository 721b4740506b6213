package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase — вход администратора по email/паролю и проверка сессии.
// Ядро каталога использует только факт наличия пользователя; ролей
// и разграничения прав здесь нет.
type AuthUseCase struct {
	adminRepo AdminRepository
	logger    logger.Logger
	secret    []byte
	tokenTTL  time.Duration
}

func NewAuthUseCase(adminRepo AdminRepository, logger logger.Logger, secret string, tokenTTL time.Duration) *AuthUseCase {
	return &AuthUseCase{
		adminRepo: adminRepo,
		logger:    logger,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	AdminID int64 `json:"admin_id"`
}

// SignIn проверяет учетные данные и возвращает подписанный токен сессии.
func (a *AuthUseCase) SignIn(ctx context.Context, req *SignInReq) (string, error) {
	const op = "AuthUseCase.SignIn"

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return "", e.Wrap(op, e.ErrInvalidCredentials)
	}

	admin, err := a.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrAdminNotFound) {
			return "", e.Wrap(op, e.ErrInvalidCredentials)
		}
		return "", e.Wrap(op, err)
	}
	if admin == nil {
		return "", e.Wrap(op, e.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return "", e.Wrap(op, e.ErrInvalidCredentials)
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		AdminID: admin.ID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return token, nil
}

// CurrentUser валидирует токен сессии и возвращает администратора либо nil.
func (a *AuthUseCase) CurrentUser(ctx context.Context, token string) (*User, error) {
	const op = "AuthUseCase.CurrentUser"

	if token == "" {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	return &User{ID: claims.AdminID, Email: claims.Subject}, nil
}
