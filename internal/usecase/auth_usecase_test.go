package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/drsn-tech/catalog-core/internal/domain"
	"github.com/drsn-tech/catalog-core/pkg/e"
	"github.com/drsn-tech/catalog-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin, ok := r.admins[email]
	if !ok {
		return nil, e.ErrAdminNotFound
	}
	return admin, nil
}

func newTestAuth(t *testing.T, password string) *AuthUseCase {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAdminRepo{admins: map[string]*domain.Admin{
		"admin@example.com": {ID: 1, Email: "admin@example.com", PasswordHash: string(hash)},
	}}

	return NewAuthUseCase(repo, logger.NewSlogLogger(), "test-secret", time.Hour)
}

func TestAuthUseCase_SignInAndCurrentUser(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	token, err := auth.SignIn(context.Background(), NewSignInReq("admin@example.com", "swordfish"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := auth.CurrentUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin@example.com", user.Email)
}

func TestAuthUseCase_SignInNormalizesEmail(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	token, err := auth.SignIn(context.Background(), NewSignInReq("  Admin@Example.COM ", "swordfish"))

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthUseCase_SignInWrongPassword(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	_, err := auth.SignIn(context.Background(), NewSignInReq("admin@example.com", "guppy"))

	require.ErrorIs(t, err, e.ErrInvalidCredentials)
}

func TestAuthUseCase_SignInUnknownEmail(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	_, err := auth.SignIn(context.Background(), NewSignInReq("nobody@example.com", "swordfish"))

	require.ErrorIs(t, err, e.ErrInvalidCredentials)
}

func TestAuthUseCase_SignInEmptyCredentials(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	_, err := auth.SignIn(context.Background(), NewSignInReq("", ""))

	require.ErrorIs(t, err, e.ErrInvalidCredentials)
}

func TestAuthUseCase_CurrentUserRejectsTamperedToken(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	token, err := auth.SignIn(context.Background(), NewSignInReq("admin@example.com", "swordfish"))
	require.NoError(t, err)

	_, err = auth.CurrentUser(context.Background(), token+"x")
	require.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestAuthUseCase_CurrentUserRejectsEmptyToken(t *testing.T) {
	auth := newTestAuth(t, "swordfish")

	_, err := auth.CurrentUser(context.Background(), "")

	require.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestAuthUseCase_CurrentUserRejectsForeignSecret(t *testing.T) {
	auth := newTestAuth(t, "swordfish")
	other := NewAuthUseCase(&fakeAdminRepo{}, logger.NewSlogLogger(), "other-secret", time.Hour)

	token, err := auth.SignIn(context.Background(), NewSignInReq("admin@example.com", "swordfish"))
	require.NoError(t, err)

	_, err = other.CurrentUser(context.Background(), token)
	require.ErrorIs(t, err, e.ErrInvalidToken)
}
