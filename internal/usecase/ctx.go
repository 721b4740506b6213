package usecase

import "context"

type ctxKey int

const userCtxKey ctxKey = iota

// CtxWithUser кладет аутентифицированного администратора в контекст.
// Состояние авторизации передается явно, а не через глобальные переменные.
func CtxWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromCtx извлекает текущего администратора из контекста.
func UserFromCtx(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userCtxKey).(*User)
	return user, ok && user != nil
}
