package auth

import (
	"context"

	"github.com/raushankrgupta/phoneswap-server/models"
)

type ctxKey int

const (
	emailKey ctxKey = iota
	userKey
)

// WithEmail stores the authenticated email in ctx.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the email set by Authenticate.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

// WithUser stores the user loaded by Authorize in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user loaded by Authorize.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
