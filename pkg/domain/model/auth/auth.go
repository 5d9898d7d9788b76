package auth

import "context"

// User is the authenticated caller of the API
type User struct {
	ID   string
	Role string
}

type ctxUserKey struct{}

// ContextWithUser embeds the authenticated user into ctx
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the authenticated user, or nil when the request is anonymous
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxUserKey{}).(*User)
	return user
}
