package utils

import "context"

// Account is the signed-in marketplace user a request acts for.
type Account struct {
	ID    uint
	Email string
	Role  string
}

type accountKey struct{}

func WithAccount(ctx context.Context, a Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

// AccountFrom reports the account attached by the auth middleware. Anonymous
// requests have none.
func AccountFrom(ctx context.Context) (Account, bool) {
	a, ok := ctx.Value(accountKey{}).(Account)
	return a, ok && a.ID != 0
}

// AccountID is shorthand for handlers that only need the wallet owner.
func AccountID(ctx context.Context) (uint, bool) {
	a, ok := AccountFrom(ctx)
	return a.ID, ok
}
