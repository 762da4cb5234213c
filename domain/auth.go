package domain

import "context"

// AuthService is the opaque identity provider. The core only ever
// compares the returned owner id for equality.
type AuthService interface {
	Verify(ctx context.Context, accessToken string) (int64, error)
}
