package middleware

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"

	"github.com/yorklin/linkly/kit/code"
	httpKit "github.com/yorklin/linkly/kit/http"
)

type AuthFunc func(ctx context.Context, token string) (userID int64, err error)

// CreateAuthMiddleware requires a verifiable token and stores the owner
// identity on the context.
func CreateAuthMiddleware(authFunc AuthFunc) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			token := httpKit.GetToken(ctx)
			if token == "" {
				return nil, code.CreateErrorCode(http.StatusUnauthorized)
			}
			userID, err := authFunc(ctx, token)
			if err != nil {
				return nil, code.CreateErrorCode(http.StatusUnauthorized).AddErrorMetaData(err)
			}
			ctx = httpKit.AddUserID(ctx, userID)
			return e(ctx, request)
		}
	}
}

// CreateOptionalAuthMiddleware resolves the identity when a token is
// present and otherwise lets the request through anonymously.
func CreateOptionalAuthMiddleware(authFunc AuthFunc) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			if token := httpKit.GetToken(ctx); token != "" {
				if userID, err := authFunc(ctx, token); err == nil {
					ctx = httpKit.AddUserID(ctx, userID)
				}
			}
			return e(ctx, request)
		}
	}
}
