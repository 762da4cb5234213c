package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	"github.com/yorklin/linkly/domain"
	"github.com/yorklin/linkly/kit/code"
	httpKit "github.com/yorklin/linkly/kit/http"
)

type linkDeleteRequest struct {
	ShortCode string
}

type linkDeleteResponse struct{}

// MakeLinkDeleteEndpoint performs a soft delete: the link becomes
// inactive, the record stays.
func MakeLinkDeleteEndpoint(svc domain.LinkLifecycle) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkDeleteRequest)
		if err := svc.Delete(ctx, req.ShortCode, httpKit.GetUserID(ctx)); err != nil {
			return nil, createErrorCode(err)
		}
		return linkDeleteResponse{}, nil
	}
}

func DecodeLinkDeleteRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	shortCode, ok := mux.Vars(r)["shortCode"]
	if !ok || shortCode == "" {
		return nil, code.CreateErrorCode(http.StatusNotFound)
	}
	return linkDeleteRequest{ShortCode: shortCode}, nil
}

func EncodeLinkDeleteResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}
