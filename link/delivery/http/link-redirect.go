package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	"github.com/yorklin/linkly/domain"
	"github.com/yorklin/linkly/kit/code"
)

type linkRedirectRequest struct {
	ShortCode string
}

type linkRedirectResponse struct {
	TargetURL string
}

func MakeLinkRedirectEndpoint(svc domain.LinkResolver) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkRedirectRequest)
		targetURL, err := svc.Resolve(ctx, req.ShortCode)
		if err != nil {
			return nil, createErrorCode(err)
		}
		return linkRedirectResponse{TargetURL: targetURL}, nil
	}
}

func DecodeLinkRedirectRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	shortCode, ok := mux.Vars(r)["shortCode"]
	if !ok || shortCode == "" {
		return nil, code.CreateErrorCode(http.StatusNotFound)
	}
	return linkRedirectRequest{ShortCode: shortCode}, nil
}

func EncodeLinkRedirectResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(linkRedirectResponse)
	w.Header().Set("Location", res.TargetURL)
	w.WriteHeader(http.StatusTemporaryRedirect)
	return nil
}
