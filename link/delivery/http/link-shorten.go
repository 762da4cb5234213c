package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	"github.com/yorklin/linkly/kit/code"
	httpKit "github.com/yorklin/linkly/kit/http"
)

type linkShortenRequest struct {
	URL string `json:"url"`
}

func MakeLinkShortenEndpoint(svc domain.LinkLifecycle, publicURL string) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkShortenRequest)
		link, err := svc.Create(ctx, req.URL, httpKit.GetUserID(ctx))
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidURL).AddErrorMetaData(err)
			}
			return nil, createErrorCode(err)
		}
		return createLinkResponse(link, publicURL), nil
	}
}

func DecodeLinkShortenRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	var request linkShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	return request, nil
}

func EncodeLinkShortenResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(response)
}
