package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"

	"github.com/yorklin/linkly/domain"
	"github.com/yorklin/linkly/kit/code"
	httpKit "github.com/yorklin/linkly/kit/http"
)

type linkStatusUpdateRequest struct {
	ShortCode string `json:"-"`
	Status    string `json:"status"`
}

func MakeLinkStatusUpdateEndpoint(svc domain.LinkLifecycle, publicURL string) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkStatusUpdateRequest)
		link, err := svc.SetStatus(ctx, req.ShortCode, domain.LinkStatus(req.Status), httpKit.GetUserID(ctx))
		if err != nil {
			return nil, createErrorCode(err)
		}
		return createLinkResponse(link, publicURL), nil
	}
}

func DecodeLinkStatusUpdateRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	shortCode, ok := mux.Vars(r)["shortCode"]
	if !ok || shortCode == "" {
		return nil, code.CreateErrorCode(http.StatusNotFound)
	}
	var request linkStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
	}
	request.ShortCode = shortCode
	return request, nil
}

func EncodeLinkStatusUpdateResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}
