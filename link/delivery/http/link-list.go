package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-kit/kit/endpoint"

	"github.com/yorklin/linkly/domain"
	httpKit "github.com/yorklin/linkly/kit/http"
)

type linkListRequest struct {
	Offset int
	Limit  int
}

type linkListResponse struct {
	Links []linkResponse `json:"links"`
}

// MakeLinkListEndpoint returns recent links. Authenticated requests see
// their own links; anonymous requests see the shared history.
func MakeLinkListEndpoint(svc domain.LinkLifecycle, publicURL string) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(linkListRequest)
		var ownerID *int64
		if userID := httpKit.GetUserID(ctx); userID != 0 {
			ownerID = &userID
		}
		links, err := svc.List(ctx, ownerID, req.Offset, req.Limit)
		if err != nil {
			return nil, createErrorCode(err)
		}
		res := linkListResponse{Links: make([]linkResponse, len(links))}
		for idx, link := range links {
			res.Links[idx] = createLinkResponse(link, publicURL)
		}
		return res, nil
	}
}

func DecodeLinkListRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	var request linkListRequest
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		request.Offset = offset
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		request.Limit = limit
	}
	return request, nil
}

func EncodeLinkListResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}
