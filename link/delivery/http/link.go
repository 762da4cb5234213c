package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	"github.com/yorklin/linkly/kit/code"
)

type linkResponse struct {
	ID          int64  `json:"id"`
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	Status      string `json:"status"`
	VisitCount  int64  `json:"visit_count"`
	CreatedAt   string `json:"created_at"`
}

func createLinkResponse(link *domain.Link, publicURL string) linkResponse {
	return linkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    createFullShortURL(publicURL, link.ShortCode),
		OriginalURL: link.OriginalURL,
		Status:      string(link.Status),
		VisitCount:  link.VisitCount,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
	}
}

func createFullShortURL(publicURL, shortCode string) string {
	return strings.TrimRight(publicURL, "/") + "/" + shortCode
}

// createErrorCode maps expected domain outcomes onto transport error
// codes. Unknown short codes and unauthorized mutations share the same
// 404. Anything unexpected becomes an internal error with the origin
// attached for logging.
func createErrorCode(err error) error {
	switch {
	case errors.Is(err, domain.ErrLinkNotFound):
		return code.CreateErrorCode(http.StatusNotFound)
	case errors.Is(err, domain.ErrLinkInactive):
		return code.CreateErrorCode(http.StatusGone).AddCode(code.LinkInactive)
	case errors.Is(err, domain.ErrInvalidArgument):
		return code.CreateErrorCode(http.StatusBadRequest).AddErrorMetaData(err)
	default:
		return code.CreateErrorCode(http.StatusInternalServerError).AddErrorMetaData(err)
	}
}
