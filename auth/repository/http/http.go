package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
)

type authClient struct {
	url string
}

type authVerifyRequest struct {
	AccessToken string `json:"access_token"`
}

type authVerifyResponse struct {
	UserID int64 `json:"user_id"`
}

// CreateAuthClient talks to the external auth service. Credentials are
// never issued or validated here, only exchanged for an owner id.
func CreateAuthClient(url string) domain.AuthService {
	return &authClient{url: url}
}

func (a *authClient) Verify(ctx context.Context, accessToken string) (int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(&authVerifyRequest{
		AccessToken: accessToken,
	}); err != nil {
		return 0, errors.Wrap(err, "encode verify request failed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/api/v1/auth/verify", &buf)
	if err != nil {
		return 0, errors.Wrap(err, "create verify request failed")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "verify request failed")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, errors.Errorf("verify failed with status %d", res.StatusCode)
	}
	var verifyRes authVerifyResponse
	if err := json.NewDecoder(res.Body).Decode(&verifyRes); err != nil {
		return 0, errors.Wrap(err, "decode verify response failed")
	}
	return verifyRes.UserID, nil
}
