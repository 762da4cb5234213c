package util

import (
	"github.com/jxskiss/base62"
	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
)

// shortCodeAlphabet is pinned so codes stay stable across library upgrades.
const shortCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var shortCodeEncoding = base62.NewEncoding(shortCodeAlphabet)

// EncodeShortCode maps a store-assigned identity to its short code. The
// mapping is total over non-negative identities and injective, so distinct
// records can never collide. Identities come from an autoincrement column
// and are never negative.
func EncodeShortCode(id int64) (string, error) {
	if id < 0 {
		return "", errors.Wrapf(domain.ErrInvalidArgument, "cannot encode negative id %d", id)
	}
	if id == 0 {
		return "0", nil
	}
	return string(shortCodeEncoding.FormatInt(id)), nil
}

// DecodeShortCode is the inverse of EncodeShortCode. Resolution never needs
// it, the store is keyed by the code itself, but tooling and tests do.
func DecodeShortCode(code string) (int64, error) {
	if code == "" {
		return 0, errors.Wrap(domain.ErrInvalidArgument, "empty short code")
	}
	id, err := shortCodeEncoding.ParseInt([]byte(code))
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidArgument, "parse short code %q failed", code)
	}
	return id, nil
}
