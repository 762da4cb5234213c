package domain

import "github.com/pkg/errors"

var (
	// ErrLinkNotFound covers unknown short codes and mutations by a
	// non-owner. Callers cannot tell the two apart.
	ErrLinkNotFound = errors.New("link not found")

	// ErrLinkInactive is an expected outcome, not a defect: the code is
	// known but has been deactivated.
	ErrLinkInactive = errors.New("link inactive")

	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCacheEntryMalformed reports an undecodable cache payload. The
	// resolver treats it as a miss and drops the entry.
	ErrCacheEntryMalformed = errors.New("malformed cache entry")
)
