package services

import "errors"

var (
	ErrAssetUnavailable = errors.New("asset unavailable")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidCard      = errors.New("invalid character card")
	ErrNoFreeName       = errors.New("no free name")
	ErrUnknownEntry     = errors.New("unknown entry")
)
