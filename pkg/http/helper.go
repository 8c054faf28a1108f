package http

import (
	"net/http"
	"strconv"

	apperrors "eventease/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ExtractPageLimit reads the 1-indexed page/limit query parameters,
// applying defaults and clamping the limit.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := DefaultPage
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := DefaultLimit
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit, nil
}
