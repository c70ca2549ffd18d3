package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination reads ?page= and ?limit= into a mongo skip/limit pair.
func ParsePagination(r *http.Request, defLimit, maxLimit int64) (skip, limit int64) {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return (page - 1) * limit, limit
}

// ParseLimit reads ?limit= with a default and a hard cap.
func ParseLimit(r *http.Request, def, max int64) int64 {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
