package helpers

import (
	"net/http"
	"strconv"
)

type PageResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// PageParams reads ?page= and ?limit=. Bad or missing values come back as 0
// and the services fall back to their defaults.
func PageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	return page, limit
}
