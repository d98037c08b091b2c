package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
	// MaxPage keeps (page-1)*limit well inside int range.
	MaxPage = 1_000_000

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list query parameters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Status  string
}

// Offset returns the row offset for the current page. Page and limit are
// clamped to MaxPage and MaxLimit, so the result is never negative.
func (f ListFilters) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (min(f.Page, MaxPage) - 1) * min(f.Limit, MaxLimit)
}

// ParseListFilters reads pagination, search, sort and status parameters.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	dir := strings.ToLower(q.Get("dir"))
	if dir != SortDesc {
		dir = SortAsc
	}
	return ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(q.Get("search")),
		SortBy:  strings.TrimSpace(q.Get("sort")),
		SortDir: dir,
		Status:  strings.TrimSpace(q.Get("status")),
	}
}

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, Invalid("id", "must be a positive integer")
	}
	return id, nil
}

// Page is the paginated collection returned by list endpoints.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
