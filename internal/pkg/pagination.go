package pkg

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "id:desc"
)

var sortColumn = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ParsePageRequest reads page, page_size and sort from the request query.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	return ParseQuery(c.Request.URL.Query())
}

// ParseQuery reads page, page_size and sort from q. Missing or malformed values
// fall back to page 1, 20 per page, newest first; page_size is capped at 100.
func ParseQuery(q url.Values) domain.PageRequest {
	req := domain.PageRequest{
		Page:     positiveInt(q.Get("page"), 1),
		PageSize: min(positiveInt(q.Get("page_size"), defaultPageSize), maxPageSize),
		Sort:     strings.TrimSpace(q.Get("sort")),
	}
	if req.Sort == "" {
		req.Sort = defaultSort
	}
	return req
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// SortOrder is a parsed "column:asc|desc" sort parameter.
type SortOrder struct {
	Column string
	Desc   bool
}

// ParseSort parses sort and reports whether column is one of allowed.
func ParseSort(sort string, allowed []string) (SortOrder, bool) {
	column, dir, ok := strings.Cut(sort, ":")
	if !ok {
		return SortOrder{}, false
	}
	column = strings.TrimSpace(column)
	if !sortColumn.MatchString(column) || !slices.Contains(allowed, column) {
		return SortOrder{}, false
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return SortOrder{Column: column}, true
	case "desc":
		return SortOrder{Column: column, Desc: true}, true
	}
	return SortOrder{}, false
}

func (o SortOrder) String() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// Sort is a scope ordering by req.Sort. A sort on a column outside allowed is
// ignored rather than rejected.
func Sort(req domain.PageRequest, allowed []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if order, ok := ParseSort(req.Sort, allowed); ok {
			return db.Order(order.String())
		}
		return db
	}
}

// Paginate is a scope selecting the rows of req's page.
func Paginate(req domain.PageRequest) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, size := max(req.Page, 1), max(req.PageSize, 1)
		return db.Offset((page - 1) * size).Limit(size)
	}
}

// NewPageResult wraps one page of items. Items is never nil so it encodes as [].
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *domain.PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.PageSize > 0 {
		pages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &domain.PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: pages,
	}
}
