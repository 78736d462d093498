package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageRequest selects one page of a listing. Sort is "column:asc" or
// "column:desc".
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
}

// PageResult is one page of a listing together with its position in the whole set.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// HasPrev reports whether a page before this one exists.
func (p *PageResult[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a page after this one exists.
func (p *PageResult[T]) HasNext() bool {
	return p.Page < p.TotalPages
}
