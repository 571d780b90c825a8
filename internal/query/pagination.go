package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 500
)

// Page is a validated page request; Number and Limit are always positive.
type Page struct {
	Number int
	Limit  int
}

// PageError reports which pagination parameter was rejected.
type PageError struct {
	Param   string
	Message string
}

func (e *PageError) Error() string {
	return e.Message
}

// ParsePage reads the raw page and limit query values. Missing values take
// the defaults; non-integer, non-positive or oversized values are rejected.
func ParsePage(pageStr, limitStr string) (Page, error) {
	page := Page{Number: DefaultPage, Limit: DefaultLimit}

	if s := strings.TrimSpace(pageStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, &PageError{Param: "page", Message: "page must be a positive integer"}
		}
		page.Number = n
	}
	if s := strings.TrimSpace(limitStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, &PageError{Param: "limit", Message: "limit must be a positive integer"}
		}
		if n > MaxLimit {
			return Page{}, &PageError{Param: "limit", Message: fmt.Sprintf("limit must not exceed %d", MaxLimit)}
		}
		page.Limit = n
	}
	// Offset()+Limit must fit in an int.
	if page.Number-1 > (math.MaxInt-page.Limit)/page.Limit {
		return Page{}, &PageError{Param: "page", Message: "page is out of range"}
	}
	return page, nil
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Pagination is the metadata half of the search envelope.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// Paginate derives the pagination metadata for a filtered total.
func Paginate(p Page, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    p.Offset()+p.Limit < total,
	}
}

// Envelope is the response body of every paginated search.
type Envelope[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewEnvelope never returns a nil Data slice so empty pages encode as [].
func NewEnvelope[T any](data []T, p Page, total int) Envelope[T] {
	if data == nil {
		data = []T{}
	}
	return Envelope[T]{Data: data, Pagination: Paginate(p, total)}
}

// Empty is the envelope substituted when an optional table is unavailable.
func Empty[T any](p Page) Envelope[T] {
	return NewEnvelope[T](nil, p, 0)
}
