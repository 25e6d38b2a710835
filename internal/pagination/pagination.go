// Package pagination implements page-number pagination with absolute
// next/previous links.
package pagination

import (
	"math"
	"net/url"
	"strconv"

	"github.com/pageza/foodgram/backend/internal/apperror"
)

const (
	DefaultSize = 6
	MaxSize     = 100
	PageParam   = "page"
)

type Params struct {
	Page int
	Size int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// FromQuery reads the page number and, when sizeParam is non-empty, a page
// size override from the query. Missing values fall back to page 1 and
// defaultSize.
func FromQuery(q url.Values, sizeParam string, defaultSize int) (Params, error) {
	p := Params{Page: 1, Size: defaultSize}

	if raw := q.Get(PageParam); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperror.ValidationFailed(PageParam, "page must be a positive integer")
		}
		p.Page = n
	}

	if sizeParam != "" {
		if raw := q.Get(sizeParam); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return p, apperror.ValidationFailed(sizeParam, sizeParam+" must be a positive integer")
			}
			p.Size = min(n, MaxSize)
		}
	}

	// Page*Size must fit in an int for offsets and links.
	if p.Page > math.MaxInt/p.Size {
		return p, apperror.ValidationFailed(PageParam, "page is out of range")
	}
	return p, nil
}

// Page is one page of results.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// New builds a page whose links are derived from base, the absolute URL of
// the current request.
func New[T any](base *url.URL, p Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Page*p.Size) < count {
		next := link(base, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := link(base, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func link(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page == 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
