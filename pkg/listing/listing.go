// Package listing filters, sorts and pages small in-memory collections the
// way list screens do.
package listing

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const DefaultPageSize = 15

type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// Filter returns the items keep accepts, in their original order. A nil
// keep returns a copy of items.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Sort returns a stably sorted copy.
func Sort[T any](items []T, cmp func(a, b T) int) []T {
	out := slices.Clone(items)
	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Paginate slices items into page number page (1-based). Out of range
// pages are clamped, so consecutive pages never overlap and together cover
// items exactly once.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return Page[T]{
		Items:      items[start:end:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Query combines the three steps.
type Query[T any] struct {
	Match    func(T) bool
	Compare  func(a, b T) int
	Page     int
	PageSize int
}

func Apply[T any](items []T, q Query[T]) Page[T] {
	return Paginate(Sort(Filter(items, q.Match), q.Compare), q.Page, q.PageSize)
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics, so "São Paulo" and "sao paulo"
// compare equal.
func Fold(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ContainsFold reports whether any field contains query after folding. An
// empty query matches everything.
func ContainsFold(query string, fields ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}
