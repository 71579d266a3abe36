// Package listing narrows and orders in-memory snapshots. Every function
// returns a new slice and leaves its input untouched.
package listing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidSortKey     = errors.New("invalid sort key")
	ErrUnsupportedSortKey = errors.New("sort key not supported for this collection")
)

// All is the wildcard value accepted by exact-match filters.
const All = "all"

// SortKey selects the comparator applied after filtering.
type SortKey string

const (
	SortName     SortKey = "name"
	SortDate     SortKey = "date"
	SortType     SortKey = "type"
	SortSize     SortKey = "size"
	SortPriority SortKey = "priority"
)

// ParseSortKey validates a raw key; the empty string selects SortDate.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortDate, nil
	case SortName, SortDate, SortType, SortSize, SortPriority:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// Predicate reports whether an item is kept.
type Predicate[T any] func(T) bool

// Filter keeps the items satisfying every predicate. Nil predicates are
// inactive filters and are skipped.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	active := slices.DeleteFunc(slices.Clone(preds), func(p Predicate[T]) bool { return p == nil })

	out := make([]T, 0, len(items))

outer:
	for _, it := range items {
		for _, p := range active {
			if !p(it) {
				continue outer
			}
		}

		out = append(out, it)
	}

	return out
}

// Contains matches items where any field contains query, ignoring case.
// A blank query yields no predicate.
func Contains[T any](query string, fields func(T) []string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	return func(it T) bool {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}

		return false
	}
}

// Equals matches items whose value equals want. An empty want or All yields
// no predicate.
func Equals[T any, V ~string](want V, get func(T) V) Predicate[T] {
	if want == "" || string(want) == All {
		return nil
	}

	return func(it T) bool { return get(it) == want }
}

// Between matches items whose time lies within [from, to]. Either bound may
// be nil.
func Between[T any](from, to *time.Time, get func(T) time.Time) Predicate[T] {
	if from == nil && to == nil {
		return nil
	}

	return func(it T) bool {
		t := get(it)
		if from != nil && t.Before(*from) {
			return false
		}

		if to != nil && t.After(*to) {
			return false
		}

		return true
	}
}

// Sort returns a copy of items ordered by cmp, reversed when desc is set.
// Ties fall back to id ascending regardless of direction, so repeated sorts
// of equal inputs are identical.
func Sort[T any](items []T, cmp func(a, b T) int, id func(T) string, desc bool) []T {
	out := slices.Clone(items)

	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp(a, b)
		if desc {
			c = -c
		}

		if c != 0 {
			return c
		}

		return strings.Compare(id(a), id(b))
	})

	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
