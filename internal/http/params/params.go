// Package params parses path and query parameters shared by the handlers.
package params

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
)

var ErrInvalid = errors.New("invalid parameter")

func UUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalid, name)
	}

	return id, nil
}

// Time accepts RFC 3339 timestamps and plain dates. A plain date used as an
// upper bound means the end of that day.
func Time(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrInvalid, s)
	}

	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return t, nil
}

// TimeRange reads the optional from and to parameters.
func TimeRange(q url.Values) (from, to *time.Time, err error) {
	if s := q.Get("from"); s != "" {
		t, err := Time(s, false)
		if err != nil {
			return nil, nil, err
		}

		from = &t
	}

	if s := q.Get("to"); s != "" {
		t, err := Time(s, true)
		if err != nil {
			return nil, nil, err
		}

		to = &t
	}

	return from, to, nil
}

// Sort reads sort and order (asc or desc, default asc).
func Sort(q url.Values) (listing.SortKey, bool, error) {
	key, err := listing.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch strings.ToLower(q.Get("order")) {
	case "", "asc":
		return key, false, nil
	case "desc":
		return key, true, nil
	}

	return "", false, fmt.Errorf("%w: order must be asc or desc", ErrInvalid)
}

func Int(q url.Values, name string, def int) (int, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalid, name)
	}

	return n, nil
}

// DocumentQuery reads the document listing filters. Enum values are
// validated so a typo is reported instead of silently matching nothing.
func DocumentQuery(v url.Values) (listing.DocumentQuery, error) {
	q := listing.DocumentQuery{
		Search: v.Get("search"),
		Folder: v.Get("folder"),
	}

	if s := v.Get("type"); s != "" && s != listing.All {
		t, err := document.ParseType(s)
		if err != nil {
			return q, err
		}

		q.Type = t
	}

	if s := v.Get("status"); s != "" && s != listing.All {
		st, err := document.ParseVersionStatus(s)
		if err != nil {
			return q, err
		}

		q.Status = st
	}

	from, to, err := TimeRange(v)
	if err != nil {
		return q, err
	}

	q.From, q.To = from, to

	if q.Sort, q.Desc, err = Sort(v); err != nil {
		return q, err
	}

	return q, nil
}
