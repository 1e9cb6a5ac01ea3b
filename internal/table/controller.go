// Package table implements the list controller shared by every admin
// screen: one record set, one filtered/sorted view, one page window.
// The admin endpoints all parameterize it with field accessors instead
// of re-deriving filter/sort/paginate semantics per screen.
package table

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrPageOutOfRange is returned by SetPage for a page below 1 or past
// the last page.  Out-of-range pages are rejected, not clamped, so a
// caller can distinguish a bad request from a short list.
var ErrPageOutOfRange = errors.New("page out of range")

// ErrUnknownField is returned when a filter or sort names a field the
// controller was not configured with.
var ErrUnknownField = errors.New("unknown field")

// Kind tells the controller how to compare and match a field.
type Kind int

const (
	// Text fields filter by case-insensitive substring and sort with a
	// case-insensitive lexical comparator.
	Text Kind = iota
	// Numeric fields filter by exact value and sort numerically.
	Numeric
)

// Field exposes one named attribute of a record.  Text reads the
// attribute for Text fields, Value for Numeric ones; only the accessor
// matching the kind is consulted.
type Field[T any] struct {
	Name  string
	Kind  Kind
	Text  func(T) string
	Value func(T) float64
}

// Controller holds a full record set plus the visible view derived
// from it.  Filters accumulate via SetFilter and only take effect on
// Apply (explicit-apply mode, matching a user-triggered Filter
// action); sorting and paging act on the visible view immediately.
//
// Invariant: after every operation the current page lies within
// [1, MaxPage()], so a valid page is never empty while a non-empty one
// exists.
type Controller[T any] struct {
	fields   map[string]Field[T]
	all      []T
	visible  []T
	filters  map[string]string
	sortKey  string
	page     int
	pageSize int
}

// New builds a controller over the given records.  pageSize must be
// positive.  The visible view starts as the full set in input order.
func New[T any](records []T, pageSize int, fields ...Field[T]) (*Controller[T], error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	fm := make(map[string]Field[T], len(fields))
	for _, f := range fields {
		fm[f.Name] = f
	}
	c := &Controller[T]{
		fields:   fm,
		all:      records,
		filters:  make(map[string]string),
		page:     1,
		pageSize: pageSize,
	}
	c.visible = append([]T(nil), records...)
	return c, nil
}

// SetFilter records a predicate value for a field; an empty value
// clears it.  Nothing is recomputed until Apply.
func (c *Controller[T]) SetFilter(field, value string) error {
	if _, ok := c.fields[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if value == "" {
		delete(c.filters, field)
	} else {
		c.filters[field] = value
	}
	return nil
}

// Apply recomputes the visible view as the conjunction of every active
// predicate over the full set, re-applies the current sort, and
// resets to page 1.
func (c *Controller[T]) Apply() {
	c.visible = c.visible[:0]
	for _, rec := range c.all {
		if c.matches(rec) {
			c.visible = append(c.visible, rec)
		}
	}
	if c.sortKey != "" {
		c.sortVisible(c.sortKey)
	}
	c.page = 1
}

// Reset clears all predicates and the sort; the visible view reverts
// to the full set in its original order, back on page 1.
func (c *Controller[T]) Reset() {
	c.filters = make(map[string]string)
	c.sortKey = ""
	c.visible = append(c.visible[:0], c.all...)
	c.page = 1
}

// SetSort re-orders the currently visible view by the named field.
// The sort is stable: records that compare equal keep their relative
// order.  The page is left untouched (it stays valid; only the order
// within the view changes).
func (c *Controller[T]) SetSort(field string) error {
	if _, ok := c.fields[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c.sortKey = field
	c.sortVisible(field)
	return nil
}

// SetPage moves to page n, rejecting values outside [1, MaxPage()].
func (c *Controller[T]) SetPage(n int) error {
	if n < 1 || n > c.MaxPage() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, c.MaxPage())
	}
	c.page = n
	return nil
}

// Page returns the records of the current page: elements
// [(page-1)*pageSize, page*pageSize) of the visible view.
func (c *Controller[T]) Page() []T {
	lo := (c.page - 1) * c.pageSize
	if lo >= len(c.visible) {
		return nil
	}
	hi := lo + c.pageSize
	if hi > len(c.visible) {
		hi = len(c.visible)
	}
	return c.visible[lo:hi]
}

// PageNumber returns the current page, always within [1, MaxPage()].
func (c *Controller[T]) PageNumber() int { return c.page }

// MaxPage returns the number of pages in the visible view, at least 1
// even when the view is empty.
func (c *Controller[T]) MaxPage() int {
	n := (len(c.visible) + c.pageSize - 1) / c.pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Len returns the size of the visible view.
func (c *Controller[T]) Len() int { return len(c.visible) }

func (c *Controller[T]) matches(rec T) bool {
	for name, want := range c.filters {
		f := c.fields[name]
		switch f.Kind {
		case Numeric:
			n, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
			if err != nil || f.Value(rec) != n {
				return false
			}
		default:
			if !strings.Contains(strings.ToLower(f.Text(rec)), strings.ToLower(want)) {
				return false
			}
		}
	}
	return true
}

func (c *Controller[T]) sortVisible(field string) {
	f := c.fields[field]
	sort.SliceStable(c.visible, func(i, j int) bool {
		if f.Kind == Numeric {
			return f.Value(c.visible[i]) < f.Value(c.visible[j])
		}
		return strings.ToLower(f.Text(c.visible[i])) < strings.ToLower(f.Text(c.visible[j]))
	})
}
