package paging

import (
	"context"
	"slices"
)

// Strategy names reported to observers and logs.
const (
	StrategyCursor = "cursor"
	StrategyJump   = "jump"
	StrategyOffset = "offset"
)

// plan is one fetch against a query: the bound, order and window of rows to
// read, plus how the probe row is interpreted.
type plan struct {
	strategy string
	nav      NavigationDirection
	bound    *Bound
	order    SortDirection
	skip     int
	size     int
	backward bool
	anchored bool
}

// adjacentStrategy moves one page at a time using only the cursor bound.
type adjacentStrategy struct{}

func (adjacentStrategy) plan(req Request) (plan, bool) {
	dir := req.SortDirection()
	p := plan{strategy: StrategyCursor, nav: req.NavigationDirection(), order: dir, size: req.PageSize.Size}

	switch p.nav {
	case Next:
		if req.IsPageJump() {
			return plan{}, false
		}
		if req.Cursor.LastID == NoID {
			// Only the very first page can be served without an anchor.
			if req.StartOffset() != 0 {
				return plan{}, false
			}
			return p, true
		}
		b := After(dir, req.Cursor.LastID)
		p.bound, p.anchored = &b, true
	case Previous:
		if req.IsPageJump() || req.Cursor.FirstID == NoID {
			return plan{}, false
		}
		b := Before(dir, req.Cursor.FirstID)
		p.bound, p.anchored, p.backward = &b, true, true
		p.order = dir.Reverse()
	case Refresh:
		if req.PageNumber == 1 {
			return p, true
		}
		if req.Cursor.FirstID == NoID {
			return plan{}, false
		}
		b := From(dir, req.Cursor.FirstID)
		p.bound, p.anchored = &b, true
	}
	return p, true
}

// jumpStrategy bridges distant pages with an offset: a skip past the cursor
// bound when an anchor exists, or an absolute offset when it does not.
type jumpStrategy struct{}

func (jumpStrategy) plan(req Request) (plan, bool) {
	dir := req.SortDirection()
	p := plan{nav: req.NavigationDirection(), order: dir, size: req.PageSize.Size}

	if !req.HasAnchor() {
		p.strategy = StrategyOffset
		p.skip = req.StartOffset()
		return p, true
	}

	p.strategy = StrategyJump
	p.skip = req.SkipSize()
	p.anchored = true
	switch p.nav {
	case Previous:
		b := Before(dir, req.Cursor.FirstID)
		p.bound, p.backward = &b, true
		p.order = dir.Reverse()
	default:
		b := After(dir, req.Cursor.LastID)
		p.bound = &b
	}
	return p, true
}

// fetch issues the plan against q and returns at most p.size rows in
// display order, plus whether the probe row was present.
func fetch[T any](ctx context.Context, q Query[T], p plan) ([]T, bool, error) {
	if p.bound != nil {
		q = q.Filter(*p.bound)
	}
	q = q.OrderBy(p.order)
	if p.skip > 0 {
		q = q.Skip(p.skip)
	}
	rows, err := q.Take(p.size + 1).List(ctx)
	if err != nil {
		return nil, false, err
	}

	probe := len(rows) > p.size
	if probe {
		// The probe is the row farthest from the anchor in fetch order.
		rows = rows[:p.size]
	}
	if p.backward {
		rows = slices.Clone(rows)
		slices.Reverse(rows)
	}
	return rows, probe, nil
}

// flags computes HasNext and HasPrevious for a fetched page.
func (p plan) flags(req Request, items int, probe bool, total Total) (hasNext, hasPrevious bool) {
	switch {
	case p.backward:
		return true, probe
	case p.nav == Refresh && p.anchored:
		return probe || req.MarkAsHasNextOnRefresh, req.PageNumber > 1
	case p.nav == Refresh:
		// An unbounded refresh starts at offset zero or at StartOffset.
		return probe || req.MarkAsHasNextOnRefresh, p.skip > 0 && earlierRows(items, total)
	case p.anchored:
		return probe, true
	default:
		return probe, p.skip > 0 && earlierRows(items, total)
	}
}

// earlierRows reports whether rows exist before an offset page. Empty pages
// past the end are counted by the engine before this is asked.
func earlierRows(items int, total Total) bool {
	if total.CountSpecified() {
		return total.Count > 0
	}
	return items > 0
}
