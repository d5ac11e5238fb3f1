package paging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func idOf(it item) int64 { return it.ID }

func seed(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: int64(i + 1), Name: fmt.Sprintf("item-%d", i+1)}
	}
	return out
}

func ids(items []item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func span(from, to int64) []int64 {
	var out []int64
	if from <= to {
		for id := from; id <= to; id++ {
			out = append(out, id)
		}
		return out
	}
	for id := from; id >= to; id-- {
		out = append(out, id)
	}
	return out
}

func TestPageSizeClamp(t *testing.T) {
	assert.Equal(t, 1, DefaultPageSize(0).Size)
	assert.Equal(t, DefaultMaxPageSize, DefaultPageSize(500).Size)

	ps := NewPageSize(150, 1001)
	assert.Equal(t, 1000, ps.MaxSize)
	assert.Equal(t, 150, ps.Size)

	ps = NewPageSizeOverride(150, 1001)
	assert.Equal(t, 1001, ps.MaxSize)

	ps = NewPageSize(5000, 1001)
	assert.Equal(t, PageSize{Size: 1000, MaxSize: 1000}, ps)

	ps = NewPageSize(-3, 0)
	assert.Equal(t, PageSize{Size: 1, MaxSize: 1}, ps)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, Total{Count: 23, Pages: 3}, NewTotal(23, 10))
	assert.Equal(t, Total{Count: 20, Pages: 2}, NewTotal(20, 10))
	assert.Equal(t, Total{Count: 0, Pages: 0}, NewTotal(0, 10))
	assert.False(t, NewTotal(-1, 10).CountSpecified())
	assert.Equal(t, Unspecified, UnspecifiedTotal().Pages)
}

func TestRequestDerivations(t *testing.T) {
	size := DefaultPageSize(10)

	first := FirstPage(size, Ascending)
	assert.Equal(t, Next, first.NavigationDirection())
	assert.False(t, first.HasAnchor())
	assert.Equal(t, 0, first.StartOffset())

	jump := NewRequest(7, size, NewCursor(2, 11, 20, Ascending))
	assert.Equal(t, 5, jump.PageDifference())
	assert.True(t, jump.IsPageJump())
	assert.Equal(t, 40, jump.SkipSize())
	assert.Equal(t, int64(20), jump.CursorAnchorID())

	back := NewRequest(1, size, NewCursor(2, 11, 20, Ascending))
	assert.Equal(t, Previous, back.NavigationDirection())
	assert.False(t, back.IsPageJump())
	assert.Equal(t, 0, back.SkipSize())
	assert.Equal(t, int64(11), back.CursorAnchorID())

	refresh := NewRequest(2, size, NewCursor(2, 11, 20, Ascending))
	assert.Equal(t, Refresh, refresh.NavigationDirection())
	assert.Equal(t, int64(11), refresh.CursorAnchorID())

	clamped := NewRequest(-4, size, NewCursor(0, NoID, NoID, ""))
	assert.Equal(t, 1, clamped.PageNumber)
	assert.Equal(t, 1, clamped.Cursor.PageNumber)
	assert.Equal(t, Ascending, clamped.SortDirection())

	carried := jump.NextPage(61, 70, UnspecifiedTotal())
	assert.Equal(t, 8, carried.PageNumber)
	assert.Equal(t, NewCursor(7, 61, 70, Ascending), carried.Cursor)

	counted := jump.WithTotalCountUpdate(true).PreviousPage(61, 70, NewTotal(100, 10))
	assert.Equal(t, 6, counted.PageNumber)
	assert.Equal(t, int64(100), counted.Total.Count)
	assert.False(t, counted.UpdateTotalCount)

	flipped := jump.WithSortDirection(Descending)
	assert.Equal(t, FirstPage(size, Descending), flipped)
}

func TestHasNextAccuracy(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)
	assert.Len(t, p1.Items, 10)
	assert.True(t, p1.Info.HasNext)
	assert.False(t, p1.Info.HasPrevious)

	p2, err := engine.Execute(ctx, q, p1.NextPage())
	require.NoError(t, err)
	assert.Equal(t, span(11, 20), ids(p2.Items))
	assert.True(t, p2.Info.HasNext)
	assert.True(t, p2.Info.HasPrevious)

	p3, err := engine.Execute(ctx, q, p2.NextPage())
	require.NoError(t, err)
	assert.Equal(t, span(21, 23), ids(p3.Items))
	assert.False(t, p3.Info.HasNext)
	assert.True(t, p3.Info.HasPrevious)
	assert.Equal(t, int64(21), p3.Info.FirstID)
	assert.Equal(t, int64(23), p3.Info.LastID)
	assert.Empty(t, p3.Token())
}

func TestEmptyCollection(t *testing.T) {
	engine := NewEngine(idOf)
	q := NewSliceQuery([]item{}, idOf)

	res, err := engine.Execute(context.Background(), q, FirstPage(DefaultPageSize(10), Ascending, WithUpdateTotalCount(true)))
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.False(t, res.Info.HasNext)
	assert.False(t, res.Info.HasPrevious)
	assert.Equal(t, NoID, res.Info.FirstID)
	assert.Equal(t, NoID, res.Info.LastID)
	assert.Equal(t, Total{Count: 0, Pages: 0}, res.Info.Total)
}

func TestCompleteness(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	for _, dir := range []SortDirection{Ascending, Descending} {
		for size := 1; size <= 24; size++ {
			var got []int64
			pages := 0
			err := engine.Walk(ctx, q, FirstPage(DefaultPageSize(size), dir), func(r *Result[item]) bool {
				pages++
				got = append(got, ids(r.Items)...)
				return true
			})
			require.NoError(t, err)

			want := span(1, 23)
			if dir == Descending {
				want = span(23, 1)
			}
			assert.Equal(t, want, got, "direction %s size %d", dir, size)
			assert.Equal(t, (23+size-1)/size, pages, "direction %s size %d", dir, size)
		}
	}
}

func TestWalkStops(t *testing.T) {
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	calls := 0
	err := engine.Walk(context.Background(), q, FirstPage(DefaultPageSize(5), Ascending), func(*Result[item]) bool {
		calls++
		return calls < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPreviousNextSymmetry(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)

	for _, dir := range []SortDirection{Ascending, Descending} {
		q := NewSliceQuery(seed(23), idOf)
		res, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), dir))
		require.NoError(t, err)

		for res.Info.HasNext {
			res, err = engine.Execute(ctx, q, res.NextPage())
			require.NoError(t, err)

			prev, err := engine.Execute(ctx, q, res.PreviousPage())
			require.NoError(t, err)
			assert.True(t, prev.Info.HasNext)

			back, err := engine.Execute(ctx, q, prev.NextPage())
			require.NoError(t, err)
			assert.Equal(t, res.Items, back.Items, "direction %s page %d", dir, res.Info.PageNumber)
			assert.Equal(t, res.Info, back.Info, "direction %s page %d", dir, res.Info.PageNumber)
		}
	}
}

func TestDescendingOrder(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Descending))
	require.NoError(t, err)
	assert.Equal(t, span(23, 14), ids(p1.Items))
	assert.Equal(t, int64(23), p1.Info.FirstID)
	assert.Equal(t, int64(14), p1.Info.LastID)

	p3, err := engine.Execute(ctx, q, p1.JumpToPage(3))
	require.NoError(t, err)
	assert.Equal(t, span(3, 1), ids(p3.Items))
	assert.False(t, p3.Info.HasNext)
	assert.True(t, p3.Info.HasPrevious)

	p2, err := engine.Execute(ctx, q, p3.PreviousPage())
	require.NoError(t, err)
	assert.Equal(t, span(13, 4), ids(p2.Items))
	assert.True(t, p2.Info.HasPrevious)
}

func TestPageJump(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(100), idOf)
	size := DefaultPageSize(10)

	p1, err := engine.Execute(ctx, q, FirstPage(size, Ascending))
	require.NoError(t, err)
	p2, err := engine.Execute(ctx, q, p1.NextPage())
	require.NoError(t, err)

	req := p2.JumpToPage(7)
	assert.Equal(t, 5, req.PageDifference())
	assert.Equal(t, 40, req.SkipSize())

	p7, err := engine.Execute(ctx, q, req)
	require.NoError(t, err)
	assert.Equal(t, span(61, 70), ids(p7.Items))
	assert.True(t, p7.Info.HasNext)
	assert.True(t, p7.Info.HasPrevious)

	back, err := engine.Execute(ctx, q, p7.JumpToPage(2))
	require.NoError(t, err)
	assert.Equal(t, span(11, 20), ids(back.Items))
	assert.True(t, back.Info.HasNext)
	assert.True(t, back.Info.HasPrevious)

	last, err := engine.Execute(ctx, q, back.JumpToPage(10))
	require.NoError(t, err)
	assert.Equal(t, span(91, 100), ids(last.Items))
	assert.False(t, last.Info.HasNext)
}

func TestJumpPastEnd(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)

	p9, err := engine.Execute(ctx, q, p1.JumpToPage(9))
	require.NoError(t, err)
	assert.Empty(t, p9.Items)
	assert.False(t, p9.Info.HasNext)
	assert.True(t, p9.Info.HasPrevious)
	assert.Equal(t, NoID, p9.Info.FirstID)

	again, err := engine.Execute(ctx, q, p9.Refresh(false))
	require.NoError(t, err)
	assert.Empty(t, again.Items)
	assert.False(t, again.Info.HasNext)

	p2, err := engine.Execute(ctx, q, p9.JumpToPage(2))
	require.NoError(t, err)
	assert.Equal(t, span(11, 20), ids(p2.Items))
	assert.True(t, p2.Info.HasNext)
	assert.True(t, p2.Info.HasPrevious)
}

func TestOffsetJumpPastEnd(t *testing.T) {
	ctx := context.Background()
	var obs recorder
	engine := NewEngine(idOf, WithObserver(&obs))
	q := NewSliceQuery(seed(23), idOf)

	p9, err := engine.Execute(ctx, q, NewRequest(9, DefaultPageSize(10), DefaultCursor(Ascending)))
	require.NoError(t, err)
	assert.Empty(t, p9.Items)
	assert.False(t, p9.Info.HasNext)
	assert.True(t, p9.Info.HasPrevious)
	assert.Equal(t, Total{Count: 23, Pages: 3}, p9.Info.Total)
	require.Len(t, obs, 1)
	assert.True(t, obs[0].Counted)

	m := p9.Model()
	require.NotEmpty(t, m.Previous)
	req, err := DecodeToken(m.Previous)
	require.NoError(t, err)

	last, err := engine.Execute(ctx, q, req)
	require.NoError(t, err)
	assert.Equal(t, 3, last.Info.PageNumber)
	assert.Equal(t, span(21, 23), ids(last.Items))
	assert.False(t, last.Info.HasNext)
	assert.True(t, last.Info.HasPrevious)

	empty, err := engine.Execute(ctx, NewSliceQuery(seed(0), idOf), NewRequest(4, DefaultPageSize(10), DefaultCursor(Ascending)))
	require.NoError(t, err)
	assert.False(t, empty.Info.HasPrevious)
	assert.Empty(t, empty.Model().Previous)
}

func TestUnboundedPageSize(t *testing.T) {
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(30), idOf)

	res, err := engine.Execute(context.Background(), q, NewRequest(1, PageSize{Size: 10}, DefaultCursor(Ascending)))
	require.NoError(t, err)
	assert.Equal(t, span(1, 10), ids(res.Items))
	assert.Equal(t, PageSize{Size: 10, MaxSize: 10}, res.Info.PageSize)

	res, err = engine.Execute(context.Background(), q, NewRequest(1, PageSize{Size: 40, MaxSize: 20}, DefaultCursor(Ascending)))
	require.NoError(t, err)
	assert.Len(t, res.Items, 20)
}

func TestOffsetWithoutAnchor(t *testing.T) {
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	res, err := engine.Execute(context.Background(), q, NewRequest(3, DefaultPageSize(10), DefaultCursor(Ascending)))
	require.NoError(t, err)
	assert.Equal(t, span(21, 23), ids(res.Items))
	assert.False(t, res.Info.HasNext)
	assert.True(t, res.Info.HasPrevious)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	all := seed(23)
	q := NewSliceQuery(all, idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)
	p2, err := engine.Execute(ctx, q, p1.NextPage())
	require.NoError(t, err)

	without15 := q.Where(func(it item) bool { return it.ID != 15 })
	fresh, err := engine.Execute(ctx, without15, p2.Refresh(false))
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 12, 13, 14, 16, 17, 18, 19, 20, 21}, ids(fresh.Items))
	assert.True(t, fresh.Info.HasNext)
	assert.True(t, fresh.Info.HasPrevious)

	assert.Equal(t, int64(21), fresh.Info.LastID)

	late := q.Where(func(it item) bool { return it.ID > 2 })
	head, err := engine.Execute(ctx, late, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)
	require.Equal(t, span(3, 12), ids(head.Items))

	// Rows inserted before the first page show up on refresh.
	refreshed, err := engine.Execute(ctx, q, head.Refresh(true))
	require.NoError(t, err)
	assert.Equal(t, span(1, 10), ids(refreshed.Items))
	assert.Equal(t, int64(23), refreshed.Info.Total.Count)
	assert.False(t, refreshed.Info.HasPrevious)
}

func TestRefreshKeepsHasNext(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(23), idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)
	require.True(t, p1.Info.HasNext)

	truncated := q.Where(func(it item) bool { return it.ID <= 10 })

	kept, err := engine.Execute(ctx, truncated, p1.Refresh(false))
	require.NoError(t, err)
	assert.Equal(t, span(1, 10), ids(kept.Items))
	assert.True(t, kept.Info.HasNext)

	strict := p1.Refresh(false)
	strict.MarkAsHasNextOnRefresh = false
	exact, err := engine.Execute(ctx, truncated, strict)
	require.NoError(t, err)
	assert.False(t, exact.Info.HasNext)
}

func TestInvalidCursor(t *testing.T) {
	ctx := context.Background()
	q := NewSliceQuery(seed(23), idOf)
	size := DefaultPageSize(10)

	_, err := NewEngine(idOf).Execute(ctx, q, NewRequest(2, size, NewCursor(1, 1, -10, Ascending)))
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = NewEngine(idOf).Execute(ctx, q, NewRequest(2, size, NewCursor(1, 1, 10, "sideways")))
	assert.ErrorIs(t, err, ErrInvalidCursor)

	rejectOdd := WithIDValidator(func(id int64) error {
		if id%2 == 1 {
			return errors.New("odd id")
		}
		return nil
	})
	_, err = NewEngine(idOf, rejectOdd).Execute(ctx, q, NewRequest(2, size, NewCursor(1, 1, 10, Ascending)))
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = NewEngine(idOf, rejectOdd).Execute(ctx, q, FirstPage(size, Ascending))
	assert.NoError(t, err)

	_, err = NewEngine(idOf).Execute(ctx, nil, FirstPage(size, Ascending))
	assert.ErrorIs(t, err, ErrNilQuery)
}

func TestWithoutJumps(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf, WithoutJumps())
	q := NewSliceQuery(seed(50), idOf)

	p1, err := engine.Execute(ctx, q, FirstPage(DefaultPageSize(10), Ascending))
	require.NoError(t, err)
	p2, err := engine.Execute(ctx, q, p1.NextPage())
	require.NoError(t, err)
	_, err = engine.Execute(ctx, q, p2.PreviousPage())
	require.NoError(t, err)

	_, err = engine.Execute(ctx, q, p2.JumpToPage(4))
	assert.ErrorIs(t, err, ErrJumpUnsupported)

	_, err = engine.Execute(ctx, q, NewRequest(3, DefaultPageSize(10), DefaultCursor(Ascending)))
	assert.ErrorIs(t, err, ErrJumpUnsupported)
}

type failingQuery struct{ err error }

func (q failingQuery) Filter(Bound) Query[item]             { return q }
func (q failingQuery) OrderBy(SortDirection) Query[item]    { return q }
func (q failingQuery) Skip(int) Query[item]                 { return q }
func (q failingQuery) Take(int) Query[item]                 { return q }
func (q failingQuery) List(context.Context) ([]item, error) { return nil, q.err }
func (q failingQuery) Count(context.Context) (int64, error) { return 0, q.err }

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	engine := NewEngine(idOf)

	_, err := engine.Execute(context.Background(), failingQuery{err: boom}, FirstPage(DefaultPageSize(10), Ascending))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "paging: list")

	_, err = engine.Execute(context.Background(), failingQuery{err: boom}, FirstPage(DefaultPageSize(10), Ascending, WithUpdateTotalCount(true)))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "paging: count")
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(idOf).Execute(ctx, NewSliceQuery(seed(3), idOf), FirstPage(DefaultPageSize(10), Ascending))
	assert.ErrorIs(t, err, context.Canceled)
}

type keyedQuery struct {
	*SliceQuery[item]
	counts *int
}

func (q keyedQuery) CountKey() string { return "items" }

func (q keyedQuery) Count(ctx context.Context) (int64, error) {
	*q.counts++
	return q.SliceQuery.Count(ctx)
}

type mapCache map[string]int64

func (c mapCache) GetCount(_ context.Context, key string) (int64, bool, error) {
	n, ok := c[key]
	return n, ok, nil
}

func (c mapCache) SetCount(_ context.Context, key string, count int64) error {
	c[key] = count
	return nil
}

type recorder []Observation

func (r *recorder) ObservePage(_ context.Context, o Observation) { *r = append(*r, o) }

func TestCountCacheAndObserver(t *testing.T) {
	ctx := context.Background()
	cache := mapCache{}
	var obs recorder
	engine := NewEngine(idOf, WithCountCache(cache), WithObserver(&obs))

	counts := 0
	q := keyedQuery{SliceQuery: NewSliceQuery(seed(23), idOf), counts: &counts}
	req := FirstPage(DefaultPageSize(10), Ascending, WithUpdateTotalCount(true))

	res, err := engine.Execute(ctx, q, req)
	require.NoError(t, err)
	assert.Equal(t, NewTotal(23, 10), res.Info.Total)
	assert.Equal(t, int64(23), cache["items"])

	res, err = engine.Execute(ctx, q, res.NextPage().WithTotalCountUpdate(true))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Info.Total.Pages)
	assert.Equal(t, 1, counts)

	_, err = engine.Execute(ctx, q, res.JumpToPage(9))
	require.NoError(t, err)

	require.Len(t, obs, 3)
	assert.Equal(t, StrategyCursor, obs[0].Strategy)
	assert.True(t, obs[0].Counted)
	assert.False(t, obs[0].CountHit)
	assert.True(t, obs[1].CountHit)
	assert.Equal(t, 10, obs[1].Items)
	assert.Equal(t, StrategyJump, obs[2].Strategy)
	assert.Equal(t, 0, obs[2].Items)
}

func TestTokenRoundTrip(t *testing.T) {
	req := NewRequest(4, NewPageSizeOverride(25, 1500), NewCursor(3, 51, 75, Descending),
		WithTotal(NewTotal(180, 25)), WithMarkAsHasNextOnRefresh(true))

	got, err := DecodeToken(EncodeToken(req))
	require.NoError(t, err)
	assert.Equal(t, req, got)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	var decoded Request
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, req, decoded)

	info := ResultInfo{PageNumber: 2, PageSize: NewPageSize(10, 50), SortDirection: Ascending,
		FirstID: 11, LastID: 20, HasNext: true, HasPrevious: true, Total: UnspecifiedTotal()}
	raw, err = json.Marshal(info)
	require.NoError(t, err)
	var infoBack ResultInfo
	require.NoError(t, json.Unmarshal(raw, &infoBack))
	assert.Equal(t, info, infoBack)
}

func TestDecodeTokenRejects(t *testing.T) {
	for name, token := range map[string]string{
		"not base64": "%%%",
		"not json":   "bm90LWpzb24",
		"zero size":  EncodeToken(Request{PageNumber: 1, Cursor: DefaultCursor(Ascending)}),
		"bad dir":    EncodeToken(Request{PageNumber: 1, PageSize: DefaultPageSize(5), Cursor: Cursor{PageNumber: 1, SortDirection: "up"}}),
		"negative":   EncodeToken(Request{PageNumber: 2, PageSize: DefaultPageSize(5), Cursor: Cursor{PageNumber: 1, LastID: -5, SortDirection: Ascending}}),
		"page zero":  EncodeToken(Request{PageNumber: 0, PageSize: DefaultPageSize(5), Cursor: DefaultCursor(Ascending)}),
	} {
		_, err := DecodeToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(idOf)
	q := NewSliceQuery(seed(12), idOf)
	limits := Limits{DefaultSize: 5, MaxSize: 50}

	first, err := Paginate(ctx, engine, q, Params{Direction: "desc", Total: true}, limits)
	require.NoError(t, err)
	assert.Equal(t, span(12, 8), ids(first.Items))
	assert.Equal(t, int64(3), first.Info.Total.Pages)
	assert.NotEmpty(t, first.Next)
	assert.Empty(t, first.Previous)

	second, err := Paginate(ctx, engine, q, Params{Token: first.Next}, limits)
	require.NoError(t, err)
	assert.Equal(t, span(7, 3), ids(second.Items))
	assert.NotEmpty(t, second.Previous)

	back, err := Paginate(ctx, engine, q, Params{Token: second.Previous}, limits)
	require.NoError(t, err)
	assert.Equal(t, first.Items, back.Items)

	_, err = Paginate(ctx, engine, q, Params{Token: "garbage!"}, limits)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Paginate(ctx, engine, q, Params{Direction: "sideways"}, limits)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestRequestFromParamsClampsTokens(t *testing.T) {
	limits := Limits{DefaultSize: 10, MaxSize: 20}
	token := EncodeToken(FirstPage(NewPageSizeOverride(1500, 1500), Ascending))

	req, err := RequestFromParams(Params{Token: token}, limits)
	require.NoError(t, err)
	assert.Equal(t, PageSize{Size: 20, MaxSize: 20}, req.PageSize)

	small := EncodeToken(FirstPage(NewPageSize(5, 100), Descending))
	req, err = RequestFromParams(Params{Token: small}, limits)
	require.NoError(t, err)
	assert.Equal(t, PageSize{Size: 5, MaxSize: 20}, req.PageSize)
	assert.Equal(t, Descending, req.SortDirection())
}

func TestLimits(t *testing.T) {
	capped := Limits{DefaultSize: 20, MaxSize: 2000}
	assert.Equal(t, PageSize{Size: 20, MaxSize: MaxPageSizeThreshold}, capped.PageSize(0))
	assert.Equal(t, PageSize{Size: MaxPageSizeThreshold, MaxSize: MaxPageSizeThreshold}, capped.PageSize(1500))
	assert.False(t, capped.FirstPage(0, Ascending).UpdateTotalCount)

	override := Limits{DefaultSize: 20, MaxSize: 2000, Override: true, CountTotal: true}
	assert.Equal(t, PageSize{Size: 1500, MaxSize: 2000}, override.PageSize(1500))
	first := override.FirstPage(-1, Descending)
	assert.Equal(t, 20, first.PageSize.Size)
	assert.True(t, first.UpdateTotalCount)
	assert.Equal(t, Descending, first.SortDirection())
}

func TestSliceQueryIsImmutable(t *testing.T) {
	ctx := context.Background()
	base := NewSliceQuery(seed(10), idOf)
	filtered := base.Filter(Bound{Comparison: GreaterThan, ID: 5}).OrderBy(Descending).Take(2)

	all, err := base.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, span(1, 10), ids(all))

	got, err := filtered.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 9}, ids(got))

	n, err := filtered.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	skipped, err := base.Skip(8).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 10}, ids(skipped))

	past, err := base.Skip(20).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, past)
}
