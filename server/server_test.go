package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/ecode"
	"github.com/ncobase/pagekit/metrics"
	"github.com/ncobase/pagekit/paging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

func recordID(r record) int64 { return r.ID }

func newServer(t *testing.T, n int, opts ...Option[record]) *Server[record] {
	t.Helper()
	return newServerWith(t, n, paging.NewEngine(recordID), opts...)
}

func newServerWith(t *testing.T, n int, e *paging.Engine[record], opts ...Option[record]) *Server[record] {
	t.Helper()
	gin.SetMode(gin.TestMode)
	items := make([]record, n)
	for i := range items {
		items[i] = record{ID: int64(i + 1), Body: fmt.Sprintf("r%d", i+1)}
	}
	return New(e, paging.NewSliceQuery(items, recordID), &config.Paging{DefaultSize: 10, MaxSize: 50, Jumps: true}, opts...)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func page(t *testing.T, w *httptest.ResponseRecorder) paging.ResultModel[record] {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m paging.ResultModel[record]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestListFollowsTokens(t *testing.T) {
	h := newServer(t, 25).Handler()

	first := page(t, get(t, h, "/records?total=true"))
	assert.Len(t, first.Items, 10)
	assert.Equal(t, int64(25), first.Info.Total.Count)
	assert.True(t, first.Info.HasNext)
	require.NotEmpty(t, first.Next)

	second := page(t, get(t, h, "/records?token="+url.QueryEscape(first.Next)))
	assert.Equal(t, int64(11), second.Items[0].ID)
	assert.Equal(t, 2, second.Info.PageNumber)

	third := page(t, get(t, h, "/records?token="+url.QueryEscape(second.Next)))
	assert.Len(t, third.Items, 5)
	assert.False(t, third.Info.HasNext)
	assert.Empty(t, third.Next)

	back := page(t, get(t, h, "/records?token="+url.QueryEscape(third.Previous)))
	assert.Equal(t, int64(11), back.Items[0].ID)
}

func TestListDescendingWithLimit(t *testing.T) {
	h := newServer(t, 25).Handler()
	m := page(t, get(t, h, "/records?direction=desc&limit=3"))
	require.Len(t, m.Items, 3)
	assert.Equal(t, int64(25), m.Items[0].ID)
	assert.Equal(t, paging.Descending, m.Info.SortDirection)
}

func TestListErrors(t *testing.T) {
	h := newServer(t, 5).Handler()

	w := get(t, h, "/records?token=garbage")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(ecode.InvalidToken), body["code"])

	w = get(t, h, "/records?direction=sideways")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, h, "/records?limit=many")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetPaging(t *testing.T) {
	s := newServer(t, 30)
	h := s.Handler()
	assert.Len(t, page(t, get(t, h, "/records")).Items, 10)

	s.SetPaging(&config.Paging{DefaultSize: 4, MaxSize: 5})
	assert.Len(t, page(t, get(t, h, "/records")).Items, 4)
	assert.Len(t, page(t, get(t, h, "/records?limit=40")).Items, 5)
}

func TestListClampsTokenSize(t *testing.T) {
	h := newServer(t, 200).Handler()

	forged := paging.EncodeToken(paging.FirstPage(paging.NewPageSizeOverride(150, 150), paging.Ascending))
	m := page(t, get(t, h, "/records?token="+url.QueryEscape(forged)))
	assert.Len(t, m.Items, 50)
	assert.Equal(t, paging.PageSize{Size: 50, MaxSize: 50}, m.Info.PageSize)

	next := page(t, get(t, h, "/records?token="+url.QueryEscape(m.Next)))
	assert.Equal(t, int64(51), next.Items[0].ID)
	assert.Len(t, next.Items, 50)
}

func TestListOverride(t *testing.T) {
	s := newServer(t, 2000)
	h := s.Handler()

	s.SetPaging(&config.Paging{DefaultSize: 10, MaxSize: 2000})
	assert.Len(t, page(t, get(t, h, "/records?limit=1500")).Items, paging.MaxPageSizeThreshold)

	s.SetPaging(&config.Paging{DefaultSize: 10, MaxSize: 2000, Override: true})
	m := page(t, get(t, h, "/records?limit=1500"))
	assert.Len(t, m.Items, 1500)
	assert.Equal(t, 2000, m.Info.PageSize.MaxSize)
}

func TestListCountTotal(t *testing.T) {
	s := newServer(t, 30)
	h := s.Handler()

	m := page(t, get(t, h, "/records"))
	assert.False(t, m.Info.Total.CountSpecified())

	s.SetPaging(&config.Paging{DefaultSize: 10, MaxSize: 50, CountTotal: true})
	m = page(t, get(t, h, "/records"))
	assert.Equal(t, paging.Total{Count: 30, Pages: 3}, m.Info.Total)

	m = page(t, get(t, h, "/records?token="+url.QueryEscape(m.Next)))
	assert.Equal(t, int64(30), m.Info.Total.Count)
}

func TestTraceHeader(t *testing.T) {
	h := newServer(t, 1).Handler()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = get(t, h, "/records")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestHealthAndMetrics(t *testing.T) {
	c, err := metrics.NewCollector(metrics.DefaultConfig(), prometheus.NewRegistry())
	require.NoError(t, err)

	healthy := true
	s := newServerWith(t, 3, paging.NewEngine(recordID, paging.WithObserver(c)),
		WithMetrics[record](c),
		WithPing[record](func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("store down")
		}),
		WithPath[record]("/items"),
	)
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	healthy = false
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/healthz").Code)

	assert.Equal(t, http.StatusOK, get(t, h, "/items").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/records").Code)

	w := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pagekit_paging_pages_total")
}
