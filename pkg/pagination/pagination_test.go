package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := FromContext(ctxWithQuery("limit=50&offset=10"))
	if p.Limit != 50 || p.Offset != 10 {
		t.Errorf("expected 50/10, got %d/%d", p.Limit, p.Offset)
	}
}

func TestFromContext_ClampsMax(t *testing.T) {
	p := FromContext(ctxWithQuery("limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("expected limit %d, got %d", MaxLimit, p.Limit)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 100, 20, 0)
	if !r.HasMore {
		t.Error("expected has_more on first page of 100")
	}
	r = NewResponse(nil, 100, 20, 90)
	if r.HasMore {
		t.Error("expected no more after offset 90 of 100")
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	page := Slice(items, Params{Limit: 2, Offset: 2})
	if len(page) != 2 || page[0] != 3 {
		t.Errorf("unexpected page: %v", page)
	}
	if got := Slice(items, Params{Limit: 10, Offset: 10}); got != nil {
		t.Errorf("expected nil past end, got %v", got)
	}
	if got := Slice(items, Params{Limit: 10, Offset: 4}); len(got) != 1 {
		t.Errorf("expected tail of 1, got %v", got)
	}
}
