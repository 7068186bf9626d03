package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hisaab/internal/ledger"
	"hisaab/internal/store/memory"
	"hisaab/internal/taxonomy"
)

func newTestServer() *Server {
	return NewServer(":0", ledger.New(memory.New(), nil), taxonomy.Default())
}

func postForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `name="owner"`) {
		t.Fatalf("index without owner should show the login form")
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/?owner=Amit", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Welcome, Amit") {
		t.Fatalf("expected owner greeting, got: %s", body)
	}
	if !strings.Contains(body, "Food") || !strings.Contains(body, "Salary") {
		t.Fatalf("expected default categories in the add form")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer()

	// Wrong method
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = postForm(t, srv, "/transactions", url.Values{
		"owner": {"amit"}, "kind": {"expense"}, "category": {"Food"}, "amount": {"abc"},
	})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad amount, got %d", rr.Code)
	}

	// Category outside the taxonomy
	rr = postForm(t, srv, "/transactions", url.Values{
		"owner": {"amit"}, "kind": {"expense"}, "category": {"Yachts"}, "amount": {"12.00"},
	})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for unknown category, got %d", rr.Code)
	}

	// Missing owner
	rr = postForm(t, srv, "/transactions", url.Values{
		"kind": {"expense"}, "category": {"Food"}, "amount": {"12.00"},
	})
	if rr.Code != 422 {
		t.Fatalf("expected 422 for missing owner, got %d", rr.Code)
	}

	// Success
	rr = postForm(t, srv, "/transactions", url.Values{
		"owner": {"amit"}, "kind": {"expense"}, "category": {"Food"},
		"amount": {"120.50"}, "date": {"2025-03-10"}, "description": {"groceries"},
	})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	if trig := rr.Header().Get("HX-Trigger"); !strings.Contains(trig, "transaction:changed") {
		t.Fatalf("expected transaction:changed trigger, got %q", trig)
	}
}

func TestDashboardAndPositionalDelete(t *testing.T) {
	srv := newTestServer()

	seed := func(category, amount, date string) {
		rr := postForm(t, srv, "/transactions", url.Values{
			"owner": {"amit"}, "kind": {"expense"}, "category": {category},
			"amount": {amount}, "date": {date}, "description": {category},
		})
		if rr.Code != 200 {
			t.Fatalf("seed failed: %d %s", rr.Code, rr.Body.String())
		}
	}
	seed("Food", "120.50", "2025-03-10")
	seed("Rent", "900.00", "2025-03-01")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ui/dashboard?owner=amit&year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("dashboard status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"March 2025", "Food", "Rent", "₹120.50", "₹900.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q: %s", want, body)
		}
	}

	// Position 1 is the newest transaction in the month view, the Food one.
	rr = postForm(t, srv, "/transactions/delete", url.Values{
		"owner": {"amit"}, "year": {"2025"}, "month": {"3"}, "position": {"1"},
	})
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("delete failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ui/dashboard?owner=amit&year=2025&month=3", nil)
	srv.Handler.ServeHTTP(rr, req)
	body = rr.Body.String()
	if strings.Contains(body, "Food") {
		t.Fatalf("deleted transaction still rendered: %s", body)
	}
	if !strings.Contains(body, "Rent") {
		t.Fatalf("surviving transaction should still be rendered")
	}

	// Stale position resolves to nothing rather than deleting the wrong row.
	rr = postForm(t, srv, "/transactions/delete", url.Values{
		"owner": {"amit"}, "year": {"2025"}, "month": {"3"}, "position": {"5"},
	})
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "no longer exists") {
		t.Fatalf("expected no-op delete message, got: %d %s", rr.Code, rr.Body.String())
	}
}

func TestDashboardCacheInvalidatedOnWrite(t *testing.T) {
	srv := newTestServer()

	get := func() string {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ui/dashboard?owner=amit&year=2025&month=3", nil)
		srv.Handler.ServeHTTP(rr, req)
		return rr.Body.String()
	}

	// Populate the cache with the empty month.
	if body := get(); strings.Contains(body, "Bills") {
		t.Fatalf("unexpected category before write")
	}

	rr := postForm(t, srv, "/transactions", url.Values{
		"owner": {"amit"}, "kind": {"expense"}, "category": {"Bills"},
		"amount": {"45.00"}, "date": {"2025-03-20"},
	})
	if rr.Code != 200 {
		t.Fatalf("append failed: %d", rr.Code)
	}

	if body := get(); !strings.Contains(body, "Bills") {
		t.Fatalf("dashboard still serving stale cache after write: %s", body)
	}
}

func TestLRUCacheTTLAndEviction(t *testing.T) {
	c := newLRUCache[int](2, 20*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3, got %d (ok=%v)", v, ok)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("c"); ok {
		t.Fatalf("expected entry expired after TTL")
	}
	if cleaned := c.CleanExpired(); cleaned != 1 { // "b" is still resident
		t.Fatalf("expected 1 expired entry cleaned, got %d", cleaned)
	}
}

func TestTransactionChangedTriggerIsValidJSON(t *testing.T) {
	for _, owner := range []string{"amit", `o"quote`, `back\slash`} {
		trig := transactionChangedTrigger(owner, 2025, 3)
		if !json.Valid([]byte(trig)) {
			t.Fatalf("trigger for owner %q is not valid JSON: %s", owner, trig)
		}
		var payload map[string]struct {
			Owner string `json:"owner"`
			Year  int    `json:"year"`
			Month int    `json:"month"`
		}
		if err := json.Unmarshal([]byte(trig), &payload); err != nil {
			t.Fatalf("unmarshal trigger: %v", err)
		}
		ev, ok := payload["transaction:changed"]
		if !ok || ev.Owner != owner || ev.Year != 2025 || ev.Month != 3 {
			t.Fatalf("unexpected payload for owner %q: %s", owner, trig)
		}
	}
}

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "₹0.00"},
		{5, "₹0.05"},
		{12050, "₹120.50"},
		{-3250000, "-₹32500.00"},
	}
	for _, tc := range cases {
		if got := formatRupees(tc.cents); got != tc.want {
			t.Errorf("formatRupees(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
