// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/engine"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/store"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Store.KeyPrefix = "test"
	cfg.Security.RateLimitDisabled = true
	eng := engine.New(store.NewGuard(store.NewMemory(), store.GuardConfig{Failures: 1000}), cfg)
	t.Cleanup(func() { _ = eng.Close() })
	router := NewRouter(NewHandler(eng, nil), auth.NewResolver(nil), ChiMiddlewareConfigFrom(&cfg.Security))
	return router.SetupChi()
}

func do(t *testing.T, h http.Handler, ctx context.Context, method, path, identity, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader).WithContext(ctx)
	if identity != "" {
		req.Header.Set(auth.IdentityHeader, identity)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestLikeEndpoints(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()

	rec, env := do(t, h, ctx, http.MethodPost, "/api/v1/likes/p1/toggle", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var toggle models.LikeToggleResponse
	decodeData(t, env, &toggle)
	if !toggle.Liked || toggle.ProductID != "p1" {
		t.Errorf("toggle = %+v", toggle)
	}

	do(t, h, ctx, http.MethodPost, "/api/v1/likes/p1/toggle", "u2", "")
	_, env = do(t, h, ctx, http.MethodGet, "/api/v1/likes/p1/count", "u3", "")
	var count models.LikeCountResponse
	decodeData(t, env, &count)
	if count.Count != 2 {
		t.Errorf("count = %d, want 2", count.Count)
	}

	_, env = do(t, h, ctx, http.MethodGet, "/api/v1/likes", "u1", "")
	var list models.ProductListResponse
	decodeData(t, env, &list)
	if !reflect.DeepEqual(list.ProductIDs, []string{"p1"}) {
		t.Errorf("liked = %v", list.ProductIDs)
	}

	_, env = do(t, h, ctx, http.MethodPost, "/api/v1/likes/p1/toggle", "u1", "")
	decodeData(t, env, &toggle)
	if toggle.Liked {
		t.Error("second toggle should unlike")
	}
}

func TestViewsFeedRecommendations(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()

	for _, pid := range []string{"p1", "p2"} {
		rec, _ := do(t, h, ctx, http.MethodPut, "/api/v1/catalog/products/"+pid, "admin", `{"categoryId":"dresses","tags":["boho"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("index %s status = %d", pid, rec.Code)
		}
	}
	for _, pid := range []string{"p1", "p2", "p1"} {
		rec, _ := do(t, h, ctx, http.MethodPost, "/api/v1/views", "u1", `{"categoryId":"dresses","productId":"`+pid+`"}`)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("view %s status = %d", pid, rec.Code)
		}
	}

	tests := []struct {
		path string
		want []string
	}{
		{"/api/v1/recently-viewed", []string{"p1", "p2", "p1"}},
		{"/api/v1/recommendations/trending/dresses", []string{"p1", "p2"}},
		{"/api/v1/recommendations/trending/dresses?k=1", []string{"p1"}},
		{"/api/v1/recommendations/similar/p1?categoryId=dresses", []string{"p2"}},
		{"/api/v1/recommendations/similar/p1", []string{"p2"}},
		{"/api/v1/recommendations/bought-together/p1", []string{"p2"}},
		{"/api/v1/recommendations/bought-together/p2", []string{"p1"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, env := do(t, h, ctx, http.MethodGet, tt.path, "u1", "")
			if rec.Code != http.StatusOK || env.Metadata.Degraded {
				t.Fatalf("status = %d, degraded = %v", rec.Code, env.Metadata.Degraded)
			}
			var list models.ProductListResponse
			decodeData(t, env, &list)
			if len(list.ProductIDs) != len(tt.want) || (len(tt.want) > 0 && !reflect.DeepEqual(list.ProductIDs, tt.want)) {
				t.Errorf("products = %v, want %v", list.ProductIDs, tt.want)
			}
		})
	}
}

func TestPurchaseAndCompleteTheLook(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()

	do(t, h, ctx, http.MethodPut, "/api/v1/catalog/products/dress1", "admin", `{"categoryId":"dresses","tags":["boho"]}`)
	do(t, h, ctx, http.MethodPut, "/api/v1/catalog/products/bag1", "admin", `{"categoryId":"bags","tags":["boho"]}`)
	do(t, h, ctx, http.MethodPut, "/api/v1/catalog/products/bag2", "admin", `{"categoryId":"bags","tags":["formal"]}`)
	rec, _ := do(t, h, ctx, http.MethodPut, "/api/v1/catalog/categories/dresses/complements", "admin", `{"categoryIds":["bags"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complements status = %d", rec.Code)
	}

	rec, _ = do(t, h, ctx, http.MethodPost, "/api/v1/purchases", "u1", `{"productIds":["dress1","bag2"]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("purchase status = %d", rec.Code)
	}

	_, env := do(t, h, ctx, http.MethodGet, "/api/v1/recommendations/complete-the-look/dress1", "u1", "")
	var look models.ProductListResponse
	decodeData(t, env, &look)
	if !reflect.DeepEqual(look.ProductIDs, []string{"bag1"}) {
		t.Errorf("complete the look = %v, want [bag1]", look.ProductIDs)
	}

	_, env = do(t, h, ctx, http.MethodGet, "/api/v1/recommendations/bought-together/dress1", "u1", "")
	var bought models.ProductListResponse
	decodeData(t, env, &bought)
	if !reflect.DeepEqual(bought.ProductIDs, []string{"bag2"}) {
		t.Errorf("bought together = %v, want [bag2]", bought.ProductIDs)
	}
}

func TestCartEndpoints(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()
	line := `{"productId":"p1","name":"Linen Dress","price":"49.95","selectedSize":"M"}`

	do(t, h, ctx, http.MethodPost, "/api/v1/cart/items", "u1", line)
	rec, env := do(t, h, ctx, http.MethodPost, "/api/v1/cart/items", "u1", line)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	var cart models.CartResponse
	decodeData(t, env, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart = %+v, want one line with quantity 2", cart.Items)
	}
	if cart.Summary.Subtotal.String() != "99.9" {
		t.Errorf("subtotal = %s, want 99.9", cart.Summary.Subtotal)
	}
	lineID := cart.Items[0].ID

	rec, env = do(t, h, ctx, http.MethodPut, "/api/v1/cart/items/missing", "u1", `{"quantity":3}`)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "LINE_NOT_FOUND" {
		t.Errorf("update missing = %d %+v", rec.Code, env.Error)
	}

	_, env = do(t, h, ctx, http.MethodPut, "/api/v1/cart/items/"+lineID, "u1", `{"quantity":5}`)
	decodeData(t, env, &cart)
	if cart.Summary.ItemCount != 5 {
		t.Errorf("item count = %d, want 5", cart.Summary.ItemCount)
	}

	// Carts are per identity.
	_, env = do(t, h, ctx, http.MethodGet, "/api/v1/cart", "u2", "")
	decodeData(t, env, &cart)
	if len(cart.Items) != 0 {
		t.Errorf("u2 cart = %+v, want empty", cart.Items)
	}

	_, env = do(t, h, ctx, http.MethodDelete, "/api/v1/cart/items/"+lineID, "u1", "")
	decodeData(t, env, &cart)
	if len(cart.Items) != 0 {
		t.Errorf("cart after remove = %+v", cart.Items)
	}

	do(t, h, ctx, http.MethodPost, "/api/v1/cart/items", "u1", line)
	rec, _ = do(t, h, ctx, http.MethodDelete, "/api/v1/cart", "u1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("clear status = %d", rec.Code)
	}
	_, env = do(t, h, ctx, http.MethodGet, "/api/v1/cart", "u1", "")
	decodeData(t, env, &cart)
	if len(cart.Items) != 0 {
		t.Errorf("cart after clear = %+v", cart.Items)
	}
}

func TestRequestErrors(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		method     string
		path       string
		identity   string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", http.MethodPost, "/api/v1/views", "u1", `{"productId":`, http.StatusBadRequest, "INVALID_JSON"},
		{"missing product", http.MethodPost, "/api/v1/views", "u1", `{"categoryId":"dresses"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty basket", http.MethodPost, "/api/v1/purchases", "u1", `{"productIds":[]}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative price", http.MethodPost, "/api/v1/cart/items", "u1", `{"productId":"p1","price":"-1"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative quantity", http.MethodPut, "/api/v1/cart/items/l1", "u1", `{"quantity":-1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad category query", http.MethodGet, "/api/v1/recommendations/similar/p1?categoryId=a%20b", "u1", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid identity header", http.MethodGet, "/api/v1/likes", "bad id", "", http.StatusUnauthorized, "INVALID_IDENTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, ctx, tt.method, tt.path, tt.identity, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestStoreOutage(t *testing.T) {
	h := newTestRouter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, path := range []string{"/api/v1/likes", "/api/v1/recently-viewed", "/api/v1/recommendations/trending/dresses", "/api/v1/cart"} {
		rec, env := do(t, h, ctx, http.MethodGet, path, "u1", "")
		if rec.Code != http.StatusOK || !env.Metadata.Degraded {
			t.Errorf("GET %s = %d degraded=%v, want 200 degraded", path, rec.Code, env.Metadata.Degraded)
		}
	}

	rec, env := do(t, h, ctx, http.MethodPost, "/api/v1/views", "u1", `{"categoryId":"dresses","productId":"p1"}`)
	if rec.Code != http.StatusAccepted || !env.Metadata.Degraded {
		t.Errorf("view during outage = %d degraded=%v, want 202 degraded", rec.Code, env.Metadata.Degraded)
	}
	rec, env = do(t, h, ctx, http.MethodPost, "/api/v1/purchases", "u1", `{"productIds":["p1","p2"]}`)
	if rec.Code != http.StatusAccepted || !env.Metadata.Degraded {
		t.Errorf("purchase during outage = %d degraded=%v, want 202 degraded", rec.Code, env.Metadata.Degraded)
	}
	for _, op := range []string{"record_view", "record_purchase"} {
		if got := testutil.ToFloat64(metrics.EngineDegraded.WithLabelValues(op)); got < 1 {
			t.Errorf("%s degradations = %v, want >= 1", op, got)
		}
	}

	rec, env = do(t, h, ctx, http.MethodPost, "/api/v1/likes/p1/toggle", "u1", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != "STORE_UNAVAILABLE" {
		t.Errorf("toggle during outage = %d %+v", rec.Code, env.Error)
	}

	rec, _ = do(t, h, ctx, http.MethodGet, "/api/v1/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready during outage = %d, want 503", rec.Code)
	}
}

func TestHealthMetricsAndHeaders(t *testing.T) {
	h := newTestRouter(t)
	ctx := context.Background()

	rec, _ := do(t, h, ctx, http.MethodGet, "/api/v1/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live = %d", rec.Code)
	}
	rec, _ = do(t, h, ctx, http.MethodGet, "/api/v1/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready = %d", rec.Code)
	}

	rec, _ = do(t, h, ctx, http.MethodGet, "/api/v1/likes", "u1", "")
	for _, header := range []string{"X-Request-ID", "X-Content-Type-Options", "X-Frame-Options"} {
		if rec.Header().Get(header) == "" {
			t.Errorf("missing %s header", header)
		}
	}

	rec, _ = do(t, h, ctx, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "vitrine_api_requests_total") {
		t.Errorf("metrics = %d", rec.Code)
	}

	rec, _ = do(t, h, ctx, http.MethodGet, "/api/v1/ws", "u1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("ws without realtime handler = %d, want 404", rec.Code)
	}
}
