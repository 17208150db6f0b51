package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuseats/canteen/pkg/router"
)

func TestNamedRoutesAndParams(t *testing.T) {
	r := router.New()
	r.Get("/orders/{id}", "orders.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("order " + router.Param(req, "id")))
	})

	if path, ok := r.Path("orders.show"); !ok || path != "/orders/{id}" {
		t.Errorf("expected named route, got %q %v", path, ok)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	if rec.Body.String() != "order 7" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	r := router.New()
	var order []string

	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api", mw("api"))
	admin := api.Group("/admin", mw("admin"))
	admin.Get("/ping", "admin.ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(order) != 2 || order[0] != "api" || order[1] != "admin" {
		t.Errorf("unexpected middleware order: %v", order)
	}
}

func TestURLReversing(t *testing.T) {
	r := router.New()
	r.Get("/canteens/{id}/menu", "canteens.menu", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("canteens.menu", map[string]string{"id": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/canteens/3/menu" {
		t.Errorf("expected /canteens/3/menu, got %s", url)
	}

	if _, err := r.URL("missing.route", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}
