package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodRouting(t *testing.T) {
	r := New()
	r.Get("/products/{slug}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("get:" + req.PathValue("slug")))
	})
	r.Post("/products/{slug}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/argan-oil", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "get:argan-oil", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products/argan-oil", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/argan-oil", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMiddlewareRunsInDeclarationOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "enter:"+name)
				next.ServeHTTP(w, req)
				order = append(order, "exit:"+name)
			})
		}
	}

	r := New(tag("global"))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}, tag("route"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{
		"enter:global", "enter:route", "handler", "exit:route", "exit:global",
	}, order)
}

func TestGroupExtendsChainWithoutLeaking(t *testing.T) {
	var trail []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := New(tag("global"))
	admin := r.Group(tag("admin"))
	admin.Get("/admin", func(w http.ResponseWriter, req *http.Request) {})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, []string{"global", "admin"}, trail)

	// the public route must not pick up the group middleware
	trail = nil
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"global"}, trail)
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := New(Recovery(logger))
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSOnlyForAllowedOrigins(t *testing.T) {
	r := New(CORS([]string{"https://shop.example"}))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
