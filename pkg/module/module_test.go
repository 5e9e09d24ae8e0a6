package module_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/wayfinder/pkg/module"
)

func body(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(text + ":" + r.URL.Path))
	}
}

func TestNewInvalidPrefixPanics(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"nested path", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", body("root"))
	mux.HandleFunc("GET /runs", body("runs"))

	m := module.New("/api", mux)

	tests := []struct {
		path string
		want string
	}{
		{"/api/runs", "runs:/runs"},
		{"/api", "root:/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Serve(rec, httptest.NewRequest("GET", tt.path, nil))

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body: got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", body("root"))

	m := module.New("/api", mux)

	var calls int
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			next.ServeHTTP(w, r)
		})
	})

	for range 2 {
		m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))
	}

	if calls != 2 {
		t.Errorf("middleware calls: got %d, want 2", calls)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /runs", body("api"))

	appMux := http.NewServeMux()
	appMux.HandleFunc("GET /", body("app"))

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.Mount(module.New("/app", appMux))
	router.HandleNative("GET /healthz", body("native"))

	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{"api module", "/api/runs", "api:/runs"},
		{"app module", "/app", "app:/"},
		{"trailing slash", "/api/runs/", "api:/runs"},
		{"native fallback", "/healthz", "native:/healthz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body: got %s, want %s", got, tt.wantBody)
			}
		})
	}

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/app"}) {
		t.Errorf("prefixes: got %v", got)
	}
}
