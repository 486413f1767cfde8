package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flownet/pkg/config"
	"flownet/pkg/passhash"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_Generated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/solve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if captured == "" {
		t.Error("request_id should be present in context")
	}
	if rr.Header().Get(RequestIDHeader) != captured {
		t.Errorf("response header %s = %q, want %q", RequestIDHeader, rr.Header().Get(RequestIDHeader), captured)
	}
}

func TestRequestID_Preserved(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/v1/solve", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if captured != "client-supplied-id" {
		t.Errorf("request_id = %q, want client-supplied-id", captured)
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID on empty context = %q, want empty", got)
	}
}

func TestClientID_RoundTrip(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	ctx := WithClientID(req.Context(), "client-42")
	if got := GetClientID(ctx); got != "client-42" {
		t.Errorf("GetClientID = %q, want client-42", got)
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/v1/runs", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	handler := Metrics(okHandler())

	req := httptest.NewRequest("GET", "/v1/runs/some-id", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/solve", "/v1/solve"},
		{"/v1/runs", "/v1/runs"},
		{"/v1/runs/0b1f6f7e-6e1a-4f8e-9f1c-1c2d3e4f5a6b", "/v1/runs/{id}"},
		{"/v1/runs/0b1f6f7e-6e1a-4f8e-9f1c-1c2d3e4f5a6b/export", "/v1/runs/{id}/export"},
		{"/healthz", "/healthz"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	handler := Recovery(okHandler())

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func testAuthConfig(t *testing.T) config.AuthConfig {
	t.Helper()

	hash, err := passhash.HashPassword("top-secret-key")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	return config.AuthConfig{
		Enabled:      true,
		JWTSecret:    "test-secret",
		Issuer:       "flownet-test",
		TokenTTL:     time.Hour,
		APIKeyHeader: "X-Api-Key",
		APIKeyHashes: []string{hash},
	}
}

func TestAuth_Disabled(t *testing.T) {
	cfg := config.AuthConfig{Enabled: false}
	handler := Auth(cfg)(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuth_PublicPath(t *testing.T) {
	handler := Auth(testAuthConfig(t))(okHandler())

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuth_MissingCredentials(t *testing.T) {
	handler := Auth(testAuthConfig(t))(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidJWT(t *testing.T) {
	cfg := testAuthConfig(t)

	manager := passhash.NewJWTManager(&passhash.JWTConfig{
		SecretKey:   cfg.JWTSecret,
		TokenExpiry: cfg.TokenTTL,
		Issuer:      cfg.Issuer,
	})
	token, err := manager.GenerateToken("client-1", "solve")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var clientID string
	handler := Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID = GetClientID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if clientID != "client-1" {
		t.Errorf("client_id = %q, want client-1", clientID)
	}
}

func TestAuth_InvalidJWT(t *testing.T) {
	handler := Auth(testAuthConfig(t))(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidAPIKey(t *testing.T) {
	var clientID string
	handler := Auth(testAuthConfig(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID = GetClientID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("X-Api-Key", "top-secret-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if clientID != "api-key-0" {
		t.Errorf("client_id = %q, want api-key-0", clientID)
	}
}

func TestAuth_WrongAPIKey(t *testing.T) {
	handler := Auth(testAuthConfig(t))(okHandler())

	req := httptest.NewRequest("POST", "/v1/solve", nil)
	req.Header.Set("X-Api-Key", "wrong-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		cfg            config.CORSConfig
		requestOrigin  string
		requestMethod  string
		expectedOrigin string
		expectNoOrigin bool
	}{
		{
			name: "allowed origin",
			cfg: config.CORSConfig{
				AllowedOrigins:   []string{"http://localhost:3000"},
				AllowedMethods:   []string{"GET", "POST"},
				AllowedHeaders:   []string{"Content-Type"},
				AllowCredentials: true,
				MaxAge:           86400,
			},
			requestOrigin:  "http://localhost:3000",
			requestMethod:  "GET",
			expectedOrigin: "http://localhost:3000",
		},
		{
			name: "wildcard origin",
			cfg: config.CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"*"},
				MaxAge:         86400,
			},
			requestOrigin:  "http://any-origin.com",
			requestMethod:  "GET",
			expectedOrigin: "*",
		},
		{
			name: "not allowed origin",
			cfg: config.CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         86400,
			},
			requestOrigin:  "http://evil.com",
			requestMethod:  "GET",
			expectNoOrigin: true,
		},
		{
			name: "preflight request",
			cfg: config.CORSConfig{
				AllowedOrigins:   []string{"http://localhost:3000"},
				AllowedMethods:   []string{"GET", "POST", "DELETE"},
				AllowedHeaders:   []string{"Content-Type", "Authorization"},
				AllowCredentials: true,
				MaxAge:           86400,
			},
			requestOrigin:  "http://localhost:3000",
			requestMethod:  "OPTIONS",
			expectedOrigin: "http://localhost:3000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corsHandler := CORS(tt.cfg)(okHandler())

			req := httptest.NewRequest(tt.requestMethod, "/v1/solve", nil)
			req.Header.Set("Origin", tt.requestOrigin)

			rr := httptest.NewRecorder()
			corsHandler.ServeHTTP(rr, req)

			origin := rr.Header().Get("Access-Control-Allow-Origin")

			if tt.expectNoOrigin {
				if origin != "" {
					t.Errorf("Expected no origin header, got %v", origin)
				}
			} else if origin != tt.expectedOrigin {
				t.Errorf("Access-Control-Allow-Origin = %v, want %v", origin, tt.expectedOrigin)
			}

			if tt.requestMethod == "OPTIONS" {
				if rr.Code != http.StatusNoContent {
					t.Errorf("Preflight response code = %d, want %d", rr.Code, http.StatusNoContent)
				}
				if maxAge := rr.Header().Get("Access-Control-Max-Age"); maxAge != "86400" {
					t.Errorf("Access-Control-Max-Age = %v, want 86400", maxAge)
				}
			}

			if tt.cfg.AllowCredentials && !tt.expectNoOrigin {
				if creds := rr.Header().Get("Access-Control-Allow-Credentials"); creds != "true" {
					t.Errorf("Access-Control-Allow-Credentials = %v, want true", creds)
				}
			}
		})
	}
}

func TestPrepareAllowedHeaders(t *testing.T) {
	wildcard := prepareAllowedHeaders([]string{"*"})
	if wildcard == "*" {
		t.Error("wildcard should be expanded into a concrete list")
	}

	explicit := prepareAllowedHeaders([]string{"Content-Type"})
	if explicit != "Content-Type, Authorization" {
		t.Errorf("prepareAllowedHeaders = %q, Authorization should be appended", explicit)
	}
}
