package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"flownet/pkg/config"
	"flownet/pkg/logger"
	"flownet/pkg/passhash"
)

// publicPaths пути, доступные без авторизации
var publicPaths = map[string]bool{
	"/healthz":      true,
	"/metrics":      true,
	"/openapi.json": true,
}

func isPublicPath(path string) bool {
	return publicPaths[path] || strings.HasPrefix(path, "/swagger")
}

// Auth проверяет авторизацию: Bearer JWT токен либо API-ключ в
// заголовке. Ключи хранятся в конфигурации в виде argon2id хэшей.
func Auth(cfg config.AuthConfig) func(http.Handler) http.Handler {
	jwtManager := passhash.NewJWTManager(&passhash.JWTConfig{
		SecretKey:   cfg.JWTSecret,
		TokenExpiry: cfg.TokenTTL,
		Issuer:      cfg.Issuer,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Сначала пробуем Bearer токен
			if token := bearerToken(r); token != "" {
				claims, err := jwtManager.ValidateToken(token)
				if err != nil {
					logger.FromContext(r.Context()).Warn("Token validation failed", "error", err)
					unauthorized(w, "invalid token")
					return
				}

				ctx := WithClientID(r.Context(), claims.ClientID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Затем API-ключ
			if key := r.Header.Get(cfg.APIKeyHeader); key != "" {
				for i, hash := range cfg.APIKeyHashes {
					ok, err := passhash.VerifyPassword(key, hash)
					if err != nil {
						logger.FromContext(r.Context()).Warn("API key hash is malformed", "index", i, "error", err)
						continue
					}
					if ok {
						ctx := WithClientID(r.Context(), fmt.Sprintf("api-key-%d", i))
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}
				unauthorized(w, "invalid API key")
				return
			}

			unauthorized(w, "missing credentials")
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":{"code":"UNAUTHENTICATED","message":%q}}`, message)
}
