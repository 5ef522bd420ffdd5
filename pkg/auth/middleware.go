// Package auth guards the streamable HTTP transport with static client keys.
// The stdio transport is never authenticated.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const clientKey contextKey = "mcp_client"

// ClientFromContext returns the authenticated client name, or "".
func ClientFromContext(ctx context.Context) string {
	v, _ := ctx.Value(clientKey).(string)
	return v
}

// RequireKey rejects requests without a known key. Keys are read from
// X-API-Key or an Authorization bearer token. skip lists paths served without
// a key.
func RequireKey(keys *KeyStore, log *slog.Logger, skip ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(skip))
	for _, p := range skip {
		open[p] = true
	}
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					key = strings.TrimSpace(bearer)
				}
			}
			if key == "" {
				unauthorized(w, "missing API key")
				return
			}

			client, ok := keys.Lookup(key)
			if !ok {
				log.WarnContext(r.Context(), "rejected MCP client", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				unauthorized(w, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), clientKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="activecampaign-mcp"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
