package tenant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizhub-erp/bizhub/internal/shared"
)

// Middleware validates the phone query parameter once at the boundary and
// threads the resulting Key through the request context. Handlers behind it
// never see a raw phone string.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := Normalize(r.URL.Query().Get("phone"))
			if err != nil {
				if logger != nil && !errors.Is(err, ErrMissing) {
					logger.Warn("tenant key rejected", slog.String("path", r.URL.Path))
				}
				shared.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithKey(r.Context(), key)))
		})
	}
}

// RequireKey fetches the tenant key set by Middleware. It writes a 400 and
// returns false when the middleware was bypassed, so handlers can bail early.
func RequireKey(w http.ResponseWriter, r *http.Request) (Key, bool) {
	key, ok := FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusBadRequest, ErrMissing.Error())
		return "", false
	}
	return key, true
}
