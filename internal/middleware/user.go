package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	"github.com/jferrall/teachbridge/backend/internal/store"
	"github.com/jferrall/teachbridge/backend/pkg/utils"
)

type userContextKey struct{}

// UserFromContext returns the user resolved by ResolveUser.
func UserFromContext(ctx context.Context) (comm.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(comm.User)
	return user, ok
}

// ResolveUser maps the X-Username header to a user record and threads it
// through the request context. An absent header falls back to
// fallbackUsername (the seeded demo teacher). Full authentication is an
// external collaborator; this is the dev-mode identity check.
func ResolveUser(st store.Store, fallbackUsername string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := strings.TrimSpace(r.Header.Get("X-Username"))
			if username == "" {
				username = fallbackUsername
			}

			user, err := st.GetUserByUsername(r.Context(), username)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					utils.RespondError(w, http.StatusUnauthorized, "unknown user")
					return
				}
				utils.RespondError(w, http.StatusInternalServerError, "failed to resolve user")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
