package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dreamware/snapfeed/internal/logging"
	"github.com/dreamware/snapfeed/internal/social"
)

// UserIDHeader carries the acting user's id.
// The value is trusted as-is: this is self-identification, not
// authentication, and tokens issued at login are never checked.
const UserIDHeader = "x-user-id"

type userIDKey struct{}

// RequireUser rejects requests without a well-formed user id header and
// stores the parsed id in the request context. It runs before any handler,
// so a rejected request never reaches a store.
func RequireUser(next http.Handler) http.Handler {
	return identify(next, true)
}

// OptionalUser stores the user id in the request context when the header is
// present. A malformed header is still rejected.
func OptionalUser(next http.Handler) http.Handler {
	return identify(next, false)
}

func identify(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			if required {
				writeError(w, r, social.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, social.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, id)
		logger := logging.Ctx(ctx).With().Str(logging.FieldUserID, id.String()).Logger()
		ctx = logging.WithLogger(ctx, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the acting user id stored by RequireUser or OptionalUser
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}
