package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/session"
)

// SessionIDHeader carries the visitor session ID on requests and responses.
const SessionIDHeader = "X-Session-ID"

// SessionOpener resolves session IDs to live sessions.
type SessionOpener interface {
	Create(ctx context.Context) (*session.Session, error)
	Open(ctx context.Context, id string) (*session.Session, error)
}

// Session returns a middleware that attaches the visitor session to the
// request context. Requests without X-Session-ID get a new session; the ID
// is echoed in the response header either way. Malformed IDs are rejected
// with 400.
func Session(sessions SessionOpener, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				s   *session.Session
				err error
			)
			if id := r.Header.Get(SessionIDHeader); id == "" {
				s, err = sessions.Create(r.Context())
			} else {
				s, err = sessions.Open(r.Context(), id)
			}

			switch {
			case errors.Is(err, session.ErrInvalidID):
				writeError(w, http.StatusBadRequest, "invalid session ID")
				return
			case err != nil:
				logger.Error("failed to open session",
					zap.String("request_id", getRequestID(r)),
					zap.Error(err),
				)
				writeError(w, http.StatusServiceUnavailable, "session unavailable")
				return
			}

			w.Header().Set(SessionIDHeader, s.ID)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}
