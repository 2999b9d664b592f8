// Package session composes the per-visitor state containers and ties them
// to persistence.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vyrodovalexey/zuice-storefront/internal/cart"
	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/chat"
	"github.com/vyrodovalexey/zuice-storefront/internal/ui"
	"github.com/vyrodovalexey/zuice-storefront/internal/user"
)

// Session is the state of one visitor. The stores are independent and
// each is safe for concurrent use.
type Session struct {
	ID      string
	Cart    *cart.Store
	User    *user.Store
	UI      *ui.Store
	Catalog *catalog.Store
	Chat    *chat.Transcript

	lastSeen atomic.Int64
	holders  atomic.Int32

	closeOnce   sync.Once
	done        chan struct{}
	unsubscribe []func()
}

// Done is closed when the session is evicted or the manager shuts down.
// Long-lived consumers such as WebSocket connections stop on it.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// LastSeen returns the time of the last access.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Hold keeps the session from idle eviction until release is called.
func (s *Session) Hold() (release func()) {
	s.holders.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { s.holders.Add(-1) })
	}
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) held() bool {
	return s.holders.Load() > 0
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		for _, fn := range s.unsubscribe {
			fn()
		}
		close(s.done)
	})
}

type contextKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
