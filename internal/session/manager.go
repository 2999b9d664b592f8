package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/cart"
	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/chat"
	"github.com/vyrodovalexey/zuice-storefront/internal/metrics"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/persist"
	"github.com/vyrodovalexey/zuice-storefront/internal/ui"
	"github.com/vyrodovalexey/zuice-storefront/internal/user"
)

// Session errors.
var (
	ErrInvalidID = errors.New("invalid session ID")
	ErrClosed    = errors.New("session manager closed")
)

// Defaults for Config.
const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultSaveTimeout = 5 * time.Second
)

// Config configures a Manager.
type Config struct {
	// IdleTimeout evicts sessions not seen for this long. Evicted sessions
	// are rebuilt from persisted records on the next request.
	IdleTimeout time.Duration
	// SweepInterval is the eviction period. Defaults to IdleTimeout / 2.
	SweepInterval time.Duration
	// SaveTimeout bounds a single record write.
	SaveTimeout time.Duration
	// ChatStrategy selects the greeting of new transcripts.
	ChatStrategy string
	// Products seeds the catalog of every session.
	Products []model.Product
}

// Manager owns the live sessions. Sessions are created on demand, keyed by
// a client-held UUID, and rehydrated from the persistence store.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	store  persist.Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a manager persisting to store.
func NewManager(store persist.Store, cfg Config, logger *zap.Logger) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.IdleTimeout / 2
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}

	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session under a fresh ID.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.Open(ctx, uuid.New().String())
}

// Open returns the live session with the given ID, rebuilding it from
// persisted records when it is not in memory.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	id = parsed.String()

	if s, ok := m.lookup(id); ok {
		return s, nil
	}

	fresh := m.build(ctx, id)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		fresh.close()
		return nil, ErrClosed
	}
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		fresh.close()
		s.touch(m.now())
		return s, nil
	}
	m.sessions[id] = fresh
	m.mu.Unlock()

	metrics.SessionOpened()
	m.logger.Debug("session opened", zap.String("session_id", id))
	return fresh, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Healthy reports whether the persistence backend accepts calls.
func (m *Manager) Healthy() bool {
	return persist.Healthy(m.store)
}

// Run evicts idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(); n > 0 {
				m.logger.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// EvictIdle drops sessions idle for longer than the idle timeout and not
// held. It returns the number of evicted sessions.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.held() || s.LastSeen().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		evicted = append(evicted, s)
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.close()
		metrics.SessionClosed()
	}
	return len(evicted)
}

// Close drops every session and rejects new ones. Persisted records are
// kept.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.closed = true
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
		metrics.SessionClosed()
	}
}

func (m *Manager) lookup(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// build assembles a session, restores its persisted records and wires the
// stores to save on change.
func (m *Manager) build(ctx context.Context, id string) *Session {
	products := m.cfg.Products
	cat := catalog.NewStore(products)
	bounds := catalog.PriceBounds(products)
	cat.UpdateFilters(catalog.FilterPatch{PriceRange: &bounds})

	s := &Session{
		ID:      id,
		Cart:    cart.NewStore(),
		User:    user.NewStore(),
		UI:      ui.NewStore(),
		Catalog: cat,
		Chat:    chat.NewTranscript(m.cfg.ChatStrategy),
		done:    make(chan struct{}),
	}
	s.touch(m.now())

	if snap, ok := load[cart.Snapshot](ctx, m, id, persist.CartRecord); ok {
		s.Cart.Restore(snap)
	}
	if st, ok := load[user.State](ctx, m, id, persist.UserRecord); ok {
		s.User.Restore(st)
	}

	s.unsubscribe = []func(){
		s.Cart.Subscribe(func(st cart.State) {
			m.save(id, persist.CartRecord, cart.Snapshot{Items: st.Items})
		}),
		s.User.Subscribe(func(st user.State) {
			m.save(id, persist.UserRecord, st)
		}),
	}
	return s
}

// load reads a record. Missing and broken records leave the store at its
// defaults.
func load[T any](ctx context.Context, m *Manager, id, record string) (T, bool) {
	v, ok, err := persist.Load[T](ctx, m.store, persist.Key(id, record))
	switch {
	case errors.Is(err, persist.ErrCorrupt):
		metrics.PersistLoad(record, metrics.ResultCorrupt)
		m.logger.Warn("ignoring undecodable record",
			zap.String("session_id", id),
			zap.String("record", record),
			zap.Error(err),
		)
	case err != nil:
		metrics.PersistLoad(record, metrics.ResultError)
		m.logger.Error("failed to load record",
			zap.String("session_id", id),
			zap.String("record", record),
			zap.Error(err),
		)
	case !ok:
		metrics.PersistLoad(record, metrics.ResultMissing)
	default:
		metrics.PersistLoad(record, metrics.ResultOK)
	}
	return v, ok
}

// save writes a record. Failures are logged and counted; the in-memory
// state stays authoritative.
func (m *Manager) save(id, record string, v any) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.SaveTimeout)
	defer cancel()

	if err := persist.Save(ctx, m.store, persist.Key(id, record), v); err != nil {
		metrics.PersistWrite(record, metrics.ResultError)
		m.logger.Error("failed to persist record",
			zap.String("session_id", id),
			zap.String("record", record),
			zap.Error(err),
		)
		return
	}
	metrics.PersistWrite(record, metrics.ResultOK)
}
