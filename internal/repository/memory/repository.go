package memory

import (
	"context"
	"sync"
	"time"

	"github.com/omarshaarawi/ffdash/internal/models"
)

// DefaultSessionTTL is how long a session survives without being saved again.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Repository keeps the league tables of the current cache epoch and the
// per-browser sessions in process memory.
type Repository struct {
	mu       sync.RWMutex
	epoch    uint64
	tables   map[uint64]*models.LeagueTables
	sessions map[string]sessionEntry

	sessionTTL time.Duration
	now        func() time.Time
}

type sessionEntry struct {
	session models.Session
	savedAt time.Time
}

func NewRepository() *Repository {
	return &Repository{
		tables:     make(map[uint64]*models.LeagueTables),
		sessions:   make(map[string]sessionEntry),
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
	}
}

func (r *Repository) Epoch(_ context.Context) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch, nil
}

// BumpEpoch starts a new epoch and drops every table built for an older one.
func (r *Repository) BumpEpoch(_ context.Context) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	for epoch := range r.tables {
		if epoch < r.epoch {
			delete(r.tables, epoch)
		}
	}
	return r.epoch, nil
}

func (r *Repository) GetTables(_ context.Context, epoch uint64) (*models.LeagueTables, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[epoch]
	return t, ok, nil
}

// SaveTables ignores tables built for an epoch that has already been replaced.
func (r *Repository) SaveTables(_ context.Context, epoch uint64, tables *models.LeagueTables) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch < r.epoch {
		return nil
	}
	r.tables[epoch] = tables
	return nil
}

func (r *Repository) GetSession(id string) (models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok || r.now().Sub(e.savedAt) > r.sessionTTL {
		return models.Session{}, false
	}
	return e.session, true
}

// SaveSession stores s and drops every session that has expired.
func (r *Repository) SaveSession(s models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, e := range r.sessions {
		if now.Sub(e.savedAt) > r.sessionTTL {
			delete(r.sessions, id)
		}
	}
	r.sessions[s.ID] = sessionEntry{session: s, savedAt: now}
}
