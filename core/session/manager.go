package session

import (
	"context"
	"errors"
)

// Manager loads and commits sessions against a Store.
type Manager[Data any] struct {
	store Store[Data]
	cfg   Config
}

// NewManager creates a Manager. Zero config fields take their defaults.
func NewManager[Data any](store Store[Data], cfg Config) *Manager[Data] {
	return &Manager[Data]{store: store, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (m *Manager[Data]) Config() Config { return m.cfg }

// Load returns the session for id. A malformed, unknown or expired id yields
// a fresh empty session with a new id.
func (m *Manager[Data]) Load(ctx context.Context, id string) (*Session[Data], error) {
	if id != "" && m.store.ValidateID(id) {
		data, found, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, errors.Join(ErrLoadSession, err)
		}
		if found {
			return &Session[Data]{id: id, data: data}, nil
		}
	}
	return &Session[Data]{id: m.store.GenerateID(), fresh: true}, nil
}

// Outcome tells the caller what to do with the session cookie after Commit.
type Outcome struct {
	// ID is the id to send to the client, empty when nothing changes.
	ID string
	// Write means the cookie must be (re)written with ID.
	Write bool
	// Remove means the cookie must be expired.
	Remove bool
}

// Commit persists the changes made to s during a request.
func (m *Manager[Data]) Commit(ctx context.Context, s *Session[Data]) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateDestroyed:
		if s.fresh {
			return Outcome{}, nil
		}
		if err := m.store.Delete(ctx, s.id); err != nil {
			return Outcome{}, errors.Join(ErrDeleteSession, err)
		}
		return Outcome{Remove: true}, nil

	case stateRenewed:
		if !s.fresh {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return Outcome{}, errors.Join(ErrDeleteSession, err)
			}
		}
		s.id = m.store.GenerateID()
		fallthrough

	case stateChanged:
		if err := m.store.Set(ctx, s.id, s.data, m.cfg.TTL); err != nil {
			return Outcome{}, errors.Join(ErrSaveSession, err)
		}
		s.fresh = false
		s.state = stateUnchanged
		return Outcome{ID: s.id, Write: true}, nil
	}

	return Outcome{}, nil
}
