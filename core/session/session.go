package session

import "sync"

type state uint8

const (
	stateUnchanged state = iota
	stateChanged
	stateRenewed
	stateDestroyed
)

// Session is the request-scoped view of one visitor's session. Handlers
// change it; the session middleware persists it after the handler returns.
type Session[Data any] struct {
	mu    sync.Mutex
	id    string
	data  Data
	fresh bool
	state state
}

// ID returns the session id. For a fresh session it is the id that will be
// stored once the session is changed.
func (s *Session[Data]) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Data returns a copy of the session data.
func (s *Session[Data]) Data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsNew reports whether the session did not exist before this request.
func (s *Session[Data]) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fresh
}

// Set replaces the session data.
func (s *Session[Data]) Set(data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.mark(stateChanged)
}

// Update modifies the session data in place.
func (s *Session[Data]) Update(fn func(*Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
	s.mark(stateChanged)
}

// Renew keeps the data but moves it to a new id when saved. Call it after
// privilege changes such as login.
func (s *Session[Data]) Renew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark(stateRenewed)
}

// Destroy drops the session and its cookie when saved.
func (s *Session[Data]) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero Data
	s.data = zero
	s.state = stateDestroyed
}

// mark raises the state; destroyed and renewed are never downgraded.
func (s *Session[Data]) mark(st state) {
	if st > s.state {
		s.state = st
	}
}
