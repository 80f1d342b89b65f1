package router

import (
	"net/http"
	"sync/atomic"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Live serves the current Tree and lets it be replaced while requests are in
// flight. Requests already dispatched keep the tree they started with.
type Live[C handler.Context] struct {
	current atomic.Pointer[Tree[C]]
}

// NewLive returns a Live serving t.
func NewLive[C handler.Context](t *Tree[C]) *Live[C] {
	l := &Live[C]{}
	l.current.Store(t)
	return l
}

// Load returns the tree currently served.
func (l *Live[C]) Load() *Tree[C] { return l.current.Load() }

// Swap installs t and returns the previous tree.
func (l *Live[C]) Swap(t *Tree[C]) *Tree[C] { return l.current.Swap(t) }

// Reload builds r and swaps it in. On error the served tree is unchanged.
func (l *Live[C]) Reload(r Router[C]) error {
	t, err := r.Build()
	if err != nil {
		return err
	}
	l.current.Store(t)
	return nil
}

func (l *Live[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := l.current.Load()
	if t == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	t.ServeHTTP(w, r)
}
