package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/session"
)

type cart struct {
	Items int
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		id := session.GenerateID()
		assert.Len(t, id, session.IDLength)
		assert.True(t, session.ValidateID(id))
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	assert.False(t, session.ValidateID(""))
	assert.False(t, session.ValidateID("short"))
	assert.False(t, session.ValidateID("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!"))
	assert.True(t, session.ValidateID("abcdefghijklmnopqrstuvwxyz012345"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryStore[cart]()

		_, found, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, s.Set(ctx, "a", cart{Items: 2}, time.Hour))
		got, found, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, got.Items)

		require.NoError(t, s.Delete(ctx, "a"))
		require.NoError(t, s.Delete(ctx, "a"))
		_, found, _ = s.Get(ctx, "a")
		assert.False(t, found)
	})

	t.Run("expiry", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryStore[cart]()

		require.NoError(t, s.Set(ctx, "short", cart{}, time.Millisecond))
		require.NoError(t, s.Set(ctx, "long", cart{}, time.Hour))
		time.Sleep(5 * time.Millisecond)

		_, found, err := s.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, s.Set(ctx, "short2", cart{}, time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		n, err := s.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()
		s := session.NewMemoryStore[cart]()

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := s.GenerateID()
				assert.NoError(t, s.Set(ctx, id, cart{Items: i}, time.Minute))
				got, found, err := s.Get(ctx, id)
				assert.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, i, got.Items)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, s.Len())
	})
}

func TestManagerLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fresh for empty or invalid id", func(t *testing.T) {
		t.Parallel()
		m := session.NewManager(session.NewMemoryStore[cart](), session.Config{})

		for _, id := range []string{"", "not-valid", session.GenerateID()} {
			sess, err := m.Load(ctx, id)
			require.NoError(t, err)
			assert.True(t, sess.IsNew())
			assert.NotEqual(t, id, sess.ID())
			assert.True(t, session.ValidateID(sess.ID()))
		}
	})

	t.Run("existing session", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[cart]()
		id := store.GenerateID()
		require.NoError(t, store.Set(ctx, id, cart{Items: 3}, time.Hour))

		m := session.NewManager(store, session.Config{})
		sess, err := m.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, sess.IsNew())
		assert.Equal(t, id, sess.ID())
		assert.Equal(t, 3, sess.Data().Items)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		m := session.NewManager[cart](failingStore{}, session.Config{})
		_, err := m.Load(ctx, session.GenerateID())
		assert.ErrorIs(t, err, session.ErrLoadSession)
		assert.ErrorIs(t, err, errBackend)
	})
}

func TestManagerCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("untouched fresh session is not stored", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[cart]()
		m := session.NewManager(store, session.Config{})

		sess, _ := m.Load(ctx, "")
		out, err := m.Commit(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, session.Outcome{}, out)
		assert.Zero(t, store.Len())
	})

	t.Run("changed session is stored", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[cart]()
		m := session.NewManager(store, session.Config{})

		sess, _ := m.Load(ctx, "")
		sess.Update(func(c *cart) { c.Items++ })
		out, err := m.Commit(ctx, sess)
		require.NoError(t, err)
		assert.True(t, out.Write)
		assert.Equal(t, sess.ID(), out.ID)
		assert.False(t, sess.IsNew())

		got, found, _ := store.Get(ctx, out.ID)
		assert.True(t, found)
		assert.Equal(t, 1, got.Items)
	})

	t.Run("renew moves data to a new id", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[cart]()
		m := session.NewManager(store, session.Config{})

		old := store.GenerateID()
		require.NoError(t, store.Set(ctx, old, cart{Items: 7}, time.Hour))

		sess, _ := m.Load(ctx, old)
		sess.Renew()
		out, err := m.Commit(ctx, sess)
		require.NoError(t, err)
		assert.True(t, out.Write)
		assert.NotEqual(t, old, out.ID)

		_, found, _ := store.Get(ctx, old)
		assert.False(t, found)
		got, found, _ := store.Get(ctx, out.ID)
		assert.True(t, found)
		assert.Equal(t, 7, got.Items)
	})

	t.Run("destroy removes session", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore[cart]()
		m := session.NewManager(store, session.Config{})

		id := store.GenerateID()
		require.NoError(t, store.Set(ctx, id, cart{Items: 1}, time.Hour))

		sess, _ := m.Load(ctx, id)
		sess.Set(cart{Items: 5})
		sess.Destroy()
		out, err := m.Commit(ctx, sess)
		require.NoError(t, err)
		assert.True(t, out.Remove)
		assert.False(t, out.Write)
		assert.Zero(t, store.Len())
	})

	t.Run("destroying a fresh session is a no-op", func(t *testing.T) {
		t.Parallel()
		m := session.NewManager(session.NewMemoryStore[cart](), session.Config{})
		sess, _ := m.Load(ctx, "")
		sess.Destroy()
		out, err := m.Commit(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, session.Outcome{}, out)
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.NewMemoryStore[cart](), session.Config{})
	assert.Equal(t, session.DefaultConfig(), m.Config())

	m = session.NewManager(session.NewMemoryStore[cart](), session.Config{CookieName: "x", TTL: time.Minute})
	assert.Equal(t, "x", m.Config().CookieName)
	assert.Equal(t, time.Minute, m.Config().TTL)
}

var errBackend = errors.New("backend down")

type failingStore struct{}

func (failingStore) Get(context.Context, string) (cart, bool, error) {
	return cart{}, false, errBackend
}

func (failingStore) Set(context.Context, string, cart, time.Duration) error { return errBackend }
func (failingStore) Delete(context.Context, string) error                   { return errBackend }
func (failingStore) GenerateID() string                                     { return session.GenerateID() }
func (failingStore) ValidateID(id string) bool                              { return session.ValidateID(id) }
