// Package session provides server-side sessions keyed by a random id.
//
// A Store persists data by id (MemoryStore here, a Redis store in
// integration/redis). A Manager loads the session for an incoming id, handing
// out a fresh one when the id is malformed or unknown, and commits the
// changes a handler made:
//
//	m := session.NewManager[Cart](session.NewMemoryStore[Cart](), session.Config{TTL: time.Hour})
//	sess, _ := m.Load(ctx, cookieValue)
//	sess.Update(func(c *Cart) { c.Items++ })
//	out, _ := m.Commit(ctx, sess) // out.Write: set the cookie to out.ID
//
// Renew moves the data to a new id, which prevents session fixation after
// login. Destroy deletes the session and tells the caller to expire the cookie.
// Untouched fresh sessions are never stored.
//
// The middleware package wires a Manager into the request pipeline.
package session
