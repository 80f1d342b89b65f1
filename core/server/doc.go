// Package server runs an http.Handler with graceful shutdown.
//
// The address is either a TCP "host:port" or a Unix domain socket written as
// "unix:/path/to/app.sock". A stale socket file left by a crashed process is
// removed before binding; a socket that still answers is reported as in use.
//
//	srv := server.New("unix:/tmp/app.sock", server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	err := g.Wait()
//
// Run plugs into errgroup: it serves until the context is canceled and then
// shuts down within the configured timeout. NewFromConfig builds a server
// from an env-loaded Config, including TLS from certificate files.
//
// The write timeout defaults to zero so event streams are not cut off.
package server
