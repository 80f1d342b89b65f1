package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/dispatch/core/server"
)

func hello() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
}

func waitReady(t *testing.T, srv *server.Server) {
	t.Helper()
	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
}

func TestServerTCP(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, hello()))
	waitReady(t, srv)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	require.NoError(t, g.Wait())

	_, err = http.Get("http://" + srv.Addr() + "/")
	assert.Error(t, err)
}

func TestServerUnixSocket(t *testing.T) {
	t.Parallel()

	sock := filepath.Join(t.TempDir(), "app.sock")
	srv := server.New(server.UnixPrefix + sock)
	ctx, cancel := context.WithCancel(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, hello()))
	waitReady(t, srv)
	assert.Equal(t, server.UnixPrefix+sock, srv.Addr())

	client := &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", sock)
		},
	}}
	resp, err := client.Get("http://unix/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	require.NoError(t, g.Wait())

	_, err = os.Stat(sock)
	assert.True(t, os.IsNotExist(err), "socket file removed on shutdown")
}

func TestServerUnixSocketStaleFile(t *testing.T) {
	t.Parallel()

	sock := filepath.Join(t.TempDir(), "stale.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, ln.Close())

	srv := server.New(server.UnixPrefix + sock)
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, hello()))
	waitReady(t, srv)

	cancel()
	require.NoError(t, g.Wait())
}

func TestServerUnixSocketNotASocket(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	err := server.New(server.UnixPrefix+path).Start(context.Background(), hello())
	assert.ErrorIs(t, err, server.ErrListen)
	assert.ErrorIs(t, err, server.ErrNotSocket)
}

func TestServerAlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, hello()) }()
	waitReady(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, hello()), server.ErrServerAlreadyRunning)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr())
	})

	t.Run("unix address", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.Config{Addr: "unix:/tmp/x.sock"})
		require.NoError(t, err)
		assert.Equal(t, "unix:/tmp/x.sock", srv.Addr())
	})

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()
		for _, addr := range []string{"", "unix:"} {
			_, err := server.NewFromConfig(server.Config{Addr: addr})
			assert.ErrorIs(t, err, server.ErrMissingAddress, addr)
		}
	})

	t.Run("bad certificate files", func(t *testing.T) {
		t.Parallel()
		_, err := server.NewFromConfig(server.Config{
			Addr:        ":0",
			TLSCertFile: "/nonexistent/cert.pem",
			TLSKeyFile:  "/nonexistent/key.pem",
		})
		assert.ErrorIs(t, err, server.ErrLoadCertificate)
	})
}

func TestDefaultTLSConfig(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultTLSConfig()
	assert.NotEmpty(t, cfg.CipherSuites)
	assert.Contains(t, cfg.NextProtos, "h2")
}
