package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/dispatch/core/config"
	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/csrf"
	"github.com/dmitrymomot/dispatch/core/health"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/router"
	"github.com/dmitrymomot/dispatch/core/server"
	"github.com/dmitrymomot/dispatch/core/session"
	"github.com/dmitrymomot/dispatch/integration/database/redis"
	"github.com/dmitrymomot/dispatch/middleware"
)

// CLI is the command line interface of dispatchd.
type CLI struct {
	Serve  Serve  `cmd:"" default:"withargs" help:"Start the HTTP server."`
	Routes Routes `cmd:"" help:"Print the route table and exit."`

	Log struct {
		Level string `enum:"debug,info,warn,error" default:"info" help:"Logging level (${enum})."`
		JSON  bool   `help:"Log as JSON instead of colourised text."`
	} `embed:"" prefix:"log-"`
}

// env is what every command needs: loaded config and a logger.
type env struct {
	cfg AppConfig
	log *slog.Logger
}

func (c *CLI) env() (*env, error) {
	var cfg AppConfig
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	opts := []logger.Option{logger.WithContextExtractors(middleware.RequestIDExtractor, middleware.TraceIDExtractor)}
	if c.Log.JSON {
		opts = append(opts, logger.WithProduction(cfg.AppName))
	} else {
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts = append(opts, logger.WithLevel(level))

	return &env{cfg: cfg, log: logger.New(opts...)}, nil
}

// Serve runs the server.
type Serve struct {
	Addr string        `help:"Listen address: host:port or unix:/path/to.sock. Overrides SERVER_ADDR."`
	Tick time.Duration `default:"1s" help:"Interval between /events ticks."`
}

func (s *Serve) Run(ctx context.Context, cli *CLI) error {
	e, err := cli.env()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		e.cfg.Server.Addr = s.Addr
	}

	g, ctx := errgroup.WithContext(ctx)

	d, closeDeps, err := buildDeps(ctx, e)
	if err != nil {
		return err
	}
	defer closeDeps()
	d.tick = s.Tick

	tree, err := newRouter(d).Build()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	srv, err := server.NewFromConfig(e.cfg.Server, server.WithLogger(e.log.With(logger.Component("server"))))
	if err != nil {
		return err
	}
	g.Go(srv.Run(ctx, tree))

	if err := g.Wait(); err != nil {
		return err
	}
	e.log.Info("application stopped")
	return nil
}

// Routes prints the route table.
type Routes struct{}

func (Routes) Run(ctx context.Context, cli *CLI, k *kong.Context) error {
	e, err := cli.env()
	if err != nil {
		return err
	}
	d, closeDeps, err := buildDeps(ctx, e)
	if err != nil {
		return err
	}
	defer closeDeps()
	return printRoutes(k.Stdout, newRouter(d).Routes())
}

func printRoutes(w io.Writer, routes []router.Route) error {
	tw := tabwriter.NewWriter(w, 6, 2, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "METHOD\tPATTERN"); err != nil {
		return err
	}
	for _, rt := range routes {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", rt.Method, rt.Pattern); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// buildDeps wires cookies and session storage. Sessions live in Redis when
// REDIS_URL is set, in memory otherwise.
func buildDeps(ctx context.Context, e *env) (deps, func(), error) {
	if e.cfg.Cookie.Secrets == "" {
		secret, err := csrf.Secret()
		if err != nil {
			return deps{}, nil, err
		}
		e.cfg.Cookie.Secrets = csrf.EncodeSecret(secret)
		e.log.Warn("COOKIE_SECRETS not set, using an ephemeral secret", logger.Component("cookie"))
	}
	cookies, err := cookie.NewFromConfig(e.cfg.Cookie)
	if err != nil {
		return deps{}, nil, fmt.Errorf("cookie manager: %w", err)
	}

	d := deps{cfg: e.cfg, log: e.log, cookies: cookies, tick: time.Second}
	closer := func() {}

	var store session.Store[Visits]
	if e.cfg.RedisURL != "" {
		rc := redis.Config{
			ConnectionURL:  e.cfg.RedisURL,
			RetryAttempts:  3,
			RetryInterval:  time.Second,
			ConnectTimeout: 10 * time.Second,
			SessionPrefix:  "session:",
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return deps{}, nil, err
		}
		closer = func() { _ = client.Close() }
		store = redis.NewStore[Visits](client, rc.SessionPrefix)
		d.checks = append(d.checks, health.Check{Name: "redis", Probe: redis.Healthcheck(client)})
		e.log.Info("sessions stored in redis", logger.Component("session"))
	} else {
		mem := session.NewMemoryStore[Visits]()
		store = mem
		go sweep(ctx, mem, e.cfg.Session.TTL, e.log)
	}

	d.sessions = session.NewManager(store, e.cfg.Session)
	return d, closer, nil
}

// sweep drops expired in-memory sessions until ctx is done.
func sweep(ctx context.Context, mem *session.MemoryStore[Visits], ttl time.Duration, log *slog.Logger) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	t := time.NewTicker(ttl)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, _ := mem.DeleteExpired(ctx); n > 0 {
				log.Debug("expired sessions removed", logger.Component("session"), slog.Int64("count", n))
			}
		}
	}
}
