package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/dispatch/core/binder"
	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/health"
	"github.com/dmitrymomot/dispatch/core/response"
	"github.com/dmitrymomot/dispatch/core/router"
	"github.com/dmitrymomot/dispatch/core/session"
	"github.com/dmitrymomot/dispatch/core/static"
	"github.com/dmitrymomot/dispatch/middleware"
)

type ctx = *router.Context

//go:embed public
var public embed.FS

// Visits is the per-visitor session payload.
type Visits struct {
	Count int `json:"count"`
}

type deps struct {
	cfg      AppConfig
	log      *slog.Logger
	cookies  *cookie.Manager
	sessions *session.Manager[Visits]
	checks   []health.Check
	// tick is the SSE event interval.
	tick time.Duration
}

func newRouter(d deps) router.Router[ctx] {
	r := router.New[ctx](
		router.WithLogger[ctx](d.log),
		router.WithErrorHandler[ctx](response.ErrorHandler[ctx]),
	)
	r.Use(
		middleware.RecoverWithConfig[ctx](middleware.RecoverConfig{Logger: d.log}),
		middleware.RequestID[ctx](),
		middleware.Tracing[ctx](),
		middleware.LoggingWithLogger[ctx](d.log),
		middleware.SecurityHeadersWithConfig[ctx](middleware.DevelopmentSecurity),
		middleware.CORSWithConfig[ctx](d.cfg.CORS),
		middleware.BodyLimitWithSize[ctx](middleware.MB),
		middleware.Session[ctx](d.sessions, d.cookies, middleware.SessionConfig{Logger: d.log}),
	)

	r.Get("/", index)
	r.Get("/:username", greet)
	r.Get("/counter", counter)
	r.Get("/events", handler.Handle(binder.Query[ctx, eventsQuery](), events(d.tick)))
	r.Get("/static/*", static.FS[ctx](publicFS()))
	r.Get("/live", health.Liveness[ctx])
	r.Get("/ready", health.Readiness[ctx](d.log, d.checks...))

	r.With(middleware.CSRF[ctx](d.cookies, middleware.CSRFConfig{Config: d.cfg.CSRF})).
		Route("/csrf", func(r router.Router[ctx]) {
			r.Get("/", csrfToken)
			r.Post("/", csrfProtected)
		})

	api := router.New[ctx]()
	api.Get("/routes", routeTable(r))
	api.Post("/greet", handler.Handle(binder.JSON[ctx, greetRequest](), greetJSON))
	r.Mount("/api", api)

	return r
}

func publicFS() fs.FS {
	sub, err := fs.Sub(public, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

func index(ctx) handler.Response {
	return response.String("Hello, World!")
}

func greet(c ctx) handler.Response {
	return response.String("Hello, " + c.Param("username") + "!")
}

func counter(c ctx) handler.Response {
	sess, ok := middleware.GetSession[Visits](c)
	if !ok {
		return response.Error(response.ErrInternalServerError)
	}
	sess.Update(func(v *Visits) { v.Count++ })
	return response.JSON(sess.Data())
}

func csrfToken(c ctx) handler.Response {
	token, _ := middleware.CSRFToken(c)
	return response.String(token)
}

func csrfProtected(ctx) handler.Response {
	return response.String("CSRF Protection!")
}

type greetRequest struct {
	Name string `json:"name"`
}

func greetJSON(_ ctx, in greetRequest) handler.Response {
	if in.Name == "" {
		return response.Error(response.ErrUnprocessableEntity.WithDetails(map[string]any{"name": "required"}))
	}
	return response.JSON(map[string]string{"greeting": "Hello, " + in.Name + "!"})
}

type eventsQuery struct {
	// Limit closes the stream after that many ticks; zero streams forever.
	Limit int `query:"limit"`
}

// events streams a numbered tick every interval.
func events(interval time.Duration) func(ctx, eventsQuery) handler.Response {
	return func(c ctx, q eventsQuery) handler.Response {
		limit := q.Limit
		ch := make(chan response.Event)

		go func(ctx context.Context) {
			defer close(ch)
			t := time.NewTicker(interval)
			defer t.Stop()
			for n := 1; limit <= 0 || n <= limit; n++ {
				select {
				case <-ctx.Done():
					return
				case now := <-t.C:
					ev := response.NewEvent().
						Event("tick").
						ID(strconv.Itoa(n)).
						Data(now.UTC().Format(time.RFC3339))
					select {
					case ch <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}(c.Request().Context())

		return response.SSE(ch, response.WithRetry(3000))
	}
}

// routeTable lists the routes of r. It reads them lazily so routes
// registered after the mount are included.
func routeTable(r router.Routes) handler.HandlerFunc[ctx] {
	return func(ctx) handler.Response {
		return response.JSON(r.Routes())
	}
}
