package main

import (
	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/csrf"
	"github.com/dmitrymomot/dispatch/core/server"
	"github.com/dmitrymomot/dispatch/core/session"
	"github.com/dmitrymomot/dispatch/middleware"
)

// AppConfig is loaded from the environment and an optional .env file.
type AppConfig struct {
	AppName string `env:"APP_NAME" envDefault:"dispatchd"`
	// RedisURL switches session storage from memory to Redis.
	RedisURL string `env:"REDIS_URL"`

	Server  server.Config
	Cookie  cookie.Config
	Session session.Config
	CSRF    csrf.Config
	CORS    middleware.CORSConfig
}
