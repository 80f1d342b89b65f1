// Package config fills configuration structs from the environment.
//
// Struct fields carry caarlos0/env tags. A .env file in the working directory
// is read once, through joho/godotenv, and never overrides variables that are
// already set. Nested structs are parsed in place, so an application config
// can embed the configs of the packages it wires:
//
//	type AppConfig struct {
//		AppName string `env:"APP_NAME" envDefault:"dispatchd"`
//		Server  server.Config  // SERVER_*
//		Session session.Config // SESSION_*
//		CSRF    csrf.Config    // CSRF_*
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load parses each type once and hands out copies of the cached value on
// later calls. MustLoad panics instead of returning the error and is meant
// for process startup.
//
// Parse skips both the cache and the .env file, which keeps tests that use
// t.Setenv independent of each other.
package config
