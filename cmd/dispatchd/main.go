// Command dispatchd is a small demo server for the dispatch router: greeting
// routes, a session counter, CSRF-protected forms, CORS and a server-sent
// event ticker. It listens on TCP or a Unix socket.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dispatchd"),
		kong.Description("Demo server for the dispatch router."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&cli),
	)
	kctx.FatalIfErrorf(kctx.Run())
}
