package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/axent-pl/idtoken/jwks"
)

type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Run the token-info HTTP service"`
	Verify VerifyCmd `cmd:"" help:"Verify a Google ID token and print its payload"`
	Keys   KeysCmd   `cmd:"" help:"Fetch the provider key set and print each key as PEM"`
	Mint   MintCmd   `cmd:"" help:"Mint a Google-shaped ID token with a local key for development"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	cliCtx := kong.Parse(&cli,
		kong.Name("idtoken"),
		kong.Description("Google ID token verification"),
		kong.UsageOnError(),
		kong.Vars{"jwks_url": jwks.GoogleCertsURL},
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cliCtx.BindTo(ctx, (*context.Context)(nil))
	cliCtx.Bind(logger)

	if err := cliCtx.Run(); err != nil {
		logger.Error("failed to run CLI", slog.Any("error", err))
		os.Exit(1)
	}
}
