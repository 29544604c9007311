package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/SEEK-Jobs/orgstats/pkg/cli"
)

// This main runs orgstats as a command line tool.
func main() {
	// Default to info level logging unless --debug or --log-level is provided
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log := zerolog.New(cli.NewConsoleWriter(os.Stderr)).With().Timestamp().Logger()

	// Interrupts cancel the run, which stops at the next GitHub call
	ctx, stop := signal.NotifyContext(log.WithContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(ctx).Execute(); err != nil {
		if ctx.Err() != nil {
			log.Error().Err(err).Msg("Interrupted")
			os.Exit(130)
		}
		log.Fatal().Err(err).Msg("Error occurred")
	}
}
