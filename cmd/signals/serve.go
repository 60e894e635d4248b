package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/server"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve saved reports over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "reports",
				Usage: "Directory containing saved reports",
				Value: "reports",
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   server.DefaultConfig().Addr,
				Sources: cli.EnvVars("SIGNALS_ADDR"),
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	level := cmd.String("log-level")
	if level == "" {
		level = "info"
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}

	defer log.Sync()

	config := server.DefaultConfig()
	config.Addr = cmd.String("addr")

	srv := server.NewServer(cmd.String("reports"), config, log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
