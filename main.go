// calorie-tracker is a personal nutrition tracker. With no arguments it runs
// the interactive menu; "serve" starts the JSON API instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"lg/calorie-tracker-go/internal/app"
	"lg/calorie-tracker-go/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "":
		a.Logger.Info("calorie calculator application started")
		m := &menu{
			con:      newConsole(os.Stdin, color.Output, cfg.NoColor),
			profiles: a.Profiles,
			intake:   a.Intake,
		}
		return m.run(ctx)
	case "serve":
		return serve(ctx, a)
	default:
		return fmt.Errorf("unknown command %q (want no command or \"serve\")", cmd)
	}
}

// serve runs the JSON API until SIGINT or SIGTERM.
func serve(ctx context.Context, a *app.App) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	h := &Handler{profiles: a.Profiles, intake: a.Intake, logger: a.Logger}
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           h.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", "addr", srv.Addr)
		fmt.Printf("Listening on http://%s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.Logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
