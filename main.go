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

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/VladimirMalevanik/discy/internal/common"
	"github.com/VladimirMalevanik/discy/internal/logic"
)

const shutdownTimeout = 10 * time.Second

var CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the webhook server and the daily scheduler." default:"1"`
	Trigger TriggerCmd `cmd:"" help:"Run one scheduled job and exit."`
}

type ServeCmd struct{}

func (ServeCmd) Run(ctx context.Context, cfg *common.Config) error {
	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Print()

	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logic.SetupRouter(app.Bot, cfg.WebhookSecret, app.Log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Scheduler {
		c, err := logic.StartScheduler(gctx, app.Bot, cfg.MorningAt, cfg.EveningAt, app.Log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}
	g.Go(func() error {
		app.Log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

type TriggerCmd struct {
	Job string `arg:"" enum:"morning,evening,tick" help:"Job to run: morning, evening or tick."`
}

func (t TriggerCmd) Run(ctx context.Context, cfg *common.Config) error {
	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Log.Info("running trigger", "job", t.Job)
	return app.Bot.RunTrigger(ctx, t.Job)
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("discy"),
		kong.Description("60-day habit ladder Telegram bot"),
		kong.UsageOnError(),
	)

	cfg, err := common.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(cfg); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
