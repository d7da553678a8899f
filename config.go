package main

import (
	"context"
	"fmt"
	"time"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/common"
	"github.com/VladimirMalevanik/discy/internal/db"
	"github.com/VladimirMalevanik/discy/internal/logger"
	"github.com/VladimirMalevanik/discy/internal/logic"
)

// App holds everything a command needs, built from one Config.
type App struct {
	Config *common.Config
	Log    *logger.Logger
	Store  db.Store
	Clock  *clock.Clock
	Bot    *logic.Bot
}

func openApp(ctx context.Context, cfg *common.Config) (*App, error) {
	log, err := logger.New(cfg.Env, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return newApp(ctx, cfg, log)
}

func newApp(ctx context.Context, cfg *common.Config, log *logger.Logger) (*App, error) {
	store, err := db.NewStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend == db.BackendMemory || cfg.Store.Backend == "" {
		log.Warn("memory store: users and surveys are lost on exit and a separate trigger process sees no users; set STORE_BACKEND for real runs")
	}

	var coach logic.Coach
	if cfg.Coach.Enabled() {
		c, err := logic.NewLLMCoach(cfg.Coach)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		coach = c
		log.Info("coach enabled", "model", cfg.Coach.Model)
	}

	clk := clock.New(cfg.TZOffsetMin)
	sender := logic.NewTelegramSender(logic.TelegramConfig{
		APIBase: cfg.TelegramAPI,
		Token:   cfg.BotToken,
		Rate:    cfg.SendRate,
		Timeout: 15 * time.Second,
	}, log)
	bot := logic.NewBot(db.NewRepository(store), sender, clk, log, logic.BotOptions{
		MorningAt: cfg.MorningAt,
		EveningAt: cfg.EveningAt,
		Coach:     coach,
	})

	return &App{Config: cfg, Log: log, Store: store, Clock: clk, Bot: bot}, nil
}

func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Log.Warn("store close failed", "error", err)
	}
	a.Log.Sync()
}

// Print logs the effective configuration with secrets left out.
func (a *App) Print() {
	c := a.Config
	a.Log.Info("config",
		"env", c.Env,
		"addr", c.Addr,
		"tz_offset_min", c.TZOffsetMin,
		"store", c.Store.String(),
		"morning_at", c.MorningAt,
		"evening_at", c.EveningAt,
		"scheduler", c.Scheduler,
		"coach", c.Coach.Enabled(),
	)
}
