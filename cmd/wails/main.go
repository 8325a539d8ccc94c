package main

import (
	"context"
	"log/slog"
	"os"

	app2 "github.com/Ai-Vonie/ZodiacBuddy/internal/app"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/config"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
)

func main() {
	lg := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load("")
	if err != nil {
		lg.Error("cannot load configuration", "error", err)
		os.Exit(1)
	}

	app := app2.New(cfg, lg)

	err = wails.Run(&options.App{
		Title:  "ZodiacBuddy - FFXIV Relic Light Tracker",
		Width:  900,
		Height: 640,
		OnStartup: func(ctx context.Context) {
			app.Startup(ctx)
		},
		OnShutdown: func(ctx context.Context) {
			app.Shutdown(ctx)
		},
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
