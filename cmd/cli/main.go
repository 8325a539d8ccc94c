package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	app2 "github.com/Ai-Vonie/ZodiacBuddy/internal/app"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/config"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/parser"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/tailer"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the testable entrypoint for the CLI. It returns an exit code rather
// than exiting directly.
func run(args []string) int {
	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	logPath := fs.String("log", "", "Path to the game log file (defaults to the configured path)")
	cfgPath := fs.String("config", "", "Path to zodiacbuddy.json")
	server := fs.String("server", "", "Community server base URL override")
	fromStart := fs.Bool("from-start", false, "Read from start instead of tailing from end")
	pollMs := fs.Int("poll-ms", 300, "Log polling interval in milliseconds")
	once := fs.Bool("once", false, "Process the file once and exit (no live tail)")
	verbose := fs.Bool("verbose", false, "Log parsed events and diagnostics")
	if err := fs.Parse(args); err != nil {
		usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Println("config error:", err)
		return 1
	}
	if *server != "" {
		cfg.Server = *server
	}

	path := *logPath
	if path == "" {
		path = cfg.LogPath
	}
	if path == "" {
		usage()
		return 2
	}
	path = os.ExpandEnv(path)

	a := app2.New(cfg, lg)
	p := parser.New()

	if *once {
		if err := processOnce(path, p, a); err != nil {
			fmt.Println("error:", err)
			return 1
		}
		printState(os.Stdout, a.UIState())
		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStopping...")
		cancel()
	}()

	lines := make(chan string, 1024)
	t := tailer.New(tailer.Options{
		Path:      path,
		FromStart: *fromStart,
		Interval:  time.Duration(*pollMs) * time.Millisecond,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return t.Follow(gctx, lines)
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case line := <-lines:
				if ev := p.Parse(line); ev != nil {
					a.Dispatch(ev)
				}
			case <-ticker.C:
				printState(os.Stdout, a.UIState())
			}
		}
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		fmt.Println("error:", err)
		return 1
	}
	return 0
}

func processOnce(path string, p *parser.Parser, a *app2.App) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for s.Scan() {
		if ev := p.Parse(s.Text()); ev != nil {
			a.Dispatch(ev)
		}
	}
	return s.Err()
}

func usage() {
	fmt.Println("Usage: cli --log <path> [--config <path>] [--server URL] [--from-start] [--poll-ms N] [--once] [--verbose]")
}
