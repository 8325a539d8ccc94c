// Command activebonus queries the community server once and prints the
// active light bonuses for the current window. It authenticates with the
// character cached in the configuration when one is available.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/config"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/duty"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/lightwindow"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("activebonus", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfgPath := fs.String("config", "", "Path to zodiacbuddy.json")
	server := fs.String("server", "", "Community server base URL (defaults to built-in)")
	timeout := fs.Duration("timeout", 8*time.Second, "HTTP timeout for the request")
	asJSON := fs.Bool("json", false, "Print raw report JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		usage(fs)
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}
	if *server != "" {
		cfg.Server = *server
	}

	lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := report.NewClient(cfg.BaseURL(report.DefaultBaseURL), identity{cfg}, cfg.InstallID, lg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	reports, err := client.FetchActive(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to fetch active bonuses:", err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintln(os.Stderr, "encode error:", err)
			return 1
		}
		return 0
	}

	printReports(out, reports, time.Now())
	return 0
}

// identity exposes the character cached in the configuration, letting the
// one-shot query authenticate without a live game session.
type identity struct {
	cfg *config.Config
}

func (i identity) Character() (uint64, uint32, uint32, bool) {
	c := i.cfg.Character
	if c.ContentID == 0 {
		return 0, 0, 0, false
	}
	return c.ContentID, c.HomeWorld, c.Datacenter, true
}

func printReports(out io.Writer, reports []report.Report, now time.Time) {
	fmt.Fprintf(out, "Window resets in %s\n", lightwindow.Remaining(now).Round(time.Second))
	if len(reports) == 0 {
		fmt.Fprintln(out, "No active light bonus reported.")
		return
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].DetectionTime.Before(reports[j].DetectionTime)
	})
	fmt.Fprintf(out, "Active light bonuses (%d):\n", len(reports))
	for _, r := range reports {
		name := "unknown duty"
		if d, ok := duty.Lookup(r.TerritoryID); ok {
			name = d.Name
		}
		fmt.Fprintf(out, "  %-36s territory %-4d %s\n", name, r.TerritoryID, humanize.Time(r.DetectionTime))
	}
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: %s [--config path] [--server URL] [--timeout 8s] [--json]\n", fs.Name())
}
