// Command liiga-core is a thin demonstration binary for the fetch/cache/
// refresh core: it wires configuration, caches, the HTTP fetcher, the
// orchestrator, and the refresh coordinator together and prints each
// refresh cycle's games to stdout. The interactive teletext renderer,
// keyboard dispatch, and resize handling live in the full application,
// not here.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikosalonen/liiga-teletext-core/internal/cache"
	"github.com/nikosalonen/liiga-teletext-core/internal/config"
	"github.com/nikosalonen/liiga-teletext-core/internal/httpfetch"
	"github.com/nikosalonen/liiga-teletext-core/internal/logging"
	"github.com/nikosalonen/liiga-teletext-core/internal/orchestrator"
	"github.com/nikosalonen/liiga-teletext-core/internal/refresh"
)

func main() {
	dateFlag := flag.String("date", "", "fetch games for this date (YYYY-MM-DD) instead of today")
	jsonLogs := flag.Bool("json-logs", false, "emit structured JSON logs instead of the console encoder")
	tickFlag := flag.Duration("tick", 5*time.Second, "how often to check whether a refresh is due")
	flag.Parse()

	logging.Init(*jsonLogs)
	log := logging.Get().WithField("component", "main")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	caches := cache.New()
	limiter := rate.NewLimiter(rate.Limit(10), 20)
	fetcher := httpfetch.New(caches.HTTP, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, limiter)
	orch := orchestrator.New(cfg, caches, fetcher)

	var customDate *string
	if *dateFlag != "" {
		customDate = dateFlag
	}

	coordinator := refresh.New(orch, nil)
	coordinator.SetCurrentDate(customDate)
	coordinator.RequestRefresh()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Infof("shutting down")
		cancel()
	}()

	fmt.Println("liiga-teletext-core starting; press Ctrl+C to stop")
	coordinator.Run(ctx, *tickFlag, func(result refresh.CycleResult) {
		fmt.Println(result.String())
		for _, g := range result.Games {
			fmt.Printf("  %-20s %-20s %-6s %s\n", g.HomeTeam, g.AwayTeam, g.Result, g.ScoreType)
		}
	})

	fmt.Println("liiga-teletext-core stopped")
}
