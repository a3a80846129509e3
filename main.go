package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/joho/godotenv"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/stream"
)

// envInt64 reads an integer environment variable, falling back to def.
func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("ignoring invalid environment value", "key", key, "value", v)
		return def
	}
	return n
}

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env supplies flag defaults; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// CLI flags
	configPath := flag.String("config", os.Getenv("SHOAL_CONFIG"), "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics as fast as possible")
	serveAddr := flag.String("serve", os.Getenv("SHOAL_ADDR"), "Serve snapshots over websocket on ADDR in real time")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", envInt64("SHOAL_SEED", 0), "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (viewer: initial speed)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless || *serveAddr != "",
		StepsPerUpdate: *stepsPerUpdate,
	}

	switch {
	case *serveAddr != "":
		if err := serve(opts, *serveAddr, *maxTicks); err != nil {
			slog.Error("serve failed", "error", err)
			os.Exit(1)
		}
	case *headless:
		runHeadless(opts, *maxTicks)
	default:
		runViewer(opts, *maxTicks)
	}
}

func runHeadless(opts game.Options, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for !g.Ended() {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
	slog.Info("session ended", "tick", g.Tick(), "won", g.Won(), "lives", g.Lives())
}

func serve(opts game.Options, addr string, maxTicks int) error {
	cfg := opts.Config
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	hub := stream.NewHub(cfg.Stream.CommandBuffer)
	srv := stream.NewServer(addr, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	session := stream.NewSession(g, hub, cfg.Physics.DTMs, cfg.Stream.BroadcastEvery)
	runErr := make(chan error, 1)
	go func() { runErr <- session.Run(ctx, maxTicks) }()

	var err error
	select {
	case err = <-errc:
		stop()
		<-runErr
	case err = <-runErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}

func runViewer(opts game.Options, maxTicks int) {
	cfg := opts.Config
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Shoal")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	viewer := renderer.NewViewer(g, opts.StepsPerUpdate)
	for !rl.WindowShouldClose() {
		viewer.Update()
		viewer.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
