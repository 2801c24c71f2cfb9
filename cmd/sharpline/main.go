package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/sharpline/internal/config"
	venuectx "github.com/sawpanic/sharpline/internal/context"
	"github.com/sawpanic/sharpline/internal/httpapi"
	"github.com/sawpanic/sharpline/internal/persistence"
	"github.com/sawpanic/sharpline/internal/pipeline"
	"github.com/sawpanic/sharpline/internal/publish"
	"github.com/sawpanic/sharpline/internal/registry"
	"github.com/sawpanic/sharpline/internal/telemetry"
	"github.com/sawpanic/sharpline/internal/tiering"
	"github.com/sawpanic/sharpline/internal/timegate"
)

const (
	appName = "Sharpline"
	version = "v0.1.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "sharpline",
		Short:   "Sports-betting decision engine CLI",
		Version: version,
		Long: `Sharpline is a sports-betting decision engine: for each sport
slate and ET calendar day it fuses odds, props, injuries, and auxiliary
signals through four independent scoring engines plus a post-pick
confluence layer, then publishes a ranked, capped, fully-explainable list
of tiered picks.

No interactive menu is implemented: 'sharpline' with no arguments prints
usage guidance. Use the subcommands and flags below.`,
		Run: runDefaultEntry,
	}

	scanCmd := &cobra.Command{
		Use:   "scan [sport]",
		Short: "Run the slate pipeline for one sport",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().Bool("debug", false, "include the full receipt array in the output")
	scanCmd.Flags().String("date", "", "ET calendar date (YYYY-MM-DD) reported in the result; defaults to today (events are always filtered to today's ET window)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the /live and /debug HTTP contracts",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":8080", "listen address")

	debugCmd := &cobra.Command{
		Use:   "debug",
		Short: "Debug and introspection commands",
	}

	debugIntegrationsCmd := &cobra.Command{
		Use:   "integrations",
		Short: "Print the integration readiness snapshot, failing loud on missing CRITICAL providers",
		RunE:  runDebugIntegrations,
	}

	debugEsotericCmd := &cobra.Command{
		Use:   "esoteric [sport]",
		Short: "Print pre-filter esoteric candidates with full breakdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runDebugEsoteric,
	}

	rollupCmd := &cobra.Command{
		Use:   "rollup",
		Short: "Run the once-daily integration-health rollup job under a distributed lock",
		RunE:  runRollup,
	}

	debugCmd.AddCommand(debugIntegrationsCmd, debugEsotericCmd)
	rootCmd.AddCommand(scanCmd, serveCmd, debugCmd, rollupCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("sharpline exited with error")
		os.Exit(1)
	}
}

// runDefaultEntry implements TTY detection and routing to the interactive
// menu or non-interactive guidance.
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Interactive menu requires a TTY terminal.\n")
		fmt.Fprintf(os.Stderr, "Use subcommands and flags for non-interactive automation:\n\n")
		fmt.Fprintf(os.Stderr, "  sharpline scan NBA --debug\n")
		fmt.Fprintf(os.Stderr, "  sharpline serve --addr :8080\n")
		fmt.Fprintf(os.Stderr, "  sharpline debug integrations\n")
		fmt.Fprintf(os.Stderr, "  sharpline --help\n")
		os.Exit(2)
	}
	runMenu(cmd, args)
}

// runMenu is the TTY branch of runDefaultEntry. No interactive menu is
// implemented: it prints the app name and version and points to --help.
func runMenu(cmd *cobra.Command, args []string) {
	fmt.Println(appName, version)
	fmt.Println("No interactive menu is implemented; use `sharpline --help` for subcommands.")
}

// snapshotDir resolves where SnapshotStore archives per-sport snapshots,
// preferring a mounted volume (Railway-style deploys) over the cwd.
func snapshotDir(cfg config.Config) string {
	if cfg.VolumeMountPath != "" {
		return filepath.Join(cfg.VolumeMountPath, "snapshots")
	}
	return "./snapshots"
}

// criticalProvidersDown counts CRITICAL providers not currently configured.
func criticalProvidersDown(entries []registry.ReadinessEntry) int {
	n := 0
	for _, e := range entries {
		if e.Criticality == registry.Critical && !e.Configured {
			n++
		}
	}
	return n
}

// applyOverrides loads the optional on-disk tuning file and applies it to
// tiering's thresholds and the venue-context altitude table.
func applyOverrides(cfg config.Config) {
	overrides, err := config.LoadOverrides(cfg.OverridesPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.OverridesPath).Msg("ignoring malformed overrides file")
		return
	}
	tiering.LoadThresholdOverrides(tiering.ThresholdOverrides{
		GoldStarThreshold:      overrides.Tiering.GoldStarThreshold,
		EdgeLeanThreshold:      overrides.Tiering.EdgeLeanThreshold,
		MonitorThreshold:       overrides.Tiering.MonitorThreshold,
		TitaniumScoreThreshold: overrides.Tiering.TitaniumScoreThreshold,
		UnderPenalty:           overrides.Tiering.UnderPenalty,
	})
	if len(overrides.Altitude) > 0 {
		altitudeOverrides := make(map[string]venuectx.AltitudeAdjustment, len(overrides.Altitude))
		for k, v := range overrides.Altitude {
			altitudeOverrides[k] = venuectx.AltitudeAdjustment{
				HomeBonus: v.HomeBonus, OverBonus: v.OverBonus, UnderPenalty: v.UnderPenalty,
			}
		}
		venuectx.LoadAltitudeOverrides(altitudeOverrides)
	}
}

// buildSlateDeps assembles the infrastructure a slate request needs: the
// offline Source facade, the snapshot store, and the critical-provider
// readiness count.
func buildSlateDeps(ctx context.Context, cfg config.Config) (pipeline.Deps, error) {
	entries := registry.Readiness(ctx, cfg, false)
	store, err := persistence.NewSnapshotStore(snapshotDir(cfg))
	if err != nil {
		return pipeline.Deps{}, err
	}
	return pipeline.Deps{
		Source:       pipeline.NewStaticSource(),
		Snapshots:    store,
		Caps:         publish.DefaultCaps,
		CriticalDown: criticalProvidersDown(entries),
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	sport := args[0]
	debug, _ := cmd.Flags().GetBool("debug")
	date, _ := cmd.Flags().GetString("date")

	cfg := config.Load()
	applyOverrides(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries := registry.Readiness(ctx, cfg, false)
	if err := registry.MissingCritical(entries); err != nil {
		log.Error().Err(err).Str("sport", sport).Msg("critical integration missing")
		return err
	}

	deps, err := buildSlateDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("sharpline: preparing slate dependencies: %w", err)
	}

	gate := timegate.New()
	result, err := pipeline.RunSlate(ctx, gate, pipeline.SlateRequest{Sport: sport, Date: date, Debug: debug}, deps)
	if err != nil {
		return fmt.Errorf("sharpline: running slate for %s: %w", sport, err)
	}

	log.Info().Str("sport", sport).Str("health", string(result.Health)).
		Int("events", result.Stats.EventCount).Int("candidates", result.Stats.CandidateCount).
		Int("published", result.Stats.PublishedCount).Msg("scan complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	cfg := config.Load()
	applyOverrides(cfg)

	promReg := prometheus.NewRegistry()
	telemetryReg := telemetry.NewRegistry()
	exporter := telemetry.NewPrometheusExporter(telemetryReg, promReg)

	gate := timegate.New()

	handlers := httpapi.Handlers{
		BestBets: func(reqCtx context.Context, sport string, debug bool) (httpapi.BestBetsResponse, error) {
			deps, err := buildSlateDeps(reqCtx, cfg)
			if err != nil {
				return httpapi.BestBetsResponse{}, err
			}
			result, err := pipeline.RunSlate(reqCtx, gate, pipeline.SlateRequest{Sport: sport, Debug: debug}, deps)
			exporter.Refresh()
			if err != nil {
				return httpapi.BestBetsResponse{}, err
			}
			return httpapi.BestBetsResponse{
				Sport: sport, SlateHealth: string(result.Health), Picks: result.Picks, Receipts: result.Receipts,
			}, nil
		},
		LineShop: func(reqCtx context.Context, sport string) (httpapi.LineShopResponse, error) {
			return httpapi.LineShopResponse{Sport: sport}, nil
		},
		GenerateBetslip: func(reqCtx context.Context, req httpapi.BetslipRequest) (httpapi.BetslipResponse, error) {
			return httpapi.BetslipResponse{Book: req.Book}, nil
		},
		Integrations: func(reqCtx context.Context) (httpapi.IntegrationsResponse, error) {
			return httpapi.IntegrationsResponse{Entries: registry.Readiness(reqCtx, cfg, true)}, nil
		},
		EsotericCandidates: func(reqCtx context.Context, sport string) (httpapi.EsotericCandidatesResponse, error) {
			deps, err := buildSlateDeps(reqCtx, cfg)
			if err != nil {
				return httpapi.EsotericCandidatesResponse{}, err
			}
			result, err := pipeline.RunSlate(reqCtx, gate, pipeline.SlateRequest{Sport: sport, Debug: true}, deps)
			if err != nil {
				return httpapi.EsotericCandidatesResponse{}, err
			}
			correlationID := httpapi.CorrelationIDFromContext(reqCtx)
			candidates := make([]httpapi.DebugCandidate, 0, len(result.AllScored))
			for _, ds := range result.AllScored {
				candidates = append(candidates, httpapi.DebugCandidate{
					PickID:            ds.Scored.PickID,
					EsotericBreakdown: ds.Scored.Esoteric.Breakdown.OrderedRecords(),
					RequestProof:      httpapi.RequestProof{CorrelationID: correlationID},
				})
			}
			return httpapi.EsotericCandidatesResponse{Sport: sport, Candidates: candidates}, nil
		},
	}

	router := httpapi.NewRouter(handlers)
	router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	log.Info().Str("addr", addr).Msg("serving sharpline HTTP contracts")
	return http.ListenAndServe(addr, router)
}

func runDebugIntegrations(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	entries := registry.Readiness(ctx, cfg, true)
	for _, e := range entries {
		log.Info().Str("provider", e.Name).Bool("configured", e.Configured).
			Str("criticality", string(e.Criticality)).Strs("missing_env_vars", e.MissingEnvVars).
			Msg("integration readiness")
	}
	return registry.MissingCritical(entries)
}

func runDebugEsoteric(cmd *cobra.Command, args []string) error {
	sport := args[0]
	cfg := config.Load()
	applyOverrides(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := buildSlateDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("sharpline: preparing slate dependencies: %w", err)
	}

	gate := timegate.New()
	result, err := pipeline.RunSlate(ctx, gate, pipeline.SlateRequest{Sport: sport, Debug: true}, deps)
	if err != nil {
		return fmt.Errorf("sharpline: running slate for %s: %w", sport, err)
	}

	log.Info().Str("sport", sport).Int("candidates", len(result.AllScored)).
		Msg("pre-filter esoteric candidates")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.AllScored)
}

// runRollup acquires the daily distributed lock and, once held, snapshots a
// readiness probe of every registered provider into the integration_rollups
// table. It is meant to run once a day (cron, Railway scheduled job, etc.);
// the lock means a second concurrent invocation is a harmless no-op.
func runRollup(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if cfg.RedisURL == "" || cfg.DatabaseURL == "" {
		return fmt.Errorf("sharpline: rollup requires REDIS_URL and DATABASE_URL")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("sharpline: parsing REDIS_URL: %w", err)
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	lock := persistence.NewDailyJobLock(redisClient, time.Hour)
	holder := fmt.Sprintf("sharpline-rollup-%d", os.Getpid())
	const lockKey = "integration-rollup"

	acquired, err := lock.Acquire(ctx, lockKey, holder)
	if err != nil {
		return fmt.Errorf("sharpline: acquiring rollup lock: %w", err)
	}
	if !acquired {
		log.Info().Msg("rollup already running on another instance; skipping")
		return nil
	}
	defer func() {
		if releaseErr := lock.Release(ctx, lockKey, holder); releaseErr != nil {
			log.Error().Err(releaseErr).Msg("releasing rollup lock")
		}
	}()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("sharpline: connecting to postgres: %w", err)
	}
	defer db.Close()
	repo := persistence.NewRollupRepo(db, 10*time.Second)

	reg := telemetry.NewRegistry()
	entries := registry.Readiness(ctx, cfg, true)
	for _, e := range entries {
		outcome := telemetry.CallOutcome{Provider: e.Name, Success: e.Configured}
		if !e.Configured {
			outcome.Err = "not configured: " + fmt.Sprint(e.MissingEnvVars)
		}
		reg.Record(outcome)
	}

	date := time.Now().Format("2006-01-02")
	rollup := reg.DailyRollup(date)
	for _, e := range entries {
		h, ok := rollup[e.Name]
		if !ok {
			continue
		}
		roll := persistence.IntegrationRollup{
			Provider:      e.Name,
			Date:          date,
			TotalCalls:    int(h.Called),
			ErrorCount:    int(h.Failed),
			CacheHitCount: int(h.CacheHits),
			MeanLatencyMs: h.MeanLatencyMs(),
		}
		if err := repo.Upsert(ctx, roll); err != nil {
			return fmt.Errorf("sharpline: upserting rollup for %s: %w", e.Name, err)
		}
	}

	log.Info().Str("date", date).Int("providers", len(entries)).Msg("integration rollup complete")
	return nil
}
