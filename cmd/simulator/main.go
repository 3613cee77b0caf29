// Command simulator runs the cultivation world tick loop: it loads
// configuration, wires the action/mutual/gathering registries to an LLM
// dispatcher, and advances the simulator one month at a time, saving a
// snapshot after every tick (spec §4.7, §4.10, §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cultivation-world-simulator/action"
	"cultivation-world-simulator/agentrt"
	"cultivation-world-simulator/clock"
	"cultivation-world-simulator/config"
	"cultivation-world-simulator/effects"
	"cultivation-world-simulator/eventlog"
	"cultivation-world-simulator/gathering"
	"cultivation-world-simulator/llmdispatch"
	"cultivation-world-simulator/llmdispatch/anthropic"
	"cultivation-world-simulator/llmdispatch/openai"
	"cultivation-world-simulator/mutual"
	"cultivation-world-simulator/save"
	"cultivation-world-simulator/sim"
	"cultivation-world-simulator/telemetry"
	"cultivation-world-simulator/world"
)

func main() {
	var (
		baseConfig  = flag.String("config", "configs/base.yaml", "path to base config")
		localConfig = flag.String("local-config", "configs/local.yaml", "path to local config overrides")
		saveSlot    = flag.String("save", "default", "save slot name to load/store")
		months      = flag.Int("months", 1, "number of months to tick before exiting; 0 runs until interrupted")
	)
	flag.Parse()

	if err := run(*baseConfig, *localConfig, *saveSlot, *months); err != nil {
		log.Fatal(err)
	}
}

func run(baseConfig, localConfig, saveSlot string, months int) error {
	cfg, err := config.Load(baseConfig, localConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewClueLogger()
	metrics := telemetry.NewClueMetrics()

	registry := action.NewBuiltinRegistry(noopEffectLookup{})
	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return fmt.Errorf("build dispatcher: %w", err)
	}
	for _, spec := range mutual.NewBuiltinSpecs(dispatcher) {
		registry.Register(spec)
	}

	store, err := save.NewFileStore(cfg.Paths.Saves)
	if err != nil {
		return fmt.Errorf("open save store: %w", err)
	}

	w, clk, err := loadOrInitWorld(store, saveSlot, registry)
	if err != nil {
		return fmt.Errorf("load world: %w", err)
	}

	eventStore := eventlog.NewMemStore()
	eventLog := eventlog.New(eventStore, 50, 100)
	rt := agentrt.New(registry, eventLog)

	gatherings := gathering.NewRegistry()
	gatherings.Register(gathering.NewSectTeaching(noopEffectLookup{}, registry, 0.1, 0.3, 0.4))

	simulator := sim.New(sim.Options{
		World:      w,
		Clock:      clk,
		Runtime:    rt,
		Actions:    registry,
		Gatherings: gatherings,
		Dispatcher: dispatcher,
		Log:        eventLog,
		Logger:     logger,
		Metrics:    metrics,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticked := 0
	for months == 0 || ticked < months {
		select {
		case <-ctx.Done():
			return saveWorld(ctx, store, saveSlot, w, clk, cfg)
		default:
		}

		report, err := simulator.Tick(ctx)
		if err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		logger.Info(ctx, "tick complete", "month", report.Month, "deaths", len(report.DeathEvents))
		ticked++

		if err := saveWorld(ctx, store, saveSlot, w, clk, cfg); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}

// noopEffectLookup stands in for the static weapon/technique/sect tables
// (out of scope per spec §1) until a config-loaded static store is wired.
type noopEffectLookup struct{}

func (noopEffectLookup) WeaponEffects(world.ItemID) world.EffectValues         { return nil }
func (noopEffectLookup) TechniqueEffects(world.TechniqueID) world.EffectValues { return nil }
func (noopEffectLookup) SectEffects(world.SectID) world.EffectValues          { return nil }

var _ effects.StaticLookup = noopEffectLookup{}

func newDispatcher(cfg config.Config) (*llmdispatch.Dispatcher, error) {
	transports := map[llmdispatch.CallMode]llmdispatch.Transport{}

	if cfg.LLM.Key != "" {
		t, err := openai.NewFromConfig(cfg.LLM.BaseURL, cfg.LLM.Key)
		if err != nil {
			return nil, fmt.Errorf("openai transport: %w", err)
		}
		transports[llmdispatch.ModeNormal] = t
	}
	if cfg.LLM.Key != "" && cfg.LLM.FastModelName != "" {
		t, err := anthropic.NewFromAPIKey(cfg.LLM.Key, 4096)
		if err != nil {
			return nil, fmt.Errorf("anthropic transport: %w", err)
		}
		transports[llmdispatch.ModeFast] = t
	}

	maxConcurrent := cfg.AI.MaxConcurrentRequests
	if maxConcurrent == 0 {
		maxConcurrent = llmdispatch.DefaultMaxConcurrentRequests
	}

	return llmdispatch.New(llmdispatch.Options{
		Transports:            transports,
		MaxConcurrentRequests: maxConcurrent,
		MaxParseRetries:       cfg.AI.MaxParseRetries,
		Logger:                telemetry.NewClueLogger(),
	}), nil
}

func loadOrInitWorld(store save.Store, slot string, registry *action.Registry) (*world.World, *clock.Clock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := store.Load(ctx, slot)
	if err == nil {
		w, clk := save.FromSnapshot(snap, registry, map[world.RegionID]*world.Region{}, world.NewMap(1, 1, 0))
		return w, clk, nil
	}

	m := world.NewMap(64, 64, 0)
	w := world.NewWorld(m)
	w.Regions[0] = &world.Region{ID: 0, Kind: world.RegionNormal}
	return w, clock.New(0), nil
}

func saveWorld(ctx context.Context, store save.Store, slot string, w *world.World, clk *clock.Clock, cfg config.Config) error {
	snap := save.ToSnapshot(w, clk, cfg.System.Language, 0)
	return store.Save(ctx, slot, snap)
}
