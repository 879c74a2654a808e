package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberline/horde/internal/config"
	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/geom"
	"github.com/emberline/horde/internal/movement"
	"github.com/emberline/horde/internal/persist"
	"github.com/emberline/horde/internal/pool"
	"github.com/emberline/horde/internal/scripting"
	"github.com/emberline/horde/internal/spawn"
	"github.com/emberline/horde/internal/system"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/horde.toml"
	if p := os.Getenv("HORDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	printBanner(seed)

	// 3. Load data tables
	printSection("data")

	entities, err := data.LoadEntityTable(cfg.Data.Entities)
	if err != nil {
		return fmt.Errorf("load entity table: %w", err)
	}
	printStat("entity templates", entities.Count())

	tables, err := data.LoadSpawnTables(cfg.Data.SpawnTables, entities)
	if err != nil {
		return fmt.Errorf("load spawn tables: %w", err)
	}
	printStat("spawn tables", tables.Count())

	waves, err := data.LoadWaveTable(cfg.Data.Waves, tables)
	if err != nil {
		return fmt.Errorf("load wave table: %w", err)
	}
	printStat("wave entries", waves.Count())

	lua, err := scripting.NewEngine(cfg.Data.Scripts, log)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	defer lua.Close()
	printOK("lua curves loaded")
	fmt.Println()

	// 4. Optional analytics database
	var sink system.EventSink
	var runs *persist.RunRepo
	var runID int64
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.Open(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected, migrations applied")
		if v, err := persist.SchemaVersion(ctx, db.Pool); err == nil {
			printStat("schema version", int(v))
		}

		runs = persist.NewRunRepo(db)
		runID, err = runs.StartRun(ctx, seed)
		cancel()
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		sink = runs
		printStat("run id", int(runID))
		fmt.Println()
	}

	// 5. World, pools, factory
	bounds := geom.NewRect(cfg.Map.Width, cfg.Map.Height)
	game := world.NewGameState(cfg.Simulation.Countdown.Duration)
	ws := world.NewState(bounds, world.NewPlayer(bounds.Center(), playerMaxHP), game)
	bus := event.NewBus()
	rng := spawn.NewSeededRNG(seed)

	f, err := factory.New(factory.Deps{
		Entities: entities,
		Managers: spawn.NewManagers(tables),
		Strategies: movement.NewRegistry(movement.Tuning{
			TurnRate:    cfg.Movement.TurnRate,
			LeadTime:    cfg.Movement.LeadTime,
			OrbitRadius: cfg.Movement.OrbitRadius,
			RadialGain:  cfg.Movement.RadialGain,
		}),
		Scaling: factory.Scaling{
			HealthPerLevel: cfg.Scaling.HealthPerLevel,
			SpeedPerLevel:  cfg.Scaling.SpeedPerLevel,
			SpeedCap:       cfg.Scaling.SpeedCap,
			ScalePerLevel:  cfg.Scaling.ScalePerLevel,
		},
		Pool:  pool.Options{AutoExpand: cfg.Pool.AutoExpand, ExpandSize: cfg.Pool.ExpandSize},
		World: ws,
		Bus:   bus,
		Lua:   lua,
		RNG:   rng,
	}, log)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	defer f.Close()

	provider := spawn.NewProvider(bounds, spawn.ProviderConfig{
		Margin:        cfg.Map.SpawnMargin,
		CornerRadius:  cfg.Map.CornerRadius,
		EdgeThreshold: cfg.Map.EdgeThreshold,
	}, rng)

	// 6. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewCountdownSystem(game, log))
	runner.Register(newPilotSystem(ws))
	dispatch := system.NewEventDispatchSystem(bus)
	runner.Register(dispatch)

	waveSys := system.NewWaveSystem(waves, cfg.Wave.Interval.Duration, cfg.Wave.MaxLevel, game, bus, log)
	waveSys.Register(f)
	runner.Register(waveSys)

	spawners := make([]*system.SpawnSystem, 0, len(cfg.Spawners))
	for _, sc := range cfg.Spawners {
		sp, err := system.NewSpawnSystem(system.SpawnerSettings{
			Name:          sc.Name,
			Kind:          data.EntityKind(sc.Kind),
			Position:      system.PositionMode(sc.Position),
			IntervalScale: sc.IntervalScale,
			MaxActive:     sc.MaxActive,
		}, f, provider, ws, game, log)
		if err != nil {
			return fmt.Errorf("spawner: %w", err)
		}
		waveSys.Register(sp)
		runner.Register(sp)
		spawners = append(spawners, sp)
	}

	runner.Register(system.NewMovementSystem(ws, movement.Fixed{
		ArrivalThreshold: cfg.Movement.ArrivalThreshold,
		OvershootWindow:  cfg.Movement.OvershootWindow,
	}))
	runner.Register(newContactSystem(ws, f, log))
	runner.Register(system.NewLifetimeSystem(ws, f, cfg.Map.OutOfBoundsMargin, log))
	analytics := system.NewAnalyticsSystem(bus, sink, runID, cfg.Database.FlushInterval.Duration, log)
	runner.Register(analytics)
	runner.Register(system.NewCleanupSystem(ws, f, log))

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tick := cfg.Simulation.TickRate.Duration
	printSection("running")
	printReady(fmt.Sprintf("map %.0fx%.0f, %d spawners", cfg.Map.Width, cfg.Map.Height, len(spawners)))
	printReady(fmt.Sprintf("game loop started (tick: %s, realtime: %v)", tick, cfg.Simulation.Realtime))
	fmt.Println()

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if cfg.Simulation.Realtime {
		ticker = time.NewTicker(tick)
		defer ticker.Stop()
		tickC = ticker.C
	}

	step := func() bool {
		runner.Tick(tick)
		if game.Phase() == world.PhaseOver {
			log.Info("game over", zap.Int("wave", waveSys.Level()))
			return false
		}
		if cfg.Simulation.RunFor.Duration > 0 && runner.Elapsed() >= cfg.Simulation.RunFor.Duration {
			log.Info("run time reached", zap.Duration("elapsed", runner.Elapsed()))
			return false
		}
		return true
	}

loop:
	for {
		if tickC == nil {
			select {
			case sig := <-shutdownCh:
				log.Info("shutdown signal received", zap.String("signal", sig.String()))
				break loop
			default:
			}
			if !step() {
				break loop
			}
			continue
		}
		select {
		case <-tickC:
			if !step() {
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		}
	}

	// 8. Flush analytics and print the summary
	dispatch.Drain()
	if sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		analytics.Flush(ctx)
		if err := runs.FinishRun(ctx, runID, analytics.Summary(runner.Ticks())); err != nil {
			log.Error("finish run", zap.Error(err))
		}
		cancel()
	}
	printSummary(runner, waveSys, analytics, f, spawners, entities)
	return nil
}

func printSummary(runner *coresys.Runner, waveSys *system.WaveSystem, analytics *system.AnalyticsSystem, f *factory.Factory, spawners []*system.SpawnSystem, entities *data.EntityTable) {
	fmt.Println()
	printSection("summary")
	printStat("ticks", int(runner.Ticks()))
	printValue("simulated", runner.Elapsed().Truncate(time.Millisecond).String())
	printValue("active time", waveSys.Elapsed().Truncate(time.Millisecond).String())
	printStat("wave reached", waveSys.Level())

	tally := analytics.Tally()
	printStat("spawned", tally.Spawned)
	printStat("kills", tally.Kills)
	printStat("score", tally.Score)
	for _, r := range []event.ReturnReason{
		event.ReasonKilled, event.ReasonExpired, event.ReasonEscaped,
		event.ReasonArrived, event.ReasonCollected, event.ReasonDespawned,
	} {
		if n := tally.ByReason[r]; n > 0 {
			printStat("returned: "+string(r), n)
		}
	}
	if n := analytics.Dropped(); n > 0 {
		printStat("analytics rows dropped", n)
	}

	fmt.Println()
	printSection("spawners")
	for _, sp := range spawners {
		ok, failed := sp.Counts()
		printValue(sp.Name(), printer.Sprintf("%d ok / %d skipped", ok, failed))
	}

	fmt.Println()
	printSection("pools")
	for _, t := range entities.All() {
		st := f.PoolStats(t.Variant)
		printValue(t.Variant, printer.Sprintf("%d idle / %d active", st.Idle, st.Active))
	}
	fmt.Println()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
