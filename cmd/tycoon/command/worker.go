package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-tycoon/internal/driver"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/messaging"
	"github.com/pixil98/go-tycoon/internal/transport/ws"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}
	cycle, err := cfg.taxCycleInterval()
	if err != nil {
		return nil, err
	}

	pricingCfg, err := cfg.Pricing.build(tick)
	if err != nil {
		return nil, fmt.Errorf("building pricing config: %w", err)
	}

	catalog, err := cfg.Events.buildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading event catalog: %w", err)
	}

	headlines, err := cfg.Events.buildHeadlines(catalog)
	if err != nil {
		return nil, fmt.Errorf("building headlines: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	workers := service.WorkerList{
		"nats": natsServer,
	}

	var wsOpts []ws.ServerOpt

	publishers := game.Publishers{messaging.NewNatsPublisher(natsServer)}
	if audit := cfg.Audit.open(); audit != nil {
		publishers = append(publishers, audit)
		workers["audit"] = &closer{name: "audit log", c: audit}
		wsOpts = append(wsOpts, ws.WithAuditTrail(audit))
	}

	defaults := []game.SessionOpt{
		game.WithPricingConfig(pricingCfg),
		game.WithCatalog(catalog),
		game.WithHeadliner(headlines.Render),
		game.WithPublisher(publishers),
	}
	if cfg.HistoryLimit > 0 {
		defaults = append(defaults, game.WithHistoryLimit(cfg.HistoryLimit))
	}

	db, err := cfg.Database.open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if db != nil {
		defaults = append(defaults, game.WithRecorder(db))
		workers["database"] = &closer{name: "database", c: db}
		wsOpts = append(wsOpts, ws.WithArchive(db))
	}

	clockOpts := []driver.GameClockOpt{driver.WithTickLength(tick)}
	if cycle > 0 {
		clockOpts = append(clockOpts, driver.WithCycleLength(cycle))
	}
	scheduler := driver.NewScheduler(clockOpts...)
	wsOpts = append(wsOpts, ws.WithClocks(scheduler))

	registryOpts := []game.RegistryOpt{
		game.WithDefaults(defaults...),
		game.WithObserver(scheduler),
	}

	results, err := cfg.Storage.Results.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating result store: %w", err)
	}
	if results != nil {
		registryOpts = append(registryOpts, game.WithObserver(game.ArchiveResults(results)))
	}

	registry := game.NewRegistry(registryOpts...)

	scenarios, err := cfg.Storage.Scenarios.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating scenario store: %w", err)
	}
	if scenarios != nil {
		all := scenarios.GetAll()
		for _, id := range slices.Sorted(maps.Keys(all)) {
			if _, err := registry.CreateFromScenario(context.Background(), id, all[id]); err != nil {
				return nil, fmt.Errorf("creating game from scenario: %w", err)
			}
			slog.Info("game created from scenario", "game", id, "auto_start", all[id].AutoStart)
		}
	}

	workers["scheduler"] = scheduler
	workers["router"] = messaging.NewRouter(natsServer, registry)

	if cfg.WebSocket.Addr != "" {
		wsServer, err := cfg.WebSocket.buildServer(registry, natsServer, wsOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating websocket server: %w", err)
		}
		workers["websocket"] = wsServer
	}

	return workers, nil
}

// closer releases a resource when the application shuts down.
type closer struct {
	name string
	c    io.Closer
}

func (w *closer) Start(ctx context.Context) error {
	<-ctx.Done()
	if err := w.c.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", w.name, err)
	}
	slog.Info("closed", "resource", w.name)
	return nil
}
