// Command consoled runs the console synchronization service: it mirrors the
// franchise-network collections locally, listens for push changes and serves
// the administration console API.
//
// @title        Console Sync API
// @version      1.0
// @description  Cache-first synchronization service for the franchise-network administration console.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/franqnet/console-sync/docs"
	"github.com/franqnet/console-sync/internal/api"
	"github.com/franqnet/console-sync/internal/api/metrics"
	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/ports"
	"github.com/franqnet/console-sync/internal/core/service"
	"github.com/franqnet/console-sync/internal/infrastructure/config"
	mongostore "github.com/franqnet/console-sync/internal/infrastructure/db/mongo"
	redisstore "github.com/franqnet/console-sync/internal/infrastructure/db/redis"
	"github.com/franqnet/console-sync/internal/infrastructure/gateway"
	"github.com/franqnet/console-sync/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Mirror ---
	snapshots := mongostore.NewSnapshotRepository(db)
	m := mirror.New(snapshots, log)
	if err := m.Hydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("snapshot hydration failed, starting cold")
	}

	// --- Remote gateways ---
	client := gateway.NewClient(gateway.Options{
		BaseURL:       cfg.Gateway.BaseURL,
		APIKey:        cfg.Gateway.APIKey,
		APIKeyHeader:  cfg.Gateway.APIKeyHeader,
		RatePerMinute: cfg.Gateway.RatePerMinute,
	}, log)
	billingGW := gateway.NewBillingGateway(client)
	gateways := ports.Gateways{
		Units:          gateway.NewUnitGateway(client),
		Franchisees:    gateway.NewFranchiseeGateway(client),
		Billing:        billingGW,
		Staff:          gateway.NewStaffGateway(client),
		Communications: gateway.NewCommunicationGateway(client),
	}

	// --- Services ---
	syncer := service.NewSyncService(gateways, cfg.Gateway.PageSize, log)
	watermarks := redisstore.NewWatermarkStore(rdb)
	controller := service.NewSessionControl(m, syncer, watermarks, ports.SystemClock{}, cfg.Sync.LoadingFloor(), log)
	board := service.NewBoardService(m, billingGW, log)

	// Billing changes reposition cards: drop the cached board layout on any
	// billing notice so the next read rebuilds it.
	go invalidateBoardOnBillingChanges(ctx, m, board)

	// --- Push reconciliation ---
	realtime := redisstore.NewRealtimeSource(rdb, log)
	events, err := realtime.Subscribe(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("realtime subscription failed")
	}
	defer realtime.Close()

	reconciler := service.NewReconcileService(m, log)
	go reconciler.Run(ctx, countPushEvents(ctx, events))

	// --- Background refresh ---
	if interval := cfg.Sync.RefreshInterval(); interval > 0 {
		go refreshLoop(ctx, controller, interval, log)
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Mongo:      db,
		Redis:      rdb,
		Mirror:     m,
		Controller: controller,
		Board:      board,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("console sync service started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// invalidateBoardOnBillingChanges subscribes to mirror notices and discards
// the board layout whenever the billing collection changes.
func invalidateBoardOnBillingChanges(ctx context.Context, m *mirror.Mirror, board *service.BoardService) {
	notices, cancel := m.Subscribe(64)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			if n.Kind == domain.KindBilling {
				board.Invalidate()
			}
		}
	}
}

// countPushEvents relays push events to the reconciler while recording them
// in the Prometheus counters.
func countPushEvents(ctx context.Context, events <-chan domain.ChangeEvent) <-chan domain.ChangeEvent {
	out := make(chan domain.ChangeEvent, cap(events))
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case domain.BillingRowChange:
					metrics.PushEventsTotal.WithLabelValues(string(domain.KindBilling), string(e.Op)).Inc()
				case domain.UnitBroadcast:
					metrics.PushEventsTotal.WithLabelValues(string(domain.KindUnit), string(domain.OpUpdate)).Inc()
				case domain.FranchiseeBroadcast:
					metrics.PushEventsTotal.WithLabelValues(string(domain.KindFranchisee), string(domain.OpUpdate)).Inc()
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// refreshLoop runs incremental syncs on a fixed cadence while the process is
// up. Failures are recorded and retried on the next tick.
func refreshLoop(ctx context.Context, controller ports.SyncController, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := controller.Refresh(ctx); err != nil {
				metrics.SyncRunsTotal.WithLabelValues("refresh", "error").Inc()
				log.Warn().Err(err).Msg("background refresh failed")
				continue
			}
			metrics.SyncRunsTotal.WithLabelValues("refresh", "ok").Inc()
		}
	}
}
