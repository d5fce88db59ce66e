package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sync loops",
	RunE:  runServe,
}

// newFeed memilih Redis jika REDIS_ADDR diisi, selain itu feed lokal
func newFeed(ctx context.Context, cfg *config.Config) (realtime.Feed, func(), error) {
	if cfg.Redis.Addr == "" {
		utils.InfoLogger.Println("Using in-process change feed")
		return realtime.NewLocalFeed(), func() {}, nil
	}

	feed := realtime.NewRedisFeed(realtime.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Channel:  cfg.Redis.Channel,
	})
	if err := feed.Ping(ctx); err != nil {
		feed.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}
	utils.InfoLogger.Printf("Using redis change feed on %s", cfg.Redis.Addr)
	return feed, func() { feed.Close() }, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := database.EnsureAdmin(db, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	feed, closeFeed, err := newFeed(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFeed()

	hub := kds.NewHub()
	reconciler := services.NewReconciler(db, hub)
	kitchen := services.NewKitchenService(db, services.NewArrivalTracker(cfg.Sync.HighlightWindow), hub)
	broadcaster := services.NewKitchenBroadcaster(db, kitchen, hub)
	monitor := services.NewChangeMonitor(db, feed, cfg.Sync.ChangePollInterval)

	reconcileTrigger := realtime.NewTrigger("reconcile")
	kitchenTrigger := realtime.NewTrigger("kitchen")
	refresh := realtime.NewGroup(reconcileTrigger, kitchenTrigger)

	engine := router.SetupRouter(db, router.Options{
		Tokens:         utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Hub:            hub,
		Refresh:        refresh,
		Reconciler:     reconciler,
		Kitchen:        kitchen,
		ReportLocation: cfg.ReportLocation(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})
	server := router.NewServer(":"+cfg.Server.Port, engine)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Server.Port)
		return server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.InfoLogger.Println("Shutting down HTTP server")
		return server.Shutdown(cfg.Server.ShutdownTimeout)
	})

	g.Go(func() error { return monitor.Run(gctx) })
	g.Go(func() error { return hub.Follow(gctx, feed) })

	g.Go(func() error { return reconcileTrigger.Every(gctx, cfg.Sync.ReconcileInterval) })
	g.Go(func() error { return reconcileTrigger.Follow(gctx, feed, "orders", "order_items") })
	g.Go(func() error { return reconcileTrigger.Run(gctx, reconciler.OnSignal) })

	g.Go(func() error { return kitchenTrigger.Every(gctx, cfg.Sync.KitchenInterval) })
	g.Go(func() error { return kitchenTrigger.Follow(gctx, feed, "orders", "order_items") })
	g.Go(func() error { return kitchenTrigger.Run(gctx, broadcaster.OnSignal) })

	// Putaran pertama langsung, tanpa menunggu tick
	refresh.Fire(realtime.ReasonFocus)

	if err := g.Wait(); err != nil {
		return err
	}
	utils.InfoLogger.Println("Server stopped")
	return nil
}
