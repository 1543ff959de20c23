package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"activity-rewards-system/cache"
	"activity-rewards-system/config"
	"activity-rewards-system/handlers"
	"activity-rewards-system/middleware"
	"activity-rewards-system/models"
	"activity-rewards-system/services"
	"activity-rewards-system/utils"
	"activity-rewards-system/workers"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatal("config_load_failed", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		utils.Logger.Fatal("db_connect_failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Team{},
		&models.Profile{},
		&models.Activity{},
		&models.ActivityProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.UserAchievement{},
		&models.TeamLeaderboardSnapshot{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	seedBadgeCatalog(db)
	if cfg.SeedDemoData {
		seedDemoData(db)
	}

	// Redis is an optimization, not a dependency: a failed connection just
	// turns every cached read into a store read.
	if err := cache.InitRedis(cfg.RedisAddr, utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_continuing", zap.Error(err))
		cache.Client = nil
	}
	defer cache.Close()

	catalogService := services.NewCatalogService(db)
	progressService := services.NewProgressService(db)
	ledgerService := services.NewLedgerService(db)
	teamService := services.NewTeamService(db)
	badgeService := services.NewBadgeService(db)
	rewardService := services.NewRewardService(db)
	completionService := services.NewCompletionService(
		catalogService, progressService, rewardService, badgeService, ledgerService,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	app.Use(middleware.Recovery())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	origins := make([]string, 0)
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Profile-ID, X-User-Roles, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.SetupActivityRoutes(app, catalogService, progressService, completionService)
	handlers.SetupTeamRoutes(app, teamService, ledgerService)
	handlers.SetupBadgeRoutes(app, badgeService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewRewardReconciler(progressService, completionService, cfg.ReconcileInterval, cfg.RewardPendingAge)
	reconciler.Start(ctx)
	teamService.StartSnapshotScheduler(cfg.SnapshotInterval)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			utils.Logger.Error("server_error", zap.Error(err))
		}
	}()
	utils.Logger.Info("server_started", zap.String("port", cfg.Port))

	<-ctx.Done()
	utils.Logger.Info("shutting_down")
	_ = app.Shutdown()
}
