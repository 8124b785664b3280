package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/config"
	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/repository/mongodb"
	sheetsrepo "github.com/fabstash/backend/internal/repository/sheets"
	"github.com/fabstash/backend/internal/scheduler"
	"github.com/fabstash/backend/internal/server/handlers"
	"github.com/fabstash/backend/internal/server/router"
	authsvc "github.com/fabstash/backend/internal/service/auth"
	catalogsvc "github.com/fabstash/backend/internal/service/catalog"
	exportsvc "github.com/fabstash/backend/internal/service/export"
	inventorysvc "github.com/fabstash/backend/internal/service/inventory"
	snapshotsvc "github.com/fabstash/backend/internal/service/snapshot"
	usagesvc "github.com/fabstash/backend/internal/service/usage"
	"github.com/fabstash/backend/pkg/clients/wechat"
	"github.com/fabstash/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	fabricRepo := mongodb.NewFabricRepository(store, baseLogger.Named("repo.fabrics"))
	brandRepo := mongodb.NewCatalogRepository(store, models.CollBrands)
	materialRepo := mongodb.NewCatalogRepository(store, models.CollMaterials)
	tagRepo := mongodb.NewCatalogRepository(store, models.CollTags)
	channelRepo := mongodb.NewCatalogRepository(store, models.CollPurchaseChannels)
	userRepo := mongodb.NewUserRepository(store)
	usageRepo := mongodb.NewUsageRepository(store)
	snapshotRepo := mongodb.NewSnapshotRepository(store)

	var sheetRepo sheetsrepo.Repository
	if cfg.SheetsEnabled() {
		repo, err := sheetsrepo.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = repo
		baseLogger.Info("sheets snapshot export enabled")
	}

	inventorySvc := inventorysvc.NewService(fabricRepo, brandRepo, materialRepo, tagRepo, channelRepo, baseLogger.Named("svc.inventory"))
	exportSvc := exportsvc.NewService(inventorySvc, baseLogger.Named("svc.export"))
	usageSvc := usagesvc.NewService(fabricRepo, usageRepo, baseLogger.Named("svc.usage"))
	authSvc := authsvc.NewService(cfg.Auth, wechat.NewClient(cfg.WeChat), userRepo, baseLogger.Named("svc.auth"))
	snapshotSvc := snapshotsvc.NewService(fabricRepo, snapshotRepo, sheetRepo, baseLogger.Named("svc.snapshot"))

	h := router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Fabrics:   handlers.NewFabricHandler(inventorySvc, exportSvc, baseLogger.Named("handlers.fabrics")),
		Usages:    handlers.NewUsageHandler(usageSvc, baseLogger.Named("handlers.usages")),
		Brands:    handlers.NewCatalogHandler(catalogsvc.NewService(brandRepo, false, baseLogger.Named("svc.brands")), "brand", baseLogger.Named("handlers.brands")),
		Materials: handlers.NewCatalogHandler(catalogsvc.NewService(materialRepo, false, baseLogger.Named("svc.materials")), "material", baseLogger.Named("handlers.materials")),
		Tags:      handlers.NewCatalogHandler(catalogsvc.NewService(tagRepo, true, baseLogger.Named("svc.tags")), "tag", baseLogger.Named("handlers.tags")),
		Channels:  handlers.NewCatalogHandler(catalogsvc.NewService(channelRepo, false, baseLogger.Named("svc.channels")), "purchase channel", baseLogger.Named("handlers.channels")),
	}

	engine := router.New(cfg, authSvc, h, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Snapshot, snapshotSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
