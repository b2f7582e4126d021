package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/procurement/internal/config"
	"github.com/stwalsh4118/procurement/internal/database"
	"github.com/stwalsh4118/procurement/internal/handlers"
	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/middleware"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/services"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting procurement API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"dataset":     cfg.Socrata.DatasetID,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"pool_max": cfg.Database.PoolMax,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	source := socrata.NewClient(cfg.Socrata)

	// Repositories
	cityRepo := repository.NewCityRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	reportRepo := repository.NewAnnualReportRepository(db)
	saleAmountRepo := repository.NewAnnualSaleAmountRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	importRepo := repository.NewImportRepository(db)
	summaryRepo := repository.NewSalesSummaryRepository(db)

	// Services
	importer := services.NewImportService(importRepo, source, services.ImportSettings{
		Dataset:  cfg.Socrata.DatasetID,
		RowLimit: cfg.Import.RowLimit,
	}, log)

	api := &handlers.API{
		Health:           handlers.NewHealthHandler(db, cfg.Server.Env, cfg.Socrata.DatasetID),
		AnnualReports:    handlers.NewSaleRecordHandler(services.NewAnnualReportService(reportRepo, cityRepo, vendorRepo, importer, log), "Annual report"),
		AnnualSaleAmount: handlers.NewSaleRecordHandler(services.NewAnnualSaleAmountService(saleAmountRepo, cityRepo, vendorRepo, log), "Annual sale amount"),
		Cities:           handlers.NewCityHandler(services.NewCityService(cityRepo, log)),
		Vendors:          handlers.NewVendorHandler(services.NewVendorService(vendorRepo, log)),
		Reference:        handlers.NewReferenceHandler(services.NewReferenceService(referenceRepo)),
		PurchaseOrders:   handlers.NewPurchaseOrderHandler(services.NewPurchaseOrderService(source, orderRepo, cfg.Import.PurchaseOrderPageSize, log)),
		Reports:          handlers.NewReportHandler(services.NewSalesReportService(summaryRepo, importer)),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS))

	api.Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
