package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/ogurasousui/employee-registry/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-registry/internal/adapters/mail"
	"github.com/ogurasousui/employee-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-registry/internal/adapters/storage/local"
	"github.com/ogurasousui/employee-registry/internal/core/employee"
	"github.com/ogurasousui/employee-registry/internal/core/notification"
	"github.com/ogurasousui/employee-registry/internal/platform/config"
	pg "github.com/ogurasousui/employee-registry/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-registry/internal/platform/logger"
	"github.com/ogurasousui/employee-registry/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env は任意
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if !cfg.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	photos, err := local.NewPhotoStore(cfg.Storage.ProfileDir, cfg.Storage.ProfilePath)
	if err != nil {
		zl.Fatal("failed to initialize photo storage", zap.Error(err))
	}

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	txManager := pg.NewTransactionManager(dbPool)
	employeeSvc := employee.NewService(employeeRepo, photos, nil, txManager, zl.Sugar())
	notificationSvc := notification.NewService(mail.NewSMTPSender(cfg.Mail))

	router := handler.NewRouter(handler.RouterConfig{
		ProfileDir:  photos.Dir(),
		ProfilePath: cfg.Storage.ProfilePath,
		Logger:      zl,
	},
		handler.NewEmployeeHandler(employeeSvc, zl),
		handler.NewNotificationHandler(notificationSvc, zl),
	)

	srv := server.New(router, server.Options{
		HTTPAddr:        cfg.Server.ListenAddr(),
		GRPCAddr:        cfg.Server.GRPCListenAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          zl,
	})
	srv.SetServing()

	if err := srv.Run(ctx); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
	zl.Info("server stopped")
}
