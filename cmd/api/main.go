package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lapor-fasilitas/internal/core/auth"
	"lapor-fasilitas/internal/core/cache"
	"lapor-fasilitas/internal/core/config"
	"lapor-fasilitas/internal/core/database"
	"lapor-fasilitas/internal/core/logger"
	"lapor-fasilitas/internal/core/server"
	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/repo"
	"lapor-fasilitas/internal/service"
	"lapor-fasilitas/internal/transport/http/handler"
	"lapor-fasilitas/internal/transport/http/router"
	"lapor-fasilitas/internal/transport/http/upload"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// two independent pools: operational MySQL, reporting Postgres.
	// Nothing keeps them transactionally consistent.
	opDB := mustOpenDB(cfg.DB, log)
	log.Info("operational database connected", zap.String("driver", cfg.DB.Driver))
	reportDB := mustOpenDB(cfg.ReportDB, log)
	log.Info("reporting database connected", zap.String("driver", cfg.ReportDB.Driver))

	if cfg.DB.AutoMigrate {
		if err := opDB.AutoMigrate(&domain.User{}, &domain.Laporan{}); err != nil {
			log.Fatal("automigrate operational db failed", zap.Error(err))
		}
	}
	if cfg.ReportDB.AutoMigrate {
		if err := reportDB.AutoMigrate(&domain.LaporanSummary{}); err != nil {
			log.Fatal("automigrate reporting db failed", zap.Error(err))
		}
	}

	jwter := &auth.JWTer{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL:    time.Duration(cfg.JWT.RefreshTokenTTLHrs) * time.Hour,
	}

	var ch *cache.Cache
	if cfg.Redis.Addr != "" {
		ch = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	photos, err := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	if err != nil {
		log.Fatal("upload dir", zap.Error(err))
	}

	userRepo := repo.NewUserRepo(opDB)
	laporanRepo := repo.NewLaporanRepo(opDB)
	summaryRepo := repo.NewSummaryRepo(reportDB)

	authSvc := service.NewAuthService(userRepo, jwter)
	laporanSvc := service.NewLaporanService(laporanRepo, userRepo)
	summarySvc := service.NewSummaryService(summaryRepo)

	r := router.NewAPIEngine(router.Options{
		Logger:      log,
		JWT:         jwter,
		CORSOrigins: cfg.App.CORSOrigins,
		UploadDir:   cfg.Upload.Dir,
		Modules: []router.Module{
			handler.NewAuthHandler(authSvc, cfg.App.Env == "production"),
			handler.NewLaporanHandler(laporanSvc, photos, ch),
			handler.NewSummaryHandler(summarySvc, ch),
		},
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		log.Info("api starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(c config.DB, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.String("driver", c.Driver), zap.Error(err))
	}
	return db
}
