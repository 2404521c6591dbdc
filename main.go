// ShareIt backend: a peer-to-peer item sharing marketplace API.
// Users list items, book them for time windows and file requests for
// items they want to borrow. Caller identity comes from the
// X-Sharer-User-Id header supplied by the gateway.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"shareit-backend/internal/bookings"
	"shareit-backend/internal/items"
	"shareit-backend/internal/platform/db"
	"shareit-backend/internal/platform/identity"
	"shareit-backend/internal/requests"
	"shareit-backend/internal/users"
	"shareit-backend/migrations"
)

func newLogger(mode string) *zap.Logger {
	if mode == "release" {
		log, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}

func main() {
	// .env first so it can feed the config overrides
	_ = godotenv.Load()

	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}
	log := newLogger(cfg.Mode)
	defer log.Sync()

	log.Info("starting", zap.String("mode", cfg.Mode), zap.String("addr", cfg.Addr))

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, conn, migrations.FS); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	log.Info("connected to DB", zap.String("dbname", cfg.DB.DBName))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(identity.RequestID(), identity.Logger(log), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", identity.Header},
			ExposeHeaders:    []string{"Content-Length", identity.RequestHeader},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	// user registry has no identity requirement, everything else reads
	// the caller from the X-Sharer-User-Id header
	users.RegisterRoutes(r, users.NewService(conn, log))

	authed := r.Group("", identity.Required())
	items.RegisterRoutes(authed, items.NewService(conn, log))
	requests.RegisterRoutes(authed, requests.NewService(conn, log))
	bookings.RegisterRoutes(authed, bookings.NewService(conn, log))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}
