package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/matheusmosca/go-commerce/internal/api"
	"github.com/matheusmosca/go-commerce/internal/config"
	"github.com/matheusmosca/go-commerce/internal/observability"
	"github.com/matheusmosca/go-commerce/internal/repository"
	"github.com/matheusmosca/go-commerce/internal/service"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	tp, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer: %v", err)
		}
	}()

	mp, err := observability.InitMetrics(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down meter: %v", err)
		}
	}()

	dbPool, err := initDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	var cache repository.ProductCache
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, catalog cache disabled: %v", err)
	} else {
		log.Println("connected to redis")
		cache = repository.NewProductCache(rdb, cfg.CacheTTL)
	}
	defer rdb.Close()

	// Wire repositories and services
	txManager := repository.NewTxManager(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	purchaseRepo := repository.NewPurchaseRepository(dbPool)

	tracer := otel.Tracer(cfg.ServiceName)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	productService := service.NewProductService(productRepo, cache)
	checkoutService := service.NewCheckoutService(txManager, productRepo, purchaseRepo, cache, tracer)
	queryService := service.NewPurchaseQueryService(purchaseRepo)

	router := api.NewRouter(api.RouterConfig{
		ServiceName: cfg.ServiceName,
		JWTSecret:   cfg.JWTSecret,
		Auth:        api.NewAuthHandler(authService),
		Products:    api.NewProductHandler(productService),
		Purchases:   api.NewPurchaseHandler(checkoutService, queryService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		log.Printf("go-commerce listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}

func initDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	// Wait for database to be ready
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			log.Println("connected to postgres")
			return pool, nil
		}
		log.Printf("waiting for database... (%d/30)", i+1)
		time.Sleep(time.Second)
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after 30 attempts")
}
