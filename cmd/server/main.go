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

	"emberly/config"
	"emberly/internal/database"
	"emberly/internal/realtime"
	"emberly/internal/router"
	"emberly/internal/ws"
	"emberly/pkg/cloudinary"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Println("[media] chat uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var publisher realtime.Publisher = realtime.NewRedisPublisher(rdb)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[realtime] redis unreachable (%v): realtime fan-out disabled", err)
		publisher = realtime.NopPublisher{}
	}

	hub := ws.NewHub()
	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	if _, ok := publisher.(realtime.NopPublisher); !ok {
		go realtime.RunBridge(bridgeCtx, rdb, hub)
	}

	engine := router.Setup(cfg, db, cloud, publisher, hub)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
