package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/corarez/salt-factory-app-sub000/internal/config"
	"github.com/corarez/salt-factory-app-sub000/internal/db"
	"github.com/corarez/salt-factory-app-sub000/internal/realtime"
	"github.com/corarez/salt-factory-app-sub000/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()
	log := cfg.NewLogger()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("database setup failed")
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed; exiting as requested")
		return
	}

	hub := realtime.NewHub(log)
	handler := server.New(dbConn, hub, cfg, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.WithFields(logrus.Fields{"env": cfg.Env, "addr": srv.Addr}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped")
}
