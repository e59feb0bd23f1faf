package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/bubt-idcard/idcard-server/internal/app"
	"github.com/bubt-idcard/idcard-server/internal/config"
	"github.com/bubt-idcard/idcard-server/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, errLoad := config.Load(*configPath)
	if errLoad != nil {
		log.WithError(errLoad).Fatal("load config")
	}
	logging.Setup(cfg.LogFile)

	if errRun := app.Run(context.Background(), cfg); errRun != nil {
		log.WithError(errRun).Error("server exited")
		os.Exit(1)
	}
}
