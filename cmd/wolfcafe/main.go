package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opencampus/wolfcafe/config"
	"github.com/opencampus/wolfcafe/internal/api"
	"github.com/opencampus/wolfcafe/internal/app"
	"github.com/opencampus/wolfcafe/internal/webserver"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("conf", "/etc/wolfcafe.yml", "config file path")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("version", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("wolfcafe", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := webserver.Init(cfg, application.DB())
	api.InitRouter(cfg)

	go func() {
		if err := server.Listen(); err != nil {
			zap.L().Fatal("web server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
}
