package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dining-system/internal/config"
	"dining-system/internal/connections/database"
	"dining-system/internal/connections/rabbitmq"
	"dining-system/internal/logger"
	"dining-system/internal/services/guest"
	"dining-system/internal/services/kitchendisplay"
	"dining-system/internal/services/staff"
)

func main() {
	mode := flag.String("mode", "", "guest-service | staff-service | kitchen-display | notification-subscriber")
	port := flag.Int("port", 0, "http port for services that expose HTTP")
	cfgPath := flag.String("config", "", "path to YAML config (default: auto-discover)")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, nil)
		os.Exit(1)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		lg.Error("rabbitmq_declare_failed", err, nil)
		os.Exit(1)
	}

	switch *mode {
	case "guest-service":
		if *port == 0 {
			*port = 3000
		}
		lg.Info("service_started", map[string]any{"service": "guest-service", "port": *port})
		err = guest.Run(ctx, *port, db, rmq)
	case "staff-service":
		if *port == 0 {
			*port = 3001
		}
		lg.Info("service_started", map[string]any{"service": "staff-service", "port": *port})
		err = staff.Run(ctx, *port, db, rmq)
	case "kitchen-display":
		lg.Info("service_started", map[string]any{"service": "kitchen-display"})
		err = kitchendisplay.RunPoller(ctx, db)
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		err = kitchendisplay.RunSubscriber(ctx, rmq)
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: guest-service | staff-service | kitchen-display | notification-subscriber")
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
