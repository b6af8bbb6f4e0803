package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loopdrum-service/internal/config"
	"loopdrum-service/internal/core"
	"loopdrum-service/internal/hardware"
	"loopdrum-service/internal/logger"
	"loopdrum-service/internal/messaging"
)

func main() {
	// Service log level
	var serviceLogLevel int
	flag.IntVar(&serviceLogLevel, "log", 3, "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")

	configPath := flag.String("config", "/etc/loopdrum/config.json", "Path to JSON config file")
	redisHost := flag.String("redis-host", "", "Redis host (overrides config)")
	redisPort := flag.Int("redis-port", 0, "Redis port (overrides config)")

	flag.Parse()

	// Create standard logger with appropriate format
	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// Running under systemd, use minimal format
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		// Running interactively, use timestamps
		stdLogger = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}

	// Create leveled logger
	l := logger.NewLogger(stdLogger, logger.LogLevel(serviceLogLevel))

	l.Infof("Starting loopdrum service...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		l.Fatalf("Failed to load config: %v", err)
	}
	if *redisHost != "" {
		cfg.Redis.Host = *redisHost
	}
	if *redisPort != 0 {
		cfg.Redis.Port = *redisPort
	}

	if cfg.GPIO.RealtimePriority > 0 {
		if err := hardware.LockMemory(); err != nil {
			l.Warnf("Failed to lock memory: %v", err)
		}
	}

	board, err := messaging.NewStatusBoard(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.BoardHash, l.WithTag("board"))
	if err != nil {
		l.Fatalf("Failed to create status board: %v", err)
	}
	engine := messaging.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.ActionList, cfg.Redis.StatusList, l.WithTag("engine"))
	io := hardware.NewLinuxMatrixIO(cfg.GPIO.PinMap, l.WithTag("gpio"))

	system, err := core.NewLooperSystem(cfg, io, engine, board, l)
	if err != nil {
		l.Fatalf("Failed to create system: %v", err)
	}
	if err := system.Start(); err != nil {
		system.Shutdown()
		l.Fatalf("Failed to start system: %v", err)
	}

	l.Infof("System started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	l.Infof("Received signal %v, shutting down...", sig)
	system.Shutdown()
	l.Infof("Shutdown complete")
}
