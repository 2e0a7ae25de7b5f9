package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"nucc.com/svc_lifecycle/internal/config"
	"nucc.com/svc_lifecycle/internal/directory"
	"nucc.com/svc_lifecycle/internal/lifecycle"
	"nucc.com/svc_lifecycle/internal/privilege"
	"nucc.com/svc_lifecycle/internal/procs"
	"nucc.com/svc_lifecycle/internal/server"
	"nucc.com/svc_lifecycle/pkg/types"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		demoMode   = flag.Bool("demo", false, "Run against an in-memory service host instead of systemd")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg)
	policy := lifecycle.PolicyFromConfig(cfg.Lifecycle)

	var (
		dir  lifecycle.Directory
		cmd  lifecycle.Commander
		term lifecycle.Terminator
		priv lifecycle.PrivilegeChecker
	)

	switch {
	case *demoMode:
		mem := seededMemoryDirectory()
		dir, cmd, term = mem, mem, mem
		priv = &privilege.StaticChecker{Privileged: true}
		logger.Info("Running in demo mode with an in-memory service host")
	case directory.IsSystemdAvailable():
		sd := directory.NewSystemdDirectory()
		dir, cmd = sd, sd
		term = procs.NewTerminator()
		priv = privilege.NewRootChecker()
		logger.Info("Systemd backend initialized")
	default:
		log.Fatal("systemd is not available on this host; use -demo for the in-memory backend")
	}

	startCtl := lifecycle.NewStartController(dir, cmd, priv, policy, logger)
	restartCtl := lifecycle.NewForceRestartController(dir, cmd, term, priv, policy, logger)
	httpServer := server.NewHTTPServer(cfg, logger, dir, startCtl, restartCtl)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-sigChan
	logger.Info("Shutting down")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	switch cfg.Log.Level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Log.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	}

	return logger
}

// seededMemoryDirectory builds the demo host with a few services covering
// the interesting transition paths.
func seededMemoryDirectory() *directory.MemoryDirectory {
	mem := directory.NewMemoryDirectory()
	mem.Add(directory.MemoryService{
		Name:         "web",
		DisplayName:  "Demo web server",
		Status:       types.StatusStopped,
		StartType:    types.StartManual,
		StartLatency: 2 * time.Second,
		StopLatency:  1 * time.Second,
	})
	mem.Add(directory.MemoryService{
		Name:         "worker",
		DisplayName:  "Demo background worker",
		Status:       types.StatusRunning,
		StartType:    types.StartAutomatic,
		PID:          50001,
		Dependencies: []string{"web"},
		StartLatency: 1 * time.Second,
		StopLatency:  -1, // ignores graceful stop, forces escalation
	})
	mem.Add(directory.MemoryService{
		Name:        "legacy",
		DisplayName: "Demo disabled service",
		Status:      types.StatusStopped,
		StartType:   types.StartDisabled,
	})
	return mem
}

func showHelp() {
	fmt.Println("Service Lifecycle Manager")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  server [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string   Path to configuration file (default \"config.yaml\")")
	fmt.Println("  -demo            Run against an in-memory service host instead of systemd")
	fmt.Println("  -help            Show this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SVC_HOST, SVC_PORT, SVC_LOG_LEVEL, SVC_LOG_FORMAT, SVC_MAX_TIMEOUT")
}
