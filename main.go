package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/pose-label-go/app"
	"github.com/soocke/pose-label-go/config"
)

func main() {
	cfgPath := flag.String("config", "pose-label.json", "path to the JSON config file")
	envFile := flag.String("env", ".env", "dotenv file with POSE_LABEL_* overrides")
	server := flag.String("server", "", "label store base URL (overrides config)")
	session := flag.String("session", "", "session id to annotate (overrides config)")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime metrics")
	connect := flag.Bool("connect", true, "connect on startup when a session is configured")
	flag.Parse()

	// Env files are loaded before the config so the process environment wins.
	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}
	if *session != "" {
		cfg.SessionID = *session
	}
	if *debugFlag {
		cfg.Debug = true
	}

	// Set up logger
	logger := NewLogger(os.Stdout, cfg.Level())
	if err := cfg.Validate(); err != nil {
		logger.Warn("config needs attention", "error", err)
	}

	application := app.NewApp(app.Options{
		Title:       "Pose Label",
		Width:       1280,
		Height:      800,
		ConfigPath:  *cfgPath,
		AutoConnect: *connect,
	}, cfg, logger)
	application.Start()
	logger.Debug("exiting", slog.String("config", *cfgPath))
}
