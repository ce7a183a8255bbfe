package main

import (
	"fmt"
	"os"

	"food-suggester/internal/app"
	"food-suggester/internal/config"
	"food-suggester/internal/logger"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	application, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	err = SetupCommands(application, cfg, log).Execute()
	application.Close()
	if err != nil {
		os.Exit(1)
	}
}
