package main

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/vatger-pmp/pmp-server/internal/base"
	"github.com/vatger-pmp/pmp-server/internal/database"
	"github.com/vatger-pmp/pmp-server/internal/http_server"
	"github.com/vatger-pmp/pmp-server/internal/interfaces"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/global"
)

func main() {
	flag.Parse()

	logger := base.NewLogger()
	logger.Init(*global.DebugMode)
	logger.Info("Application initializing...")

	// Secrets may also come from the real environment, so a missing env file is fine.
	if err := godotenv.Load(*global.EnvFilePath); err != nil {
		logger.DebugF("No env file loaded from %s: %v", *global.EnvFilePath, err)
	}

	cleaner := base.NewCleaner(logger)
	cleaner.Init()
	defer cleaner.Clean()

	configManager := base.NewManager(logger)
	config := configManager.Config()

	dbCallback, operations, err := database.ConnectDatabase(logger, config, *global.DebugMode)
	if err != nil {
		logger.FatalF("Error occurred while initializing database, details: %v", err)
		return
	}
	cleaner.Add(dbCallback)
	logger.Info("Database initialized and connection established")

	applicationContent := interfaces.NewApplicationContent(configManager, cleaner, logger, operations)
	http_server.StartHttpServer(applicationContent)
}
