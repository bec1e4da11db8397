package main

import (
	"hrv-go/internal/config"
	"hrv-go/internal/database"
	logger "hrv-go/internal/logging"
	"hrv-go/internal/router"
	"hrv-go/internal/services"

	"go.uber.org/zap"
)

func main() {
	// A plain console logger carries us until the configured one exists.
	bootLog, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}

	if err := config.Init(".", bootLog); err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Logger
	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize Database
	database.Init(log)

	baselineSvc := services.NewBaselineService(log)

	// Setup router, passing the logger to it
	r := router.Setup(log, baselineSvc)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
