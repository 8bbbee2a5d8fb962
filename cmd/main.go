package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lusohomes/marketplace-backend/internal/db"
	"github.com/lusohomes/marketplace-backend/internal/handlers"
	"github.com/lusohomes/marketplace-backend/internal/logger"
	"github.com/lusohomes/marketplace-backend/internal/repos"
	"github.com/lusohomes/marketplace-backend/internal/server"
	"github.com/lusohomes/marketplace-backend/internal/services"
	"github.com/lusohomes/marketplace-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	clientRepo := repos.NewClientRepo(thePG, log)
	agentRepo := repos.NewAgentRepo(thePG, log)
	propertyRepo := repos.NewPropertyRepo(thePG, log)
	proposalRepo := repos.NewProposalRepo(thePG, log)
	negotiationRepo := repos.NewNegotiationRepo(thePG, log)
	contractRepo := repos.NewContractRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	notificationService := services.NewNotificationService(thePG, log, notificationRepo)
	contractService := services.NewContractService(thePG, log, contractRepo, propertyRepo, clientRepo, agentRepo)
	proposalService := services.NewProposalService(thePG, log, proposalRepo, negotiationRepo, propertyRepo, clientRepo, notificationService)
	approvalService := services.NewApprovalService(thePG, log, proposalRepo, propertyRepo, clientRepo, agentRepo, userRepo, contractService, notificationService)

	// Handlers
	log.Info("Setting up handlers...")
	proposalHandler := handlers.NewProposalHandler(proposalService, approvalService)
	contractHandler := handlers.NewContractHandler(contractService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ProposalHandler:     proposalHandler,
		ContractHandler:     contractHandler,
		NotificationHandler: notificationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
