package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lusohomes/marketplace-backend/internal/handlers"
)

type RouterConfig struct {
	ProposalHandler     *handlers.ProposalHandler
	ContractHandler     *handlers.ContractHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:4200",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Proposals
		api.POST("/proposals", cfg.ProposalHandler.Create)
		api.GET("/proposals/:id", cfg.ProposalHandler.GetByID)
		api.PUT("/proposals/:id/approve", cfg.ProposalHandler.Approve)
		api.PUT("/proposals/:id/reject", cfg.ProposalHandler.Reject)
		api.PUT("/proposals/:id/cancel", cfg.ProposalHandler.Cancel)
		api.PUT("/proposals/:id/analyze", cfg.ProposalHandler.StartAnalysis)
		api.POST("/proposals/:id/negotiate", cfg.ProposalHandler.AddNegotiation)
		api.PUT("/negotiations/:id/status", cfg.ProposalHandler.UpdateNegotiationStatus)
		api.GET("/properties/:id/proposals", cfg.ProposalHandler.GetByProperty)

		// Contracts
		api.POST("/contracts", cfg.ContractHandler.Create)
		api.GET("/contracts/:id", cfg.ContractHandler.GetByID)
		api.PUT("/contracts/:id/activate", cfg.ContractHandler.Activate)
		api.GET("/clients/:id/contracts", cfg.ContractHandler.GetByClient)

		// Notifications
		api.GET("/users/:id/notifications", cfg.NotificationHandler.GetByRecipient)
		api.PUT("/notifications/:id/read", cfg.NotificationHandler.MarkAsRead)
	}

	return router
}
