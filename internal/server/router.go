package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/theophane330/habipro-backend/internal/handlers"
	"github.com/theophane330/habipro-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AllowOrigins    []string
	AuthMiddleware  *middleware.AuthMiddleware
	CatalogHandler  *handlers.CatalogHandler
	DraftHandler    *handlers.DraftHandler
	ContractHandler *handlers.ContractHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Catalogs
	api.GET("/tenants", cfg.CatalogHandler.ListTenants)
	api.GET("/tenants/:id/documents", cfg.CatalogHandler.TenantDocuments)
	api.GET("/properties", cfg.CatalogHandler.ListProperties)
	api.GET("/properties/:id/documents", cfg.CatalogHandler.PropertyDocuments)
	api.GET("/leases", cfg.CatalogHandler.ListLeases)

	// Draft sessions
	api.POST("/drafts", cfg.DraftHandler.Open)
	api.GET("/drafts/:id", cfg.DraftHandler.Get)
	api.PATCH("/drafts/:id", cfg.DraftHandler.Update)
	api.POST("/drafts/:id/tenant", cfg.DraftHandler.SelectTenant)
	api.POST("/drafts/:id/property", cfg.DraftHandler.SelectProperty)
	api.POST("/drafts/:id/identity", cfg.DraftHandler.AttachIdentity)
	api.DELETE("/drafts/:id/identity", cfg.DraftHandler.RemoveIdentity)
	api.POST("/drafts/:id/contract-file", cfg.DraftHandler.AttachContractFile)
	api.POST("/drafts/:id/submit", cfg.DraftHandler.Submit)
	api.DELETE("/drafts/:id", cfg.DraftHandler.Cancel)

	// Contracts
	api.POST("/contracts", cfg.ContractHandler.Create)
	api.GET("/contracts", cfg.ContractHandler.List)
	api.GET("/contracts/:id", cfg.ContractHandler.Get)
	api.POST("/contracts/send", cfg.ContractHandler.Send)
	api.POST("/contracts/:id/sign", cfg.ContractHandler.TenantSign)
	api.POST("/contracts/:id/approve", cfg.ContractHandler.Approve)
	api.POST("/contracts/:id/reject", cfg.ContractHandler.Reject)
	api.GET("/contracts/:id/approval", cfg.ContractHandler.ApprovalView)

	return router
}
