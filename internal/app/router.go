package app

import (
	"github.com/gin-gonic/gin"

	"github.com/theophane330/habipro-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		AllowOrigins:    cfg.AllowOrigins,
		AuthMiddleware:  middlewareset.Auth,
		CatalogHandler:  handlerset.Catalog,
		DraftHandler:    handlerset.Draft,
		ContractHandler: handlerset.Contract,
	})
}
