package app

import (
	"github.com/theophane330/habipro-backend/internal/handlers"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Draft    *handlers.DraftHandler
	Contract *handlers.ContractHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Catalog:  handlers.NewCatalogHandler(log, serviceset.Catalog, serviceset.Documents),
		Draft:    handlers.NewDraftHandler(log, serviceset.Draft),
		Contract: handlers.NewContractHandler(log, serviceset.Contract),
	}
}
