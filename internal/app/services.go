package app

import (
	"github.com/theophane330/habipro-backend/internal/clients/redis"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/services"
	"github.com/theophane330/habipro-backend/internal/signature"
	"github.com/theophane330/habipro-backend/internal/storage"
)

type Services struct {
	Catalog   services.CatalogService
	Documents services.DocumentService
	Contract  services.ContractService
	Draft     services.DraftService

	guard redis.SubmissionGuard
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	store, err := storage.NewLocalStore(log)
	if err != nil {
		return Services{}, err
	}

	guard, err := redis.NewSubmissionGuard(log)
	if err != nil {
		log.Warn("redis unavailable, using process-local submission guard", "error", err)
		guard = redis.NewLocalGuard()
	}

	annotator, err := signature.NewAnnotator(log)
	if err != nil {
		log.Warn("signature annotator disabled", "error", err)
		annotator = nil
	}

	catalog := services.NewCatalogService(log, reposet.Tenant, reposet.Property, reposet.Lease)
	documents := services.NewDocumentService(log, reposet.Tenant, reposet.Property)
	contract := services.NewContractService(log, reposet.Contract, reposet.Tenant, reposet.Property, documents, store, guard, annotator)
	draftsvc := services.NewDraftService(log, catalog, documents, contract)

	return Services{
		Catalog:   catalog,
		Documents: documents,
		Contract:  contract,
		Draft:     draftsvc,
		guard:     guard,
	}, nil
}
