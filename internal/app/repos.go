package app

import (
	"gorm.io/gorm"

	"github.com/theophane330/habipro-backend/internal/data/repos"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type Repos struct {
	Tenant   repos.TenantRepo
	Property repos.PropertyRepo
	Lease    repos.LeaseRepo
	Contract repos.ContractRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tenant:   repos.NewTenantRepo(db, log),
		Property: repos.NewPropertyRepo(db, log),
		Lease:    repos.NewLeaseRepo(db, log),
		Contract: repos.NewContractRepo(db, log),
	}
}
