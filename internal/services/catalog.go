package services

import (
	"context"

	"github.com/theophane330/habipro-backend/internal/contract/cascade"
	"github.com/theophane330/habipro-backend/internal/data/repos"
	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// CatalogService serves the record lists the creation screen loads when it
// opens: tenants, properties and leases.
type CatalogService interface {
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	ListLeases(ctx context.Context) ([]domain.Lease, error)
	Collections(ctx context.Context) (cascade.Collections, error)
}

type catalogService struct {
	log          *logger.Logger
	tenantRepo   repos.TenantRepo
	propertyRepo repos.PropertyRepo
	leaseRepo    repos.LeaseRepo
}

func NewCatalogService(log *logger.Logger, tenantRepo repos.TenantRepo, propertyRepo repos.PropertyRepo, leaseRepo repos.LeaseRepo) CatalogService {
	return &catalogService{
		log:          log.With("service", "CatalogService"),
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		leaseRepo:    leaseRepo,
	}
}

func (cs *catalogService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return cs.tenantRepo.List(ctx, nil)
}

func (cs *catalogService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return cs.propertyRepo.List(ctx, nil)
}

func (cs *catalogService) ListLeases(ctx context.Context) ([]domain.Lease, error) {
	return cs.leaseRepo.List(ctx, nil)
}

// Collections loads all three lists for a new draft session.
func (cs *catalogService) Collections(ctx context.Context) (cascade.Collections, error) {
	tenants, err := cs.tenantRepo.List(ctx, nil)
	if err != nil {
		return cascade.Collections{}, err
	}
	properties, err := cs.propertyRepo.List(ctx, nil)
	if err != nil {
		return cascade.Collections{}, err
	}
	leases, err := cs.leaseRepo.List(ctx, nil)
	if err != nil {
		return cascade.Collections{}, err
	}
	return cascade.Collections{
		Tenants:    tenants,
		Properties: properties,
		Leases:     leases,
	}, nil
}
