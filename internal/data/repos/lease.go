package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type LeaseRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]domain.Lease, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]domain.Lease, error)
	Create(ctx context.Context, tx *gorm.DB, leases []*domain.Lease) ([]*domain.Lease, error)
}

type leaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeaseRepo(db *gorm.DB, baseLog *logger.Logger) LeaseRepo {
	repoLog := baseLog.With("repo", "LeaseRepo")
	return &leaseRepo{db: db, log: repoLog}
}

func (lr *leaseRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Lease, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	results := []domain.Lease{}
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leaseRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]domain.Lease, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	results := []domain.Lease{}
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *leaseRepo) Create(ctx context.Context, tx *gorm.DB, leases []*domain.Lease) ([]*domain.Lease, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if len(leases) == 0 {
		return []*domain.Lease{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}
