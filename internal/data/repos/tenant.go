package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type TenantRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]domain.Tenant, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*domain.Tenant, error)
	Create(ctx context.Context, tx *gorm.DB, tenants []*domain.Tenant) ([]*domain.Tenant, error)
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	repoLog := baseLog.With("repo", "TenantRepo")
	return &tenantRepo{db: db, log: repoLog}
}

func (tr *tenantRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	results := []domain.Tenant{}
	if err := transaction.WithContext(ctx).
		Order("full_name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tenantRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*domain.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result domain.Tenant
	if err := transaction.WithContext(ctx).
		Where("id = ?", tenantID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("locataire")
		}
		return nil, err
	}
	return &result, nil
}

func (tr *tenantRepo) Create(ctx context.Context, tx *gorm.DB, tenants []*domain.Tenant) ([]*domain.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(tenants) == 0 {
		return []*domain.Tenant{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}
