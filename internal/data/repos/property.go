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

type PropertyRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]domain.Property, error)
	GetByID(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*domain.Property, error)
	ListDocuments(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) ([]domain.PropertyDocument, error)
	Create(ctx context.Context, tx *gorm.DB, properties []*domain.Property) ([]*domain.Property, error)
	AddDocument(ctx context.Context, tx *gorm.DB, doc *domain.PropertyDocument) (*domain.PropertyDocument, error)
}

type propertyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPropertyRepo(db *gorm.DB, baseLog *logger.Logger) PropertyRepo {
	repoLog := baseLog.With("repo", "PropertyRepo")
	return &propertyRepo{db: db, log: repoLog}
}

func (pr *propertyRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	results := []domain.Property{}
	if err := transaction.WithContext(ctx).
		Order("title").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) GetByID(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*domain.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result domain.Property
	if err := transaction.WithContext(ctx).
		Where("id = ?", propertyID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("propriété")
		}
		return nil, err
	}
	return &result, nil
}

func (pr *propertyRepo) ListDocuments(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) ([]domain.PropertyDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	results := []domain.PropertyDocument{}
	if err := transaction.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *propertyRepo) Create(ctx context.Context, tx *gorm.DB, properties []*domain.Property) ([]*domain.Property, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(properties) == 0 {
		return []*domain.Property{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (pr *propertyRepo) AddDocument(ctx context.Context, tx *gorm.DB, doc *domain.PropertyDocument) (*domain.PropertyDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}
