package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contract *domain.Contract) (*domain.Contract, error)
	GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context, tx *gorm.DB, status string) ([]domain.Contract, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, toStatus string) error
	SetTenantSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, signature string, contractData datatypes.JSON, signedAt time.Time) error
	SetOwnerSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, signature string, approvedAt time.Time) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	repoLog := baseLog.With("repo", "ContractRepo")
	return &contractRepo{db: db, log: repoLog}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contract *domain.Contract) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (cr *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result domain.Contract
	if err := transaction.WithContext(ctx).
		Where("id = ?", contractID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("contrat")
		}
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	results := []domain.Contract{}
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateStatus advances a contract's status with a compare-and-set so a
// record never skips a lifecycle stage under concurrent updates.
func (cr *contractRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, toStatus string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ? AND status = ?", contractID, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.InvalidState(errors.New("le statut du contrat a changé entre-temps"))
	}
	return nil
}

// SetTenantSignature records the tenant signature and advances the status to
// signed, guarded by the status the caller observed. A concurrent transition
// in between makes the write a no-op and surfaces as an invalid-state error.
func (cr *contractRepo) SetTenantSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, signature string, contractData datatypes.JSON, signedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ? AND status = ?", contractID, fromStatus).
		Updates(map[string]any{
			"tenant_signature": signature,
			"contract_data":    contractData,
			"signed_at":        signedAt,
			"status":           domain.ContractStatusSigned,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.InvalidState(errors.New("le statut du contrat a changé entre-temps"))
	}
	return nil
}

// SetOwnerSignature records the owner signature and activates the contract,
// with the same status guard as SetTenantSignature.
func (cr *contractRepo) SetOwnerSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, signature string, approvedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ? AND status = ?", contractID, fromStatus).
		Updates(map[string]any{
			"owner_signature": signature,
			"approved_at":     approvedAt,
			"status":          domain.ContractStatusActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.InvalidState(errors.New("le statut du contrat a changé entre-temps"))
	}
	return nil
}
