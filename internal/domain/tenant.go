package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is the renter record. It is created and edited by the tenant
// management screens; the contract engine only reads it.
type Tenant struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FullName string    `gorm:"not null;column:full_name" json:"full_name"`
	Phone    string    `gorm:"column:phone" json:"phone"`
	Email    string    `gorm:"column:email" json:"email"`
	IDNumber string    `gorm:"column:id_number" json:"id_number"`

	// Preferences carried over into new contract drafts.
	SecurityDeposit string `gorm:"column:security_deposit" json:"security_deposit"`
	PaymentMethod   string `gorm:"column:payment_method" json:"payment_method"`

	LeaseStartDate *time.Time `gorm:"column:lease_start_date" json:"lease_start_date,omitempty"`
	LeaseEndDate   *time.Time `gorm:"column:lease_end_date" json:"lease_end_date,omitempty"`

	// Scanned documents attached to the tenant profile.
	IDDocumentURL     string `gorm:"column:id_document_url" json:"id_document_url"`
	SignedContractURL string `gorm:"column:signed_contract_url" json:"signed_contract_url"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Tenant) TableName() string { return "tenant" }
