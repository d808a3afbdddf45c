package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contract statuses, in lifecycle order. "signed" means the tenant has signed
// and the record is waiting for owner approval.
const (
	ContractStatusDraft            = "draft"
	ContractStatusPendingSignature = "pending_signature"
	ContractStatusSigned           = "signed"
	ContractStatusActive           = "active"
	ContractStatusRejected         = "rejected"
)

const (
	ContractTypeRental = "Location"
	ContractTypeSale   = "Vente"
)

// Contract is the persisted record a successful draft submission produces.
// The engine treats it as opaque afterwards, reading back only what the
// approval screen renders.
type Contract struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index;column:property_id" json:"property"`
	LeaseID    *uuid.UUID `gorm:"type:uuid;index;column:lease_id" json:"location,omitempty"`

	ContractType string     `gorm:"not null;column:contract_type" json:"contract_type"`
	Purpose      string     `gorm:"column:purpose" json:"contract_purpose"`
	StartDate    time.Time  `gorm:"not null;column:start_date" json:"start_date"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	Amount           float64 `gorm:"not null;column:amount" json:"amount"`
	SecurityDeposit  string  `gorm:"column:security_deposit" json:"security_deposit"`
	PaymentMethod    string  `gorm:"column:payment_method" json:"payment_method"`
	PaymentFrequency string  `gorm:"column:payment_frequency" json:"payment_frequency"`

	SpecificRules   string `gorm:"column:specific_rules" json:"specific_rules"`
	Insurance       string `gorm:"column:insurance" json:"insurance"`
	AdditionalNotes string `gorm:"column:additional_notes" json:"additional_notes"`

	ContractFileURL string `gorm:"column:contract_file_url" json:"contract_file_url"`
	IdentityFileURL string `gorm:"column:identity_file_url" json:"identity_file_url"`

	Status string `gorm:"not null;default:'draft';column:status" json:"status"`

	// ContractData holds the fields the tenant fills in before signing
	// (full name, profession, emergency contact, ...). Free-shape on
	// purpose: the tenant-side form owns it.
	ContractData datatypes.JSON `gorm:"column:contract_data" json:"contract_data,omitempty"`

	// Signatures travel as data-URL encoded PNGs and are stored verbatim.
	TenantSignature string `gorm:"column:tenant_signature" json:"tenant_signature,omitempty"`
	OwnerSignature  string `gorm:"column:owner_signature" json:"owner_signature,omitempty"`

	SignedAt   *time.Time `gorm:"column:signed_at" json:"signed_at,omitempty"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contract) TableName() string { return "contract" }
