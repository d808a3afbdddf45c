package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeaseStatusActive  = "active"
	LeaseStatusEnded   = "ended"
	LeaseStatusPending = "pending"
)

// Lease binds exactly one tenant to exactly one property. The store is
// supposed to keep at most one active lease per tenant; the cascade resolver
// still applies a deterministic tie-break when that invariant is broken.
type Lease struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index;column:property_id" json:"property"`

	Status      string  `gorm:"not null;default:'pending';column:status" json:"status"`
	MonthlyRent float64 `gorm:"not null;column:monthly_rent" json:"monthly_rent"`

	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Lease) TableName() string { return "lease" }
