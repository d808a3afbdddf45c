// Package draft holds the in-progress contract being assembled in the
// creation screen. The draft is an explicit, strongly-typed value and every
// mutation is a pure function returning a new draft, so each transition can
// be inspected and tested in isolation. Nothing here is persisted; a draft
// lives only inside an editing session and is destroyed on submit or cancel.
package draft

import (
	"time"

	"github.com/google/uuid"
)

// ContractDraft mirrors the creation form field for field. Selection fields
// reference known records; everything else is user input or cascade-derived.
type ContractDraft struct {
	TenantID   uuid.UUID `json:"tenant"`
	PropertyID uuid.UUID `json:"property"`
	LeaseID    uuid.UUID `json:"location"`

	// Read-only tenant summary, derived by the cascade.
	TenantName     string `json:"tenant_name"`
	TenantPhone    string `json:"tenant_phone"`
	TenantEmail    string `json:"tenant_email"`
	TenantIDNumber string `json:"tenant_id_number"`

	// Read-only property summary, derived by the cascade.
	PropertyAddress string  `json:"property_address"`
	PropertyType    string  `json:"property_type"`
	PropertySurface float64 `json:"property_surface"`
	PropertyRooms   int     `json:"property_rooms"`

	ContractType string     `json:"contract_type"`
	Purpose      string     `json:"contract_purpose"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`

	Amount           float64 `json:"amount"`
	SecurityDeposit  string  `json:"security_deposit"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentFrequency string  `json:"payment_frequency"`

	SpecificRules   string `json:"specific_rules"`
	Insurance       string `json:"insurance"`
	AdditionalNotes string `json:"additional_notes"`
}

// New returns an empty draft, the state the creation screen opens with.
func New() ContractDraft { return ContractDraft{} }

// TenantDetails is what the tenant-driven cascade writes into the draft.
type TenantDetails struct {
	TenantID        uuid.UUID
	Name            string
	Phone           string
	Email           string
	IDNumber        string
	SecurityDeposit string
	PaymentMethod   string
	StartDate       *time.Time
	EndDate         *time.Time
}

// LeaseDetails is the active-lease part of the tenant cascade.
type LeaseDetails struct {
	LeaseID     uuid.UUID
	PropertyID  uuid.UUID
	MonthlyRent float64
}

// PropertyDetails is what the property-driven cascade writes into the draft.
type PropertyDetails struct {
	PropertyID uuid.UUID
	Address    string
	Type       string
	Surface    float64
	Rooms      int
}

// WithTenant applies the tenant side of the cascade. Lease-derived fields are
// set when details carry a resolved lease and cleared otherwise, never left
// stale from a previous selection.
func (d ContractDraft) WithTenant(t TenantDetails, lease *LeaseDetails) ContractDraft {
	d.TenantID = t.TenantID
	d.TenantName = t.Name
	d.TenantPhone = t.Phone
	d.TenantEmail = t.Email
	d.TenantIDNumber = t.IDNumber
	d.SecurityDeposit = t.SecurityDeposit
	d.PaymentMethod = t.PaymentMethod
	d.StartDate = t.StartDate
	d.EndDate = t.EndDate

	if lease != nil {
		d.LeaseID = lease.LeaseID
		d.PropertyID = lease.PropertyID
		d.Amount = lease.MonthlyRent
	} else {
		d.LeaseID = uuid.Nil
		d.PropertyID = uuid.Nil
		d.Amount = 0
	}
	return d
}

// WithoutTenant clears every tenant-derived field, including the lease and
// property the tenant selection had fixed.
func (d ContractDraft) WithoutTenant() ContractDraft {
	d.TenantID = uuid.Nil
	d.TenantName = ""
	d.TenantPhone = ""
	d.TenantEmail = ""
	d.TenantIDNumber = ""
	d.LeaseID = uuid.Nil
	d.PropertyID = uuid.Nil
	d.Amount = 0
	return d
}

func (d ContractDraft) WithProperty(p PropertyDetails) ContractDraft {
	d.PropertyID = p.PropertyID
	d.PropertyAddress = p.Address
	d.PropertyType = p.Type
	d.PropertySurface = p.Surface
	d.PropertyRooms = p.Rooms
	return d
}

func (d ContractDraft) WithoutProperty() ContractDraft {
	d.PropertyID = uuid.Nil
	d.PropertyAddress = ""
	d.PropertyType = ""
	d.PropertySurface = 0
	d.PropertyRooms = 0
	return d
}

// Patch carries the plain form fields a user edits directly. Pointer fields
// distinguish "not touched" from "set to empty".
type Patch struct {
	ContractType     *string    `json:"contract_type,omitempty"`
	Purpose          *string    `json:"contract_purpose,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Amount           *float64   `json:"amount,omitempty"`
	SecurityDeposit  *string    `json:"security_deposit,omitempty"`
	PaymentMethod    *string    `json:"payment_method,omitempty"`
	PaymentFrequency *string    `json:"payment_frequency,omitempty"`
	SpecificRules    *string    `json:"specific_rules,omitempty"`
	Insurance        *string    `json:"insurance,omitempty"`
	AdditionalNotes  *string    `json:"additional_notes,omitempty"`
}

func (d ContractDraft) Apply(p Patch) ContractDraft {
	if p.ContractType != nil {
		d.ContractType = *p.ContractType
	}
	if p.Purpose != nil {
		d.Purpose = *p.Purpose
	}
	if p.StartDate != nil {
		d.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = p.EndDate
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.SecurityDeposit != nil {
		d.SecurityDeposit = *p.SecurityDeposit
	}
	if p.PaymentMethod != nil {
		d.PaymentMethod = *p.PaymentMethod
	}
	if p.PaymentFrequency != nil {
		d.PaymentFrequency = *p.PaymentFrequency
	}
	if p.SpecificRules != nil {
		d.SpecificRules = *p.SpecificRules
	}
	if p.Insurance != nil {
		d.Insurance = *p.Insurance
	}
	if p.AdditionalNotes != nil {
		d.AdditionalNotes = *p.AdditionalNotes
	}
	return d
}
