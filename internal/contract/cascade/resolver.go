// Package cascade keeps a contract draft's derived fields consistent with the
// entity currently selected. Derivation is pure over already-fetched
// collections; the asynchronous document loads it triggers are sequenced with
// generation counters so a slow response for an abandoned selection can never
// overwrite a newer one.
package cascade

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/domain"
)

// Collections are the in-memory record lists the creation screen loads once
// when it opens.
type Collections struct {
	Tenants    []domain.Tenant
	Properties []domain.Property
	Leases     []domain.Lease
}

func (c Collections) tenant(id uuid.UUID) (domain.Tenant, bool) {
	for _, t := range c.Tenants {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tenant{}, false
}

func (c Collections) property(id uuid.UUID) (domain.Property, bool) {
	for _, p := range c.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Property{}, false
}

// ActiveLease returns the tenant's active lease. The store keeps at most one
// active lease per tenant; if that invariant is broken the candidates are
// ordered by most recent start date, then most recent creation, then id, and
// the first one wins, so the pick stays deterministic.
func ActiveLease(leases []domain.Lease, tenantID uuid.UUID) (domain.Lease, bool) {
	var matches []domain.Lease
	for _, l := range leases {
		if l.TenantID == tenantID && l.Status == domain.LeaseStatusActive {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		return domain.Lease{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		li, lj := matches[i], matches[j]
		si, sj := startOrZero(li), startOrZero(lj)
		if !si.Equal(sj) {
			return si.After(sj)
		}
		if !li.CreatedAt.Equal(lj.CreatedAt) {
			return li.CreatedAt.After(lj.CreatedAt)
		}
		return li.ID.String() < lj.ID.String()
	})
	return matches[0], true
}

// ResolveTenant applies the tenant-driven cascade. An unknown identifier (a
// race with a concurrently refreshed list) is a no-op derivation: tenant and
// lease-derived fields are cleared, no error is raised.
func ResolveTenant(d draft.ContractDraft, tenantID uuid.UUID, cols Collections) draft.ContractDraft {
	tenant, ok := cols.tenant(tenantID)
	if !ok {
		return d.WithoutTenant()
	}

	details := draft.TenantDetails{
		TenantID:        tenant.ID,
		Name:            tenant.FullName,
		Phone:           tenant.Phone,
		Email:           tenant.Email,
		IDNumber:        tenant.IDNumber,
		SecurityDeposit: tenant.SecurityDeposit,
		PaymentMethod:   tenant.PaymentMethod,
		StartDate:       tenant.LeaseStartDate,
		EndDate:         tenant.LeaseEndDate,
	}

	lease, found := ActiveLease(cols.Leases, tenant.ID)
	if !found {
		return d.WithTenant(details, nil)
	}
	return d.WithTenant(details, &draft.LeaseDetails{
		LeaseID:     lease.ID,
		PropertyID:  lease.PropertyID,
		MonthlyRent: lease.MonthlyRent,
	})
}

// ResolveProperty applies the property-driven cascade: descriptive attributes
// only, financial fields are the lease's business.
func ResolveProperty(d draft.ContractDraft, propertyID uuid.UUID, cols Collections) draft.ContractDraft {
	property, ok := cols.property(propertyID)
	if !ok {
		return d.WithoutProperty()
	}
	return d.WithProperty(draft.PropertyDetails{
		PropertyID: property.ID,
		Address:    property.Address,
		Type:       property.Type,
		Surface:    property.Surface,
		Rooms:      property.Rooms,
	})
}

func startOrZero(l domain.Lease) time.Time {
	if l.StartDate != nil {
		return *l.StartDate
	}
	return time.Time{}
}
