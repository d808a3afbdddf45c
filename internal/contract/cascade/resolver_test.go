package cascade

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/domain"
)

func testCollections() (Collections, domain.Tenant, domain.Property, domain.Lease) {
	leaseStart := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tenant := domain.Tenant{
		ID:              uuid.New(),
		FullName:        "Jean Kouassi",
		Phone:           "+225 07 01 02 03",
		Email:           "jean.kouassi@example.ci",
		IDNumber:        "CI-1234567",
		SecurityDeposit: "2 mois",
		PaymentMethod:   "Mobile Money",
		LeaseStartDate:  &leaseStart,
	}
	property := domain.Property{
		ID:      uuid.New(),
		Title:   "Villa Cocody",
		Address: "Cocody, Abidjan",
		Type:    "Villa",
		Surface: 220,
		Rooms:   5,
	}
	lease := domain.Lease{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		Status:      domain.LeaseStatusActive,
		MonthlyRent: 500000,
		StartDate:   &leaseStart,
	}
	cols := Collections{
		Tenants:    []domain.Tenant{tenant},
		Properties: []domain.Property{property},
		Leases:     []domain.Lease{lease},
	}
	return cols, tenant, property, lease
}

func TestResolveTenantAutoFillsLeaseAndProperty(t *testing.T) {
	cols, tenant, property, lease := testCollections()

	d := ResolveTenant(draft.New(), tenant.ID, cols)

	if d.TenantName != "Jean Kouassi" {
		t.Fatalf("tenant name: got %q", d.TenantName)
	}
	if d.LeaseID != lease.ID {
		t.Fatalf("lease: want=%s got=%s", lease.ID, d.LeaseID)
	}
	if d.PropertyID != property.ID {
		t.Fatalf("property: want=%s got=%s", property.ID, d.PropertyID)
	}
	if d.Amount != 500000 {
		t.Fatalf("amount: want=500000 got=%v", d.Amount)
	}
	if d.SecurityDeposit != "2 mois" || d.PaymentMethod != "Mobile Money" {
		t.Fatalf("tenant preferences not carried over: %+v", d)
	}
	if d.StartDate == nil || !d.StartDate.Equal(*tenant.LeaseStartDate) {
		t.Fatalf("start date not derived from tenant")
	}
}

func TestResolveTenantWithoutActiveLeaseClearsLeaseFields(t *testing.T) {
	cols, tenant, _, _ := testCollections()
	cols.Leases[0].Status = domain.LeaseStatusEnded

	// Start from a draft that had a previous selection, so clearing is
	// observable.
	prev := ResolveTenant(draft.New(), tenant.ID, Collections{
		Tenants:    cols.Tenants,
		Properties: cols.Properties,
		Leases:     []domain.Lease{{ID: uuid.New(), TenantID: tenant.ID, PropertyID: cols.Properties[0].ID, Status: domain.LeaseStatusActive, MonthlyRent: 300000}},
	})
	if prev.Amount == 0 {
		t.Fatalf("precondition: previous selection should have an amount")
	}

	d := ResolveTenant(prev, tenant.ID, cols)
	if d.LeaseID != uuid.Nil || d.PropertyID != uuid.Nil || d.Amount != 0 {
		t.Fatalf("lease-derived fields not cleared: %+v", d)
	}
	if d.TenantName != tenant.FullName {
		t.Fatalf("tenant summary should survive: %+v", d)
	}
}

func TestResolveTenantUnknownIDClearsSelection(t *testing.T) {
	cols, tenant, _, _ := testCollections()

	prev := ResolveTenant(draft.New(), tenant.ID, cols)
	d := ResolveTenant(prev, uuid.New(), cols)

	if d.TenantID != uuid.Nil || d.TenantName != "" {
		t.Fatalf("unknown id should clear tenant fields: %+v", d)
	}
	if d.LeaseID != uuid.Nil || d.Amount != 0 {
		t.Fatalf("unknown id should clear lease fields: %+v", d)
	}
}

func TestResolvePropertyFillsDescriptiveFieldsOnly(t *testing.T) {
	cols, _, property, _ := testCollections()

	d := draft.New()
	d.Amount = 123456
	d = ResolveProperty(d, property.ID, cols)

	if d.PropertyAddress != property.Address || d.PropertyType != property.Type {
		t.Fatalf("property summary not derived: %+v", d)
	}
	if d.PropertySurface != 220 || d.PropertyRooms != 5 {
		t.Fatalf("surface/rooms not derived: %+v", d)
	}
	if d.Amount != 123456 {
		t.Fatalf("property cascade must not touch the amount")
	}
}

func TestActiveLeaseTieBreakIsDeterministic(t *testing.T) {
	tenantID := uuid.New()
	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	a := domain.Lease{ID: uuid.New(), TenantID: tenantID, Status: domain.LeaseStatusActive, StartDate: &older, MonthlyRent: 100}
	b := domain.Lease{ID: uuid.New(), TenantID: tenantID, Status: domain.LeaseStatusActive, StartDate: &newer, MonthlyRent: 200}

	got, ok := ActiveLease([]domain.Lease{a, b}, tenantID)
	if !ok || got.ID != b.ID {
		t.Fatalf("most recent start date should win, got %v", got.ID)
	}
	// Order of the input slice must not matter.
	got, ok = ActiveLease([]domain.Lease{b, a}, tenantID)
	if !ok || got.ID != b.ID {
		t.Fatalf("tie-break depends on input order")
	}

	// Same start date: creation time decides, then id.
	c := b
	c.ID = uuid.New()
	c.CreatedAt = b.CreatedAt
	first, _ := ActiveLease([]domain.Lease{b, c}, tenantID)
	second, _ := ActiveLease([]domain.Lease{c, b}, tenantID)
	if first.ID != second.ID {
		t.Fatalf("equal candidates resolved differently: %s vs %s", first.ID, second.ID)
	}
}

func TestActiveLeaseIgnoresOtherTenantsAndStatuses(t *testing.T) {
	tenantID := uuid.New()
	leases := []domain.Lease{
		{ID: uuid.New(), TenantID: uuid.New(), Status: domain.LeaseStatusActive},
		{ID: uuid.New(), TenantID: tenantID, Status: domain.LeaseStatusPending},
		{ID: uuid.New(), TenantID: tenantID, Status: domain.LeaseStatusEnded},
	}
	if _, ok := ActiveLease(leases, tenantID); ok {
		t.Fatalf("no active lease should be found")
	}
}
