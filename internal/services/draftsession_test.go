package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
)

// Full creation flow: open, pick the tenant, watch the cascade fill the
// lease and property, complete the form, submit.
func TestDraftSessionEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.draftSvc.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if view.Submittable {
		t.Fatalf("an empty draft must not be submittable")
	}

	view, err = f.draftSvc.SelectTenant(ctx, view.SessionID, f.tenant.ID)
	if err != nil {
		t.Fatalf("select tenant: %v", err)
	}
	if view.Draft.TenantName != "Jean Kouassi" {
		t.Fatalf("tenant not resolved: %+v", view.Draft)
	}
	if view.Draft.PropertyID != f.property.ID || view.Draft.Amount != 500000 {
		t.Fatalf("active lease cascade incomplete: %+v", view.Draft)
	}
	if len(view.TenantDocs) != 1 || view.TenantDocs[0].URL != f.tenant.IDDocumentURL {
		t.Fatalf("tenant documents not loaded: %+v", view.TenantDocs)
	}
	if view.PropertyDocs == nil {
		t.Fatalf("property group must be non-nil even when empty")
	}

	contractType := domain.ContractTypeRental
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	view, err = f.draftSvc.Update(ctx, view.SessionID, draft.Patch{
		ContractType: &contractType,
		StartDate:    &start,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !view.Submittable {
		t.Fatalf("draft should be submittable now, errors: %v", view.Errors)
	}

	view, err = f.draftSvc.AttachIdentity(ctx, view.SessionID, docs.Upload{
		Name:        "cni.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("attach identity: %v", err)
	}
	if !view.HasIdentity {
		t.Fatalf("identity slot should be filled")
	}

	created, err := f.draftSvc.Submit(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.Status != domain.ContractStatusPendingSignature {
		t.Fatalf("status: %s", created.Status)
	}
	if created.IdentityFileURL == "" {
		t.Fatalf("identity file was not stored")
	}

	// The session is gone once the contract exists.
	if _, err := f.draftSvc.Get(ctx, view.SessionID); apierr.AsError(err).Code != apierr.CodeNotFound {
		t.Fatalf("session should be destroyed after submit, got %v", err)
	}
}

func TestDraftSessionSurvivesFailedSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, _ := f.draftSvc.Open(ctx)
	view, err := f.draftSvc.SelectTenant(ctx, view.SessionID, f.tenant.ID)
	if err != nil {
		t.Fatalf("select tenant: %v", err)
	}

	// Missing contract type and start date.
	_, err = f.draftSvc.Submit(ctx, view.SessionID)
	ae := apierr.AsError(err)
	if ae == nil || ae.Code != apierr.CodeValidation {
		t.Fatalf("want validation error, got %v", err)
	}

	got, err := f.draftSvc.Get(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("session should survive a failed submission: %v", err)
	}
	if got.Draft.TenantID != f.tenant.ID {
		t.Fatalf("draft content lost: %+v", got.Draft)
	}
}

func TestDraftSessionPropertyLockedByLease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, _ := f.draftSvc.Open(ctx)
	view, err := f.draftSvc.SelectTenant(ctx, view.SessionID, f.tenant.ID)
	if err != nil {
		t.Fatalf("select tenant: %v", err)
	}

	_, err = f.draftSvc.SelectProperty(ctx, view.SessionID, uuid.New())
	ae := apierr.AsError(err)
	if ae == nil || ae.Code != apierr.CodeConflict {
		t.Fatalf("want conflict while lease locks the property, got %v", err)
	}
}

func TestDraftSessionDeselectTenantUnlocksProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, _ := f.draftSvc.Open(ctx)
	if _, err := f.draftSvc.SelectTenant(ctx, view.SessionID, f.tenant.ID); err != nil {
		t.Fatalf("select tenant: %v", err)
	}
	if _, err := f.draftSvc.SelectTenant(ctx, view.SessionID, uuid.Nil); err != nil {
		t.Fatalf("deselect tenant: %v", err)
	}

	got, err := f.draftSvc.SelectProperty(ctx, view.SessionID, f.property.ID)
	if err != nil {
		t.Fatalf("select property after deselection: %v", err)
	}
	if got.Draft.PropertyAddress != f.property.Address {
		t.Fatalf("property not resolved: %+v", got.Draft)
	}
	if got.Draft.Amount != 0 {
		t.Fatalf("property selection must not set the amount")
	}
}

func TestDraftSessionCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, _ := f.draftSvc.Open(ctx)
	if err := f.draftSvc.Cancel(ctx, view.SessionID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.draftSvc.Cancel(ctx, view.SessionID); apierr.AsError(err).Code != apierr.CodeNotFound {
		t.Fatalf("second cancel should be not_found, got %v", err)
	}
}

func TestDraftSessionUnknownIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.draftSvc.Get(context.Background(), uuid.New())
	if apierr.AsError(err).Code != apierr.CodeNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestDraftSessionExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	svc := f.draftSvc.(*draftService)
	now := time.Now()
	svc.nowFunc = func() time.Time { return now }

	view, _ := f.draftSvc.Open(ctx)

	now = now.Add(draftSessionTTL + time.Minute)
	if _, err := f.draftSvc.Get(ctx, view.SessionID); apierr.AsError(err).Code != apierr.CodeNotFound {
		t.Fatalf("expired session should be not_found, got %v", err)
	}
}
