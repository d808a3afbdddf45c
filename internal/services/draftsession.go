package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/contract/cascade"
	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// Idle drafts are reaped after this long without a touch.
const draftSessionTTL = 2 * time.Hour

// DraftView is the API projection of an editing session: the draft fields,
// the validation state and the two document groups.
type DraftView struct {
	SessionID    uuid.UUID           `json:"session_id"`
	Draft        draft.ContractDraft `json:"draft"`
	Errors       map[string]string   `json:"errors"`
	Submittable  bool                `json:"submittable"`
	TenantDocs   []docs.DocumentRef  `json:"tenant_docs"`
	PropertyDocs []docs.DocumentRef  `json:"property_docs"`
	HasIdentity  bool                `json:"has_identity"`
}

// DraftService owns the server-side editing sessions of the contract
// creation screen. One session holds one draft from open to submit or
// cancel.
type DraftService interface {
	Open(ctx context.Context) (*DraftView, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*DraftView, error)
	SelectTenant(ctx context.Context, sessionID, tenantID uuid.UUID) (*DraftView, error)
	SelectProperty(ctx context.Context, sessionID, propertyID uuid.UUID) (*DraftView, error)
	Update(ctx context.Context, sessionID uuid.UUID, p draft.Patch) (*DraftView, error)
	AttachIdentity(ctx context.Context, sessionID uuid.UUID, u docs.Upload) (*DraftView, error)
	RemoveIdentity(ctx context.Context, sessionID uuid.UUID) (*DraftView, error)
	AttachContractPDF(ctx context.Context, sessionID uuid.UUID, u docs.Upload) (*DraftView, error)
	Submit(ctx context.Context, sessionID uuid.UUID) (*domain.Contract, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error
}

type draftSession struct {
	session  *cascade.Session
	lastUsed time.Time
}

type draftService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*draftSession

	log       *logger.Logger
	catalog   CatalogService
	documents DocumentService
	contracts ContractService
	nowFunc   func() time.Time
}

func NewDraftService(log *logger.Logger, catalog CatalogService, documents DocumentService, contracts ContractService) DraftService {
	return &draftService{
		sessions:  map[uuid.UUID]*draftSession{},
		log:       log.With("service", "DraftService"),
		catalog:   catalog,
		documents: documents,
		contracts: contracts,
		nowFunc:   time.Now,
	}
}

// Open starts a fresh editing session over a snapshot of the current
// catalogs. Selections inside the session resolve against that snapshot.
func (ds *draftService) Open(ctx context.Context) (*DraftView, error) {
	cols, err := ds.catalog.Collections(ctx)
	if err != nil {
		return nil, apierr.AsError(err)
	}

	sessionID := uuid.New()
	entry := &draftSession{
		session:  cascade.NewSession(ds.log, cols),
		lastUsed: ds.nowFunc(),
	}

	ds.mu.Lock()
	ds.reapExpiredLocked()
	ds.sessions[sessionID] = entry
	ds.mu.Unlock()

	ds.log.Info("draft session opened", "session_id", sessionID)
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) Get(ctx context.Context, sessionID uuid.UUID) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return ds.view(sessionID, entry.session), nil
}

// SelectTenant runs the tenant cascade and loads the document groups the new
// selection requires before returning.
func (ds *draftService) SelectTenant(ctx context.Context, sessionID, tenantID uuid.UUID) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	plan := entry.session.SelectTenant(tenantID)
	if err := entry.session.Fetch(ctx, ds.documents, plan); err != nil {
		// Field derivation already happened; only the groups are degraded.
		ds.log.Warn("document fetch failed after tenant selection", "session_id", sessionID, "error", err)
	}
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) SelectProperty(ctx context.Context, sessionID, propertyID uuid.UUID) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	plan, err := entry.session.SelectProperty(propertyID)
	if err != nil {
		if errors.Is(err, cascade.ErrPropertyLocked) {
			return nil, apierr.New(http.StatusConflict, apierr.CodeConflict, err)
		}
		return nil, apierr.AsError(err)
	}
	if err := entry.session.Fetch(ctx, ds.documents, plan); err != nil {
		ds.log.Warn("document fetch failed after property selection", "session_id", sessionID, "error", err)
	}
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) Update(ctx context.Context, sessionID uuid.UUID, p draft.Patch) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.session.ApplyPatch(p)
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) AttachIdentity(ctx context.Context, sessionID uuid.UUID, u docs.Upload) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.session.AttachIdentity(u)
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) RemoveIdentity(ctx context.Context, sessionID uuid.UUID) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.session.ClearIdentity()
	return ds.view(sessionID, entry.session), nil
}

func (ds *draftService) AttachContractPDF(ctx context.Context, sessionID uuid.UUID, u docs.Upload) (*DraftView, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.session.AttachContractPDF(u)
	return ds.view(sessionID, entry.session), nil
}

// Submit hands the session's draft and files to the contract workflow. The
// session survives a failed submission so the user can correct and retry; it
// is destroyed only once the contract exists.
func (ds *draftService) Submit(ctx context.Context, sessionID uuid.UUID) (*domain.Contract, error) {
	entry, err := ds.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	in := CreateInput{Draft: entry.session.Draft()}
	if identity, ok := entry.session.Identity(); ok {
		in.Identity = &identity
	}
	if pdf, ok := entry.session.ContractPDF(); ok {
		in.ContractPDF = &pdf
	}

	created, err := ds.contracts.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	ds.mu.Lock()
	delete(ds.sessions, sessionID)
	ds.mu.Unlock()

	ds.log.Info("draft session submitted", "session_id", sessionID, "contract_id", created.ID)
	return created, nil
}

func (ds *draftService) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if _, ok := ds.sessions[sessionID]; !ok {
		return apierr.NotFound("brouillon")
	}
	delete(ds.sessions, sessionID)
	ds.log.Info("draft session cancelled", "session_id", sessionID)
	return nil
}

func (ds *draftService) lookup(sessionID uuid.UUID) (*draftSession, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	entry, ok := ds.sessions[sessionID]
	if !ok {
		return nil, apierr.NotFound("brouillon")
	}
	if ds.nowFunc().Sub(entry.lastUsed) > draftSessionTTL {
		delete(ds.sessions, sessionID)
		return nil, apierr.NotFound("brouillon")
	}
	entry.lastUsed = ds.nowFunc()
	return entry, nil
}

func (ds *draftService) reapExpiredLocked() {
	now := ds.nowFunc()
	for id, entry := range ds.sessions {
		if now.Sub(entry.lastUsed) > draftSessionTTL {
			delete(ds.sessions, id)
		}
	}
}

func (ds *draftService) view(sessionID uuid.UUID, s *cascade.Session) *DraftView {
	d := s.Draft()
	errs := draft.Validate(d)
	_, hasIdentity := s.Identity()
	return &DraftView{
		SessionID:    sessionID,
		Draft:        d,
		Errors:       errs,
		Submittable:  len(errs) == 0,
		TenantDocs:   s.TenantDocs(),
		PropertyDocs: s.PropertyDocs(),
		HasIdentity:  hasIdentity,
	}
}
