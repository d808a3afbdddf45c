package cascade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// DocumentFetcher loads the document metadata behind a resolved selection.
type DocumentFetcher interface {
	TenantDocuments(ctx context.Context, tenantID uuid.UUID) ([]docs.DocumentRef, error)
	PropertyDocuments(ctx context.Context, propertyID uuid.UUID) ([]docs.DocumentRef, error)
}

// FetchPlan names the document loads a selection triggered, each stamped with
// the generation it belongs to. A plan is only valid against the session that
// produced it.
type FetchPlan struct {
	TenantID    uuid.UUID
	TenantGen   uint64
	PropertyID  uuid.UUID
	PropertyGen uint64
}

func (p FetchPlan) Empty() bool {
	return p.TenantID == uuid.Nil && p.PropertyID == uuid.Nil
}

// Session owns one draft through its editing lifetime: the derivation state,
// the document groups, and the pending uploads. Selections supersede each
// other by generation: whatever a stale document response says, only the
// response matching the latest generation for its group is applied.
type Session struct {
	mu sync.Mutex

	log  *logger.Logger
	cols Collections

	draft       draft.ContractDraft
	agg         *docs.Aggregator
	contractPDF *docs.Upload

	tenantGen   uint64
	propertyGen uint64
}

func NewSession(log *logger.Logger, cols Collections) *Session {
	return &Session{
		log:   log.With("component", "CascadeSession"),
		cols:  cols,
		draft: draft.New(),
		agg:   docs.NewAggregator(),
	}
}

func (s *Session) Draft() draft.ContractDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *Session) TenantDocs() []docs.DocumentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.TenantDocs()
}

func (s *Session) PropertyDocs() []docs.DocumentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.PropertyDocs()
}

// SelectTenant runs the tenant-driven cascade. It derives the draft fields
// synchronously and returns the fetch plan for the document loads the new
// selection requires. Selecting uuid.Nil clears the tenant selection.
func (s *Session) SelectTenant(tenantID uuid.UUID) FetchPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Every selection change starts a new generation for both groups and
	// empties them immediately: in-flight responses for the old selection
	// become stale, and a failed load must leave an empty group rather
	// than the previous selection's documents.
	s.tenantGen++
	s.propertyGen++
	s.agg.SetTenantDocs(nil)
	s.agg.SetPropertyDocs(nil)

	if tenantID == uuid.Nil {
		s.draft = s.draft.WithoutTenant().WithoutProperty()
		return FetchPlan{}
	}

	s.draft = ResolveTenant(s.draft, tenantID, s.cols)
	if s.draft.TenantID == uuid.Nil {
		// Unknown identifier: cleared fields, no fetch, no error.
		s.draft = s.draft.WithoutProperty()
		return FetchPlan{}
	}

	plan := FetchPlan{TenantID: s.draft.TenantID, TenantGen: s.tenantGen}

	if s.draft.PropertyID != uuid.Nil {
		s.draft = ResolveProperty(s.draft, s.draft.PropertyID, s.cols)
		plan.PropertyID = s.draft.PropertyID
		plan.PropertyGen = s.propertyGen
	} else {
		s.draft = s.draft.WithoutProperty()
	}
	return plan
}

// SelectProperty runs the property-driven cascade. It refuses to override a
// property fixed by the tenant's active lease.
func (s *Session) SelectProperty(propertyID uuid.UUID) (FetchPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.LeaseID != uuid.Nil {
		return FetchPlan{}, ErrPropertyLocked
	}

	s.propertyGen++
	s.agg.SetPropertyDocs(nil)

	if propertyID == uuid.Nil {
		s.draft = s.draft.WithoutProperty()
		return FetchPlan{}, nil
	}

	s.draft = ResolveProperty(s.draft, propertyID, s.cols)
	if s.draft.PropertyID == uuid.Nil {
		return FetchPlan{}, nil
	}
	return FetchPlan{PropertyID: s.draft.PropertyID, PropertyGen: s.propertyGen}, nil
}

// ApplyTenantDocs installs a tenant document response. It reports whether the
// response was current; a stale generation is discarded untouched.
func (s *Session) ApplyTenantDocs(gen uint64, refs []docs.DocumentRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.tenantGen {
		s.log.Debug("discarding stale tenant document response", "gen", gen, "latest", s.tenantGen)
		return false
	}
	s.agg.SetTenantDocs(refs)
	return true
}

func (s *Session) ApplyPropertyDocs(gen uint64, refs []docs.DocumentRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.propertyGen {
		s.log.Debug("discarding stale property document response", "gen", gen, "latest", s.propertyGen)
		return false
	}
	s.agg.SetPropertyDocs(refs)
	return true
}

// Fetch executes a plan: both groups load concurrently and each response is
// applied under its generation check. On a fetch error the affected group
// stays as the selection left it, which is empty.
func (s *Session) Fetch(ctx context.Context, fetcher DocumentFetcher, plan FetchPlan) error {
	if plan.Empty() {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	if plan.TenantID != uuid.Nil {
		g.Go(func() error {
			refs, err := fetcher.TenantDocuments(ctx, plan.TenantID)
			if err != nil {
				return err
			}
			s.ApplyTenantDocs(plan.TenantGen, refs)
			return nil
		})
	}
	if plan.PropertyID != uuid.Nil {
		g.Go(func() error {
			refs, err := fetcher.PropertyDocuments(ctx, plan.PropertyID)
			if err != nil {
				return err
			}
			s.ApplyPropertyDocs(plan.PropertyGen, refs)
			return nil
		})
	}
	return g.Wait()
}

// ApplyPatch merges direct form edits into the draft.
func (s *Session) ApplyPatch(p draft.Patch) draft.ContractDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.draft.Apply(p)
	return s.draft
}

// AttachIdentity fills the single identity-document slot, replacing any
// previous file.
func (s *Session) AttachIdentity(u docs.Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.AttachIdentity(u)
}

func (s *Session) ClearIdentity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.ClearIdentity()
}

func (s *Session) Identity() (docs.Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Identity()
}

// AttachContractPDF stores the optional contract file sent with submission.
func (s *Session) AttachContractPDF(u docs.Upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractPDF = &u
}

func (s *Session) ContractPDF() (docs.Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contractPDF == nil {
		return docs.Upload{}, false
	}
	return *s.contractPDF, true
}
