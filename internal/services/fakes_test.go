package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
)

type fakeTenantRepo struct {
	tenants []domain.Tenant
}

func (r *fakeTenantRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Tenant, error) {
	return r.tenants, nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*domain.Tenant, error) {
	for i := range r.tenants {
		if r.tenants[i].ID == tenantID {
			t := r.tenants[i]
			return &t, nil
		}
	}
	return nil, apierr.NotFound("locataire")
}

func (r *fakeTenantRepo) Create(ctx context.Context, tx *gorm.DB, tenants []*domain.Tenant) ([]*domain.Tenant, error) {
	for _, t := range tenants {
		r.tenants = append(r.tenants, *t)
	}
	return tenants, nil
}

type fakePropertyRepo struct {
	properties []domain.Property
	documents  []domain.PropertyDocument
}

func (r *fakePropertyRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Property, error) {
	return r.properties, nil
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*domain.Property, error) {
	for i := range r.properties {
		if r.properties[i].ID == propertyID {
			p := r.properties[i]
			return &p, nil
		}
	}
	return nil, apierr.NotFound("propriété")
}

func (r *fakePropertyRepo) ListDocuments(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) ([]domain.PropertyDocument, error) {
	out := []domain.PropertyDocument{}
	for _, d := range r.documents {
		if d.PropertyID == propertyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) Create(ctx context.Context, tx *gorm.DB, properties []*domain.Property) ([]*domain.Property, error) {
	for _, p := range properties {
		r.properties = append(r.properties, *p)
	}
	return properties, nil
}

func (r *fakePropertyRepo) AddDocument(ctx context.Context, tx *gorm.DB, doc *domain.PropertyDocument) (*domain.PropertyDocument, error) {
	r.documents = append(r.documents, *doc)
	return doc, nil
}

type fakeLeaseRepo struct {
	leases []domain.Lease
}

func (r *fakeLeaseRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.Lease, error) {
	return r.leases, nil
}

func (r *fakeLeaseRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]domain.Lease, error) {
	out := []domain.Lease{}
	for _, l := range r.leases {
		if l.TenantID == tenantID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLeaseRepo) Create(ctx context.Context, tx *gorm.DB, leases []*domain.Lease) ([]*domain.Lease, error) {
	for _, l := range leases {
		r.leases = append(r.leases, *l)
	}
	return leases, nil
}

type fakeContractRepo struct {
	mu          sync.Mutex
	contracts   map[uuid.UUID]domain.Contract
	createCalls int
	createErr   error
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[uuid.UUID]domain.Contract{}}
}

func (r *fakeContractRepo) Create(ctx context.Context, tx *gorm.DB, contract *domain.Contract) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	contract.CreatedAt = time.Now()
	r.contracts[contract.ID] = *contract
	return contract, nil
}

func (r *fakeContractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[contractID]
	if !ok {
		return nil, apierr.NotFound("contrat")
	}
	return &c, nil
}

func (r *fakeContractRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Contract{}
	for _, c := range r.contracts {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContractRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, toStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[contractID]
	if !ok || c.Status != fromStatus {
		return apierr.InvalidState(fmt.Errorf("le statut du contrat a changé entre-temps"))
	}
	c.Status = toStatus
	r.contracts[contractID] = c
	return nil
}

func (r *fakeContractRepo) SetTenantSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, sig string, contractData datatypes.JSON, signedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[contractID]
	if !ok {
		return apierr.NotFound("contrat")
	}
	if c.Status != fromStatus {
		return apierr.InvalidState(fmt.Errorf("le statut du contrat a changé entre-temps"))
	}
	c.TenantSignature = sig
	c.ContractData = contractData
	c.SignedAt = &signedAt
	c.Status = domain.ContractStatusSigned
	r.contracts[contractID] = c
	return nil
}

func (r *fakeContractRepo) SetOwnerSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fromStatus, sig string, approvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[contractID]
	if !ok {
		return apierr.NotFound("contrat")
	}
	if c.Status != fromStatus {
		return apierr.InvalidState(fmt.Errorf("le statut du contrat a changé entre-temps"))
	}
	c.OwnerSignature = sig
	c.ApprovedAt = &approvedAt
	c.Status = domain.ContractStatusActive
	r.contracts[contractID] = c
	return nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []string
}

func (s *fakeStore) SaveUpload(ctx context.Context, category, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("/media/%s/%s", category, name)
	s.saved = append(s.saved, url)
	return url, nil
}

type fakeGuard struct {
	mu       sync.Mutex
	held     map[string]bool
	refuse   bool
	acquired int
	released int
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: map[string]bool{}}
}

func (g *fakeGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refuse || g.held[key] {
		return false, nil
	}
	g.held[key] = true
	g.acquired++
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	g.released++
	return nil
}

func (g *fakeGuard) Close() error { return nil }
