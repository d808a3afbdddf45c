package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// The production schema is migrated against postgres and carries defaults
// sqlite cannot express, so the test schema is spelled out here.
var testSchema = []string{
	`CREATE TABLE tenant (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		phone TEXT, email TEXT, id_number TEXT,
		security_deposit TEXT, payment_method TEXT,
		lease_start_date DATETIME, lease_end_date DATETIME,
		id_document_url TEXT, signed_contract_url TEXT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME
	)`,
	`CREATE TABLE property (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL, address TEXT NOT NULL, type TEXT,
		surface REAL, rooms INTEGER,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME
	)`,
	`CREATE TABLE property_document (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		title TEXT NOT NULL, file_url TEXT NOT NULL,
		category TEXT, size_label TEXT, pages INTEGER DEFAULT 1,
		created_at DATETIME
	)`,
	`CREATE TABLE lease (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL, property_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		monthly_rent REAL NOT NULL,
		start_date DATETIME, end_date DATETIME,
		created_at DATETIME, updated_at DATETIME
	)`,
	`CREATE TABLE contract (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL, property_id TEXT NOT NULL, lease_id TEXT,
		contract_type TEXT NOT NULL, purpose TEXT,
		start_date DATETIME NOT NULL, end_date DATETIME,
		amount REAL NOT NULL,
		security_deposit TEXT, payment_method TEXT, payment_frequency TEXT,
		specific_rules TEXT, insurance TEXT, additional_notes TEXT,
		contract_file_url TEXT, identity_file_url TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		contract_data TEXT,
		tenant_signature TEXT, owner_signature TEXT,
		signed_at DATETIME, approved_at DATETIME,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME
	)`,
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedContract(t *testing.T, repo ContractRepo) *domain.Contract {
	t.Helper()
	created, err := repo.Create(context.Background(), nil, &domain.Contract{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		PropertyID:   uuid.New(),
		ContractType: domain.ContractTypeRental,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:       500000,
		Status:       domain.ContractStatusPendingSignature,
	})
	if err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	return created
}

func TestTenantRepoRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewTenantRepo(db, logger.NewNop())
	ctx := context.Background()

	in := []*domain.Tenant{
		{ID: uuid.New(), FullName: "Marie Diabaté"},
		{ID: uuid.New(), FullName: "Jean Kouassi", IDDocumentURL: "/media/identity/cni.png"},
	}
	if _, err := repo.Create(ctx, nil, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].FullName != "Jean Kouassi" {
		t.Fatalf("list should be ordered by name: %+v", list)
	}

	got, err := repo.GetByID(ctx, nil, in[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IDDocumentURL != "/media/identity/cni.png" {
		t.Fatalf("document url lost: %+v", got)
	}
}

func TestTenantRepoGetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewTenantRepo(db, logger.NewNop())

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	ae := apierr.AsError(err)
	if ae == nil || ae.Code != apierr.CodeNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestPropertyRepoDocuments(t *testing.T) {
	db := setupDB(t)
	repo := NewPropertyRepo(db, logger.NewNop())
	ctx := context.Background()

	property := &domain.Property{ID: uuid.New(), Title: "Villa Cocody", Address: "Cocody, Abidjan"}
	if _, err := repo.Create(ctx, nil, []*domain.Property{property}); err != nil {
		t.Fatalf("create property: %v", err)
	}

	docs := []*domain.PropertyDocument{
		{ID: uuid.New(), PropertyID: property.ID, Title: "Titre foncier", FileURL: "/media/tf.pdf"},
		{ID: uuid.New(), PropertyID: property.ID, Title: "Plan", FileURL: "/media/plan.pdf"},
		{ID: uuid.New(), PropertyID: uuid.New(), Title: "Autre bien", FileURL: "/media/x.pdf"},
	}
	for _, d := range docs {
		if _, err := repo.AddDocument(ctx, nil, d); err != nil {
			t.Fatalf("add document: %v", err)
		}
	}

	got, err := repo.ListDocuments(ctx, nil, property.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 documents, got %d", len(got))
	}
}

func TestLeaseRepoListByTenant(t *testing.T) {
	db := setupDB(t)
	repo := NewLeaseRepo(db, logger.NewNop())
	ctx := context.Background()

	tenantID := uuid.New()
	leases := []*domain.Lease{
		{ID: uuid.New(), TenantID: tenantID, PropertyID: uuid.New(), Status: domain.LeaseStatusActive, MonthlyRent: 500000},
		{ID: uuid.New(), TenantID: uuid.New(), PropertyID: uuid.New(), Status: domain.LeaseStatusActive, MonthlyRent: 200000},
	}
	if _, err := repo.Create(ctx, nil, leases); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListByTenant(ctx, nil, tenantID)
	if err != nil {
		t.Fatalf("list by tenant: %v", err)
	}
	if len(got) != 1 || got[0].MonthlyRent != 500000 {
		t.Fatalf("unexpected leases: %+v", got)
	}
}

func TestContractRepoCreateAndGet(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())

	created := seedContract(t, repo)

	got, err := repo.GetByID(context.Background(), nil, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.ContractStatusPendingSignature || got.Amount != 500000 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestContractRepoListFiltersByStatus(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())
	ctx := context.Background()

	seedContract(t, repo)
	other := seedContract(t, repo)
	if err := repo.UpdateStatus(ctx, nil, other.ID, domain.ContractStatusPendingSignature, domain.ContractStatusRejected); err != nil {
		t.Fatalf("update status: %v", err)
	}

	pending, err := repo.List(ctx, nil, domain.ContractStatusPendingSignature)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("want 1 pending contract, got %d", len(pending))
	}

	all, err := repo.List(ctx, nil, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 contracts, got %d", len(all))
	}
}

func TestContractRepoUpdateStatusIsCompareAndSet(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())
	ctx := context.Background()

	created := seedContract(t, repo)

	err := repo.UpdateStatus(ctx, nil, created.ID, domain.ContractStatusSigned, domain.ContractStatusActive)
	ae := apierr.AsError(err)
	if ae == nil || ae.Code != apierr.CodeInvalidState {
		t.Fatalf("stale fromStatus should be refused, got %v", err)
	}

	if err := repo.UpdateStatus(ctx, nil, created.ID, domain.ContractStatusPendingSignature, domain.ContractStatusRejected); err != nil {
		t.Fatalf("valid update refused: %v", err)
	}
	got, _ := repo.GetByID(ctx, nil, created.ID)
	if got.Status != domain.ContractStatusRejected {
		t.Fatalf("status: %s", got.Status)
	}
}

func TestContractRepoSignatures(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())
	ctx := context.Background()

	created := seedContract(t, repo)

	signedAt := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	data := datatypes.JSON([]byte(`{"profession":"Ingénieur"}`))
	if err := repo.SetTenantSignature(ctx, nil, created.ID, created.Status, "data:image/png;base64,AAAA", data, signedAt); err != nil {
		t.Fatalf("set tenant signature: %v", err)
	}

	got, _ := repo.GetByID(ctx, nil, created.ID)
	if got.Status != domain.ContractStatusSigned {
		t.Fatalf("status after signing: %s", got.Status)
	}
	if got.TenantSignature != "data:image/png;base64,AAAA" {
		t.Fatalf("tenant signature altered: %q", got.TenantSignature)
	}
	if got.SignedAt == nil || !got.SignedAt.Equal(signedAt) {
		t.Fatalf("signed_at: %v", got.SignedAt)
	}

	approvedAt := signedAt.Add(48 * time.Hour)
	if err := repo.SetOwnerSignature(ctx, nil, created.ID, domain.ContractStatusSigned, "data:image/png;base64,BBBB", approvedAt); err != nil {
		t.Fatalf("set owner signature: %v", err)
	}
	got, _ = repo.GetByID(ctx, nil, created.ID)
	if got.Status != domain.ContractStatusActive || got.OwnerSignature == "" {
		t.Fatalf("approval not persisted: %+v", got)
	}
}

func TestSignatureSettersRefuseWhenStatusMoved(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())
	ctx := context.Background()

	created := seedContract(t, repo)
	signedAt := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	if err := repo.SetTenantSignature(ctx, nil, created.ID, created.Status, "data:image/png;base64,AAAA", nil, signedAt); err != nil {
		t.Fatalf("set tenant signature: %v", err)
	}

	// A rejection lands between the approval's status read and its write.
	if err := repo.UpdateStatus(ctx, nil, created.ID, domain.ContractStatusSigned, domain.ContractStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	err := repo.SetOwnerSignature(ctx, nil, created.ID, domain.ContractStatusSigned, "data:image/png;base64,BBBB", signedAt.Add(time.Hour))
	ae := apierr.AsError(err)
	if ae.Code != apierr.CodeInvalidState {
		t.Fatalf("want invalid_state, got %v", err)
	}

	got, _ := repo.GetByID(ctx, nil, created.ID)
	if got.Status != domain.ContractStatusRejected {
		t.Fatalf("rejected contract was resurrected: %s", got.Status)
	}
	if got.OwnerSignature != "" {
		t.Fatalf("owner signature written despite refusal")
	}
}

func TestContractRepoGetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewContractRepo(db, logger.NewNop())

	_, err := repo.GetByID(context.Background(), nil, uuid.New())
	ae := apierr.AsError(err)
	if ae == nil || ae.Code != apierr.CodeNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}
