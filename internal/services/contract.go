package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/theophane330/habipro-backend/internal/clients/redis"
	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/contract/lifecycle"
	"github.com/theophane330/habipro-backend/internal/data/repos"
	"github.com/theophane330/habipro-backend/internal/domain"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/signature"
	"github.com/theophane330/habipro-backend/internal/storage"
)

// How long a submission fingerprint stays reserved while the create request
// is in flight.
const submitGuardTTL = 30 * time.Second

// CreateInput bundles a validated draft with the files uploaded alongside it.
type CreateInput struct {
	Draft       draft.ContractDraft
	ContractPDF *docs.Upload
	Identity    *docs.Upload
}

// SendInput is the contract offer an owner issues to a tenant.
type SendInput struct {
	TenantID        uuid.UUID
	PropertyID      uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	MonthlyRent     float64
	SecurityDeposit string
}

// TenantSignInput records the tenant-side signing of a sent contract.
type TenantSignInput struct {
	Signature    string         `json:"signature"`
	ContractData datatypes.JSON `json:"contract_data"`
}

// ApproveInput carries the owner's counter-signature, either as the raw
// stroke list of the signing surface or as an already-rendered data URL.
type ApproveInput struct {
	Strokes    []signature.Stroke `json:"strokes,omitempty"`
	Width      int                `json:"width,omitempty"`
	Height     int                `json:"height,omitempty"`
	Signature  string             `json:"signature,omitempty"`
	SignerName string             `json:"signer_name,omitempty"`
}

// ApprovalView is what the approval screen renders: the contract terms, the
// tenant-filled data and the tenant signature exactly as it was stored.
type ApprovalView struct {
	ID              uuid.UUID      `json:"id"`
	Status          string         `json:"status"`
	TenantName      string         `json:"tenant_name"`
	TenantEmail     string         `json:"tenant_email"`
	PropertyTitle   string         `json:"property_title"`
	PropertyAddress string         `json:"property_address"`
	ContractType    string         `json:"contract_type"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	MonthlyRent     float64        `json:"monthly_rent"`
	SecurityDeposit string         `json:"security_deposit"`
	ContractData    datatypes.JSON `json:"contract_data,omitempty"`
	TenantSignature string         `json:"tenant_signature,omitempty"`
	SignedAt        *time.Time     `json:"signed_at,omitempty"`
	SignedCaption   string         `json:"signed_caption,omitempty"`
}

type ContractService interface {
	Create(ctx context.Context, in CreateInput) (*domain.Contract, error)
	Send(ctx context.Context, in SendInput) (*domain.Contract, error)
	Get(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context, status string) ([]domain.Contract, error)
	TenantSign(ctx context.Context, contractID uuid.UUID, in TenantSignInput) (*domain.Contract, error)
	Approve(ctx context.Context, contractID uuid.UUID, in ApproveInput) (*domain.Contract, error)
	Reject(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error)
	ApprovalView(ctx context.Context, contractID uuid.UUID) (*ApprovalView, error)
}

type contractService struct {
	log          *logger.Logger
	contractRepo repos.ContractRepo
	tenantRepo   repos.TenantRepo
	propertyRepo repos.PropertyRepo
	documents    DocumentService
	store        storage.UploadStore
	guard        redis.SubmissionGuard
	annotator    *signature.Annotator
	nowFunc      func() time.Time
}

// NewContractService wires the submission and approval workflow. The
// annotator is optional; without it owner strokes render as the plain raster.
func NewContractService(
	log *logger.Logger,
	contractRepo repos.ContractRepo,
	tenantRepo repos.TenantRepo,
	propertyRepo repos.PropertyRepo,
	documents DocumentService,
	store storage.UploadStore,
	guard redis.SubmissionGuard,
	annotator *signature.Annotator,
) ContractService {
	return &contractService{
		log:          log.With("service", "ContractService"),
		contractRepo: contractRepo,
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		documents:    documents,
		store:        store,
		guard:        guard,
		annotator:    annotator,
		nowFunc:      time.Now,
	}
}

// Create submits a finished draft. Validation failures and a duplicate
// in-flight submission are rejected before any file or row is written.
func (cs *contractService) Create(ctx context.Context, in CreateInput) (*domain.Contract, error) {
	d := in.Draft

	if errs := draft.Validate(d); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	key := submitFingerprint(d)
	held, err := cs.guard.Acquire(ctx, key, submitGuardTTL)
	if err != nil {
		return nil, apierr.Transport(fmt.Errorf("submission guard: %w", err))
	}
	if !held {
		return nil, apierr.Conflict(errors.New("une soumission identique est déjà en cours"))
	}
	defer func() {
		if rerr := cs.guard.Release(context.WithoutCancel(ctx), key); rerr != nil {
			cs.log.Warn("could not release submission guard", "key", key, "error", rerr)
		}
	}()

	identityURL, err := cs.storeIdentity(ctx, in.Identity)
	if err != nil {
		return nil, err
	}
	contractURL, err := cs.storeContractPDF(ctx, in.ContractPDF)
	if err != nil {
		return nil, err
	}

	initial, err := lifecycle.Next(lifecycle.StateDraft, lifecycle.EventSubmit)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}

	record := &domain.Contract{
		TenantID:         d.TenantID,
		PropertyID:       d.PropertyID,
		LeaseID:          nilableID(d.LeaseID),
		ContractType:     d.ContractType,
		Purpose:          d.Purpose,
		StartDate:        *d.StartDate,
		EndDate:          d.EndDate,
		Amount:           d.Amount,
		SecurityDeposit:  d.SecurityDeposit,
		PaymentMethod:    d.PaymentMethod,
		PaymentFrequency: d.PaymentFrequency,
		SpecificRules:    d.SpecificRules,
		Insurance:        d.Insurance,
		AdditionalNotes:  d.AdditionalNotes,
		ContractFileURL:  contractURL,
		IdentityFileURL:  identityURL,
		Status:           string(initial),
	}

	created, err := cs.contractRepo.Create(ctx, nil, record)
	if err != nil {
		return nil, classifyStoreError(err)
	}

	cs.log.Info("contract created", "contract_id", created.ID, "tenant_id", created.TenantID, "property_id", created.PropertyID)
	return created, nil
}

// Send issues a contract offer directly from a lease relationship, without
// the full creation form. The record starts in pending_signature like any
// submitted draft.
func (cs *contractService) Send(ctx context.Context, in SendInput) (*domain.Contract, error) {
	errs := map[string]string{}
	if in.TenantID == uuid.Nil {
		errs[draft.FieldTenant] = "Le locataire est obligatoire"
	}
	if in.PropertyID == uuid.Nil {
		errs[draft.FieldProperty] = "La propriété est obligatoire"
	}
	if in.StartDate == nil {
		errs[draft.FieldStartDate] = "La date de début est obligatoire"
	}
	if in.MonthlyRent <= 0 {
		errs[draft.FieldAmount] = "Le montant est obligatoire"
	}
	if len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	if _, err := cs.tenantRepo.GetByID(ctx, nil, in.TenantID); err != nil {
		return nil, apierr.AsError(err)
	}
	if _, err := cs.propertyRepo.GetByID(ctx, nil, in.PropertyID); err != nil {
		return nil, apierr.AsError(err)
	}

	initial, err := lifecycle.Next(lifecycle.StateDraft, lifecycle.EventSubmit)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}

	record := &domain.Contract{
		TenantID:        in.TenantID,
		PropertyID:      in.PropertyID,
		ContractType:    domain.ContractTypeRental,
		StartDate:       *in.StartDate,
		EndDate:         in.EndDate,
		Amount:          in.MonthlyRent,
		SecurityDeposit: in.SecurityDeposit,
		Status:          string(initial),
	}

	created, err := cs.contractRepo.Create(ctx, nil, record)
	if err != nil {
		return nil, classifyStoreError(err)
	}

	cs.log.Info("contract sent", "contract_id", created.ID, "tenant_id", created.TenantID)
	return created, nil
}

func (cs *contractService) Get(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, apierr.AsError(err)
	}
	return contract, nil
}

func (cs *contractService) List(ctx context.Context, status string) ([]domain.Contract, error) {
	return cs.contractRepo.List(ctx, nil, status)
}

// TenantSign records the tenant's signature and the tenant-filled contract
// data on a sent contract. The signature data URL is stored verbatim.
func (cs *contractService) TenantSign(ctx context.Context, contractID uuid.UUID, in TenantSignInput) (*domain.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, apierr.AsError(err)
	}

	state, err := lifecycle.Parse(contract.Status)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}
	if _, err := lifecycle.Next(state, lifecycle.EventTenantSigned); err != nil {
		return nil, apierr.InvalidState(errors.New("ce contrat ne peut plus être signé"))
	}

	raw, err := signature.DecodeDataURL(in.Signature)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	}
	blank, err := signature.IsBlankPNG(raw)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	}
	if blank {
		return nil, apierr.BlankSignature()
	}

	signedAt := cs.nowFunc()
	if err := cs.contractRepo.SetTenantSignature(ctx, nil, contractID, contract.Status, in.Signature, in.ContractData, signedAt); err != nil {
		return nil, classifyStoreError(err)
	}

	cs.log.Info("contract signed by tenant", "contract_id", contractID)
	return cs.Get(ctx, contractID)
}

// Approve applies the owner's counter-signature. A blank surface is refused
// before anything is written; only a tenant-signed contract can be approved.
func (cs *contractService) Approve(ctx context.Context, contractID uuid.UUID, in ApproveInput) (*domain.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, apierr.AsError(err)
	}

	state, err := lifecycle.Parse(contract.Status)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}
	if _, err := lifecycle.Next(state, lifecycle.EventOwnerApproved); err != nil {
		return nil, apierr.InvalidState(errors.New("ce contrat n'est pas encore signé par le locataire"))
	}

	approvedAt := cs.nowFunc()
	dataURL, err := cs.renderOwnerSignature(in, approvedAt)
	if err != nil {
		return nil, err
	}

	if err := cs.contractRepo.SetOwnerSignature(ctx, nil, contractID, contract.Status, dataURL, approvedAt); err != nil {
		return nil, classifyStoreError(err)
	}

	cs.log.Info("contract approved", "contract_id", contractID)
	return cs.Get(ctx, contractID)
}

// renderOwnerSignature turns the approval payload into the stored data URL.
// Stroke payloads rasterize server side, captioned when a font is configured;
// data-URL payloads are stored verbatim once proven non-blank.
func (cs *contractService) renderOwnerSignature(in ApproveInput, approvedAt time.Time) (string, error) {
	if len(in.Strokes) > 0 {
		pad := signature.NewPad(in.Width, in.Height)
		for _, stroke := range in.Strokes {
			if len(stroke) == 0 {
				continue
			}
			pad.Begin(stroke[0].X, stroke[0].Y)
			for _, pt := range stroke[1:] {
				pad.Extend(pt.X, pt.Y)
			}
			pad.End()
		}
		if pad.IsBlank() {
			return "", apierr.BlankSignature()
		}

		if cs.annotator != nil {
			annotated, err := cs.annotator.Render(pad, in.SignerName, approvedAt)
			if err != nil {
				return "", apierr.Submission(err)
			}
			return signature.EncodeDataURL(annotated), nil
		}
		raw, err := signature.EncodePNG(pad)
		if err != nil {
			return "", apierr.Submission(err)
		}
		return signature.EncodeDataURL(raw), nil
	}

	// No strokes and no image: the owner never signed.
	if in.Signature == "" {
		return "", apierr.BlankSignature()
	}

	raw, err := signature.DecodeDataURL(in.Signature)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	}
	blank, err := signature.IsBlankPNG(raw)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, apierr.CodeValidation, err)
	}
	if blank {
		return "", apierr.BlankSignature()
	}
	return in.Signature, nil
}

// Reject terminates the workflow from any non-terminal state.
func (cs *contractService) Reject(ctx context.Context, contractID uuid.UUID) (*domain.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, apierr.AsError(err)
	}

	state, err := lifecycle.Parse(contract.Status)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}
	next, err := lifecycle.Next(state, lifecycle.EventReject)
	if err != nil {
		return nil, apierr.InvalidState(err)
	}

	if err := cs.contractRepo.UpdateStatus(ctx, nil, contractID, contract.Status, string(next)); err != nil {
		return nil, apierr.AsError(err)
	}

	cs.log.Info("contract rejected", "contract_id", contractID, "from", contract.Status)
	return cs.Get(ctx, contractID)
}

// ApprovalView assembles the read model of the approval screen. The tenant
// signature rides through untouched.
func (cs *contractService) ApprovalView(ctx context.Context, contractID uuid.UUID) (*ApprovalView, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, apierr.AsError(err)
	}

	view := &ApprovalView{
		ID:              contract.ID,
		Status:          contract.Status,
		ContractType:    contract.ContractType,
		StartDate:       contract.StartDate,
		EndDate:         contract.EndDate,
		MonthlyRent:     contract.Amount,
		SecurityDeposit: contract.SecurityDeposit,
		ContractData:    contract.ContractData,
		TenantSignature: contract.TenantSignature,
		SignedAt:        contract.SignedAt,
	}

	tenant, err := cs.tenantRepo.GetByID(ctx, nil, contract.TenantID)
	if err != nil {
		return nil, apierr.AsError(err)
	}
	view.TenantName = tenant.FullName
	view.TenantEmail = tenant.Email

	property, err := cs.propertyRepo.GetByID(ctx, nil, contract.PropertyID)
	if err != nil {
		return nil, apierr.AsError(err)
	}
	view.PropertyTitle = property.Title
	view.PropertyAddress = property.Address

	if contract.SignedAt != nil {
		view.SignedCaption = signature.Caption(tenant.FullName, *contract.SignedAt)
	}
	return view, nil
}

func (cs *contractService) storeIdentity(ctx context.Context, u *docs.Upload) (string, error) {
	if u == nil {
		return "", nil
	}
	normalized, err := cs.documents.NormalizeIdentityUpload(*u)
	if err != nil {
		return "", apierr.Submission(err)
	}
	url, err := cs.store.SaveUpload(ctx, storage.CategoryIdentity, normalized.Name, normalized.Data)
	if err != nil {
		return "", apierr.Transport(fmt.Errorf("store identity file: %w", err))
	}
	return url, nil
}

func (cs *contractService) storeContractPDF(ctx context.Context, u *docs.Upload) (string, error) {
	if u == nil {
		return "", nil
	}
	url, err := cs.store.SaveUpload(ctx, storage.CategoryContract, u.Name, u.Data)
	if err != nil {
		return "", apierr.Transport(fmt.Errorf("store contract file: %w", err))
	}
	return url, nil
}

// submitFingerprint hashes the fields that identify a submission, so two
// clicks on the same filled form share one guard key.
func submitFingerprint(d draft.ContractDraft) string {
	var start int64
	if d.StartDate != nil {
		start = d.StartDate.Unix()
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%d|%.2f",
		d.TenantID, d.PropertyID, d.ContractType, start, d.Amount))
	return hex.EncodeToString(sum[:])
}

func nilableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// classifyStoreError separates connectivity failures (retry) from store-side
// rejections (the draft stays editable, the lifecycle does not advance).
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierr.Transport(err)
	}
	return apierr.Submission(err)
}
