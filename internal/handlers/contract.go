package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/services"
)

const dateLayout = "2006-01-02"

type ContractHandler struct {
	log             *logger.Logger
	contractService services.ContractService
}

func NewContractHandler(log *logger.Logger, contractService services.ContractService) *ContractHandler {
	return &ContractHandler{
		log:             log.With("handler", "ContractHandler"),
		contractService: contractService,
	}
}

// POST /api/contracts (multipart)
// Direct submission without a server-side draft session: all form fields in
// one request, files under "contract_file" and "identity_document".
func (h *ContractHandler) Create(c *gin.Context) {
	d, fieldErrs, err := draftFromForm(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	if len(fieldErrs) > 0 {
		RespondAPIError(c, apierr.Validation(fieldErrs))
		return
	}

	in := services.CreateInput{Draft: d}
	if fh, err := c.FormFile("contract_file"); err == nil {
		upload, uerr := uploadFromHeader(fh)
		if uerr != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, uerr)
			return
		}
		in.ContractPDF = upload
	}
	if fh, err := c.FormFile("identity_document"); err == nil {
		upload, uerr := uploadFromHeader(fh)
		if uerr != nil {
			RespondError(c, http.StatusBadRequest, apierr.CodeValidation, uerr)
			return
		}
		in.Identity = upload
	}

	contract, err := h.contractService.Create(c.Request.Context(), in)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"contract": contract})
}

// GET /api/contracts?status=
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contractService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"contracts": contracts})
}

// GET /api/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contractID, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.contractService.Get(c.Request.Context(), contractID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

type sendRequest struct {
	Tenant          string  `json:"tenant_user"`
	Property        string  `json:"property"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	MonthlyRent     float64 `json:"monthly_rent"`
	SecurityDeposit string  `json:"security_deposit"`
}

// POST /api/contracts/send
func (h *ContractHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}

	in := services.SendInput{
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
	}
	fieldErrs := map[string]string{}
	if id, err := parseOptionalID(req.Tenant); err != nil {
		fieldErrs[draft.FieldTenant] = "Identifiant de locataire invalide"
	} else {
		in.TenantID = id
	}
	if id, err := parseOptionalID(req.Property); err != nil {
		fieldErrs[draft.FieldProperty] = "Identifiant de propriété invalide"
	} else {
		in.PropertyID = id
	}
	if t, err := parseOptionalDate(req.StartDate); err != nil {
		fieldErrs[draft.FieldStartDate] = "La date de début est invalide"
	} else {
		in.StartDate = t
	}
	if t, err := parseOptionalDate(req.EndDate); err != nil {
		fieldErrs["end_date"] = "La date de fin est invalide"
	} else {
		in.EndDate = t
	}
	if len(fieldErrs) > 0 {
		RespondAPIError(c, apierr.Validation(fieldErrs))
		return
	}

	contract, err := h.contractService.Send(c.Request.Context(), in)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"contract": contract})
}

type tenantSignRequest struct {
	Signature    string         `json:"signature"`
	ContractData datatypes.JSON `json:"contract_data"`
}

// POST /api/contracts/:id/sign
func (h *ContractHandler) TenantSign(c *gin.Context) {
	contractID, ok := pathID(c)
	if !ok {
		return
	}
	var req tenantSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	contract, err := h.contractService.TenantSign(c.Request.Context(), contractID, services.TenantSignInput{
		Signature:    req.Signature,
		ContractData: req.ContractData,
	})
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

// POST /api/contracts/:id/approve
func (h *ContractHandler) Approve(c *gin.Context) {
	contractID, ok := pathID(c)
	if !ok {
		return
	}
	var req services.ApproveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	contract, err := h.contractService.Approve(c.Request.Context(), contractID, req)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

// POST /api/contracts/:id/reject
func (h *ContractHandler) Reject(c *gin.Context) {
	contractID, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.contractService.Reject(c.Request.Context(), contractID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

// GET /api/contracts/:id/approval
func (h *ContractHandler) ApprovalView(c *gin.Context) {
	contractID, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.contractService.ApprovalView(c.Request.Context(), contractID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// draftFromForm maps the multipart field names of the creation form onto a
// draft. Malformed values become per-field messages; the required-field
// check itself belongs to the service.
func draftFromForm(c *gin.Context) (draft.ContractDraft, map[string]string, error) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		return draft.ContractDraft{}, nil, fmt.Errorf("parse form: %w", err)
	}

	d := draft.New()
	fieldErrs := map[string]string{}

	if id, err := parseOptionalID(c.PostForm("tenant")); err != nil {
		fieldErrs[draft.FieldTenant] = "Identifiant de locataire invalide"
	} else {
		d.TenantID = id
	}
	if id, err := parseOptionalID(c.PostForm("property")); err != nil {
		fieldErrs[draft.FieldProperty] = "Identifiant de propriété invalide"
	} else {
		d.PropertyID = id
	}
	if id, err := parseOptionalID(c.PostForm("location")); err != nil {
		fieldErrs["location"] = "Identifiant de bail invalide"
	} else {
		d.LeaseID = id
	}

	d.ContractType = c.PostForm("contract_type")
	d.Purpose = c.PostForm("contract_purpose")

	if t, err := parseOptionalDate(c.PostForm("start_date")); err != nil {
		fieldErrs[draft.FieldStartDate] = "La date de début est invalide"
	} else {
		d.StartDate = t
	}
	if t, err := parseOptionalDate(c.PostForm("end_date")); err != nil {
		fieldErrs["end_date"] = "La date de fin est invalide"
	} else {
		d.EndDate = t
	}

	if raw := strings.TrimSpace(c.PostForm("amount")); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrs[draft.FieldAmount] = "Le montant est invalide"
		} else {
			d.Amount = amount
		}
	}

	d.SecurityDeposit = c.PostForm("security_deposit")
	d.PaymentMethod = c.PostForm("payment_method")
	d.PaymentFrequency = c.PostForm("payment_frequency")
	d.SpecificRules = c.PostForm("specific_rules")
	d.Insurance = c.PostForm("insurance")
	d.AdditionalNotes = c.PostForm("additional_notes")

	return d, fieldErrs, nil
}

func parseOptionalID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
