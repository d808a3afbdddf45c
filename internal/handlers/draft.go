package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/contract/draft"
	"github.com/theophane330/habipro-backend/internal/pkg/apierr"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/services"
)

// Uploads above this size are refused at the handler.
const maxUploadBytes = 10 << 20

type DraftHandler struct {
	log          *logger.Logger
	draftService services.DraftService
}

func NewDraftHandler(log *logger.Logger, draftService services.DraftService) *DraftHandler {
	return &DraftHandler{
		log:          log.With("handler", "DraftHandler"),
		draftService: draftService,
	}
}

// POST /api/drafts
func (h *DraftHandler) Open(c *gin.Context) {
	view, err := h.draftService.Open(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, view)
}

// GET /api/drafts/:id
func (h *DraftHandler) Get(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.draftService.Get(c.Request.Context(), sessionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// PATCH /api/drafts/:id
func (h *DraftHandler) Update(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	var p draft.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	view, err := h.draftService.Update(c.Request.Context(), sessionID, p)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/drafts/:id/tenant
// An empty or absent identifier clears the selection.
func (h *DraftHandler) SelectTenant(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	tenantID, ok := selectionID(c, "tenant")
	if !ok {
		return
	}
	view, err := h.draftService.SelectTenant(c.Request.Context(), sessionID, tenantID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/drafts/:id/property
func (h *DraftHandler) SelectProperty(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	propertyID, ok := selectionID(c, "property")
	if !ok {
		return
	}
	view, err := h.draftService.SelectProperty(c.Request.Context(), sessionID, propertyID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/drafts/:id/identity (multipart, field "file")
func (h *DraftHandler) AttachIdentity(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	upload, err := readUpload(c, "file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	view, err := h.draftService.AttachIdentity(c.Request.Context(), sessionID, *upload)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// DELETE /api/drafts/:id/identity
func (h *DraftHandler) RemoveIdentity(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.draftService.RemoveIdentity(c.Request.Context(), sessionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/drafts/:id/contract-file (multipart, field "file")
func (h *DraftHandler) AttachContractFile(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	upload, err := readUpload(c, "file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	view, err := h.draftService.AttachContractPDF(c.Request.Context(), sessionID, *upload)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/drafts/:id/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	contract, err := h.draftService.Submit(c.Request.Context(), sessionID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondCreated(c, gin.H{"contract": contract})
}

// DELETE /api/drafts/:id
func (h *DraftHandler) Cancel(c *gin.Context) {
	sessionID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.draftService.Cancel(c.Request.Context(), sessionID); err != nil {
		RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func selectionID(c *gin.Context, field string) (uuid.UUID, bool) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return uuid.Nil, false
	}
	raw := strings.TrimSpace(body[field])
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid %s id: %w", field, err))
		return uuid.Nil, false
	}
	return id, true
}

func readUpload(c *gin.Context, field string) (*docs.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file field %q: %w", field, err)
	}
	return uploadFromHeader(fileHeader)
}

func uploadFromHeader(fileHeader *multipart.FileHeader) (*docs.Upload, error) {
	if fileHeader.Size > maxUploadBytes {
		return nil, errors.New("le fichier dépasse la taille maximale autorisée")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, errors.New("le fichier dépasse la taille maximale autorisée")
	}
	return &docs.Upload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
