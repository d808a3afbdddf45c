package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/services"
)

type CatalogHandler struct {
	log             *logger.Logger
	catalogService  services.CatalogService
	documentService services.DocumentService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService, documentService services.DocumentService) *CatalogHandler {
	return &CatalogHandler{
		log:             log.With("handler", "CatalogHandler"),
		catalogService:  catalogService,
		documentService: documentService,
	}
}

// GET /api/tenants
func (h *CatalogHandler) ListTenants(c *gin.Context) {
	tenants, err := h.catalogService.ListTenants(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"tenants": tenants})
}

// GET /api/properties
func (h *CatalogHandler) ListProperties(c *gin.Context) {
	properties, err := h.catalogService.ListProperties(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"properties": properties})
}

// GET /api/leases
func (h *CatalogHandler) ListLeases(c *gin.Context) {
	leases, err := h.catalogService.ListLeases(c.Request.Context())
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"leases": leases})
}

// GET /api/tenants/:id/documents
func (h *CatalogHandler) TenantDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	documents, err := h.documentService.TenantDocuments(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": documents})
}

// GET /api/properties/:id/documents
func (h *CatalogHandler) PropertyDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	documents, err := h.documentService.PropertyDocuments(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": documents})
}
