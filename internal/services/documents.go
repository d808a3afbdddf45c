package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/jpeg"
	"image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/theophane330/habipro-backend/internal/contract/docs"
	"github.com/theophane330/habipro-backend/internal/data/repos"
	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// DocumentService builds the labeled document groups behind a resolved
// selection and prepares identity uploads for storage. It satisfies
// cascade.DocumentFetcher.
type DocumentService interface {
	TenantDocuments(ctx context.Context, tenantID uuid.UUID) ([]docs.DocumentRef, error)
	PropertyDocuments(ctx context.Context, propertyID uuid.UUID) ([]docs.DocumentRef, error)
	NormalizeIdentityUpload(u docs.Upload) (docs.Upload, error)
}

type documentService struct {
	log          *logger.Logger
	tenantRepo   repos.TenantRepo
	propertyRepo repos.PropertyRepo
}

func NewDocumentService(log *logger.Logger, tenantRepo repos.TenantRepo, propertyRepo repos.PropertyRepo) DocumentService {
	return &documentService{
		log:          log.With("service", "DocumentService"),
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
	}
}

func (ds *documentService) TenantDocuments(ctx context.Context, tenantID uuid.UUID) ([]docs.DocumentRef, error) {
	tenant, err := ds.tenantRepo.GetByID(ctx, nil, tenantID)
	if err != nil {
		return nil, err
	}
	return docs.TenantRefs(*tenant), nil
}

func (ds *documentService) PropertyDocuments(ctx context.Context, propertyID uuid.UUID) ([]docs.DocumentRef, error) {
	propertyDocs, err := ds.propertyRepo.ListDocuments(ctx, nil, propertyID)
	if err != nil {
		return nil, err
	}
	return docs.PropertyRefs(propertyDocs), nil
}

// Identity scans larger than this get downscaled before storage.
const maxIdentityEdge = 1600

// NormalizeIdentityUpload re-encodes oversized identity images (PNG/JPEG) to
// a bounded size. PDFs and already-small images pass through untouched.
func (ds *documentService) NormalizeIdentityUpload(u docs.Upload) (docs.Upload, error) {
	if !isImageUpload(u) {
		return u, nil
	}

	img, _, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return docs.Upload{}, fmt.Errorf("decode identity image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxIdentityEdge && h <= maxIdentityEdge {
		return u, nil
	}

	scale := float64(maxIdentityEdge) / float64(w)
	if h > w {
		scale = float64(maxIdentityEdge) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return docs.Upload{}, fmt.Errorf("encode identity image: %w", err)
	}

	ds.log.Debug("identity image downscaled", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", dw, dh))
	return docs.Upload{
		Name:        pngName(u.Name),
		ContentType: "image/png",
		Data:        out.Bytes(),
	}, nil
}

func isImageUpload(u docs.Upload) bool {
	switch strings.ToLower(u.ContentType) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	}
	return false
}

func pngName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		name = "identity"
	}
	return name + ".png"
}
