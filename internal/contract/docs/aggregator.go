// Package docs merges document references originating from different source
// entities into display-ready groups for the contract creation screen.
package docs

import (
	"github.com/theophane330/habipro-backend/internal/domain"
)

type Origin string

const (
	OriginTenant   Origin = "tenant"
	OriginProperty Origin = "property"
	OriginUpload   Origin = "upload"
)

// DocumentRef is a read projection over a stored document. It is never
// persisted by the engine. Category, SizeLabel and Pages are only set for
// property documents, which carry that metadata.
type DocumentRef struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Origin    Origin `json:"origin"`
	Category  string `json:"category,omitempty"`
	SizeLabel string `json:"size_label,omitempty"`
	Pages     int    `json:"pages,omitempty"`
}

// Upload is a user-supplied file held in the draft session until submission.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Aggregator keeps the two auto-loaded document groups plus the single-slot
// identity upload. Groups are always non-nil slices so rendering never
// branches on container presence.
type Aggregator struct {
	tenantDocs   []DocumentRef
	propertyDocs []DocumentRef
	identity     *Upload
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		tenantDocs:   []DocumentRef{},
		propertyDocs: []DocumentRef{},
	}
}

// SetTenantDocs replaces the tenant group wholesale. Passing nil clears it;
// entries from a previous selection never accumulate.
func (a *Aggregator) SetTenantDocs(refs []DocumentRef) {
	if refs == nil {
		refs = []DocumentRef{}
	}
	a.tenantDocs = refs
}

func (a *Aggregator) SetPropertyDocs(refs []DocumentRef) {
	if refs == nil {
		refs = []DocumentRef{}
	}
	a.propertyDocs = refs
}

func (a *Aggregator) TenantDocs() []DocumentRef   { return a.tenantDocs }
func (a *Aggregator) PropertyDocs() []DocumentRef { return a.propertyDocs }

// AttachIdentity stores the identity-document upload. The slot holds at most
// one file: a new file replaces the previous one entirely. This is deliberate
// and distinct from the unrestricted contract-PDF slot.
func (a *Aggregator) AttachIdentity(u Upload) {
	a.identity = &u
}

func (a *Aggregator) ClearIdentity() {
	a.identity = nil
}

// Identity returns the uploaded identity document, if any.
func (a *Aggregator) Identity() (Upload, bool) {
	if a.identity == nil {
		return Upload{}, false
	}
	return *a.identity, true
}

// All merges both groups and the identity slot into one list, tenant docs
// first, in group order.
func (a *Aggregator) All() []DocumentRef {
	out := make([]DocumentRef, 0, len(a.tenantDocs)+len(a.propertyDocs)+1)
	out = append(out, a.tenantDocs...)
	out = append(out, a.propertyDocs...)
	if a.identity != nil {
		out = append(out, DocumentRef{Name: a.identity.Name, Origin: OriginUpload})
	}
	return out
}

// TenantRefs projects the non-empty document fields of a tenant record into
// tenant-tagged references.
func TenantRefs(t domain.Tenant) []DocumentRef {
	refs := []DocumentRef{}
	if t.IDDocumentURL != "" {
		refs = append(refs, DocumentRef{
			Name:   "Document d'identité du locataire",
			URL:    t.IDDocumentURL,
			Origin: OriginTenant,
		})
	}
	if t.SignedContractURL != "" {
		refs = append(refs, DocumentRef{
			Name:   "Contrat signé du locataire",
			URL:    t.SignedContractURL,
			Origin: OriginTenant,
		})
	}
	return refs
}

// PropertyRefs projects a property's attached document list into
// property-tagged references.
func PropertyRefs(docs []domain.PropertyDocument) []DocumentRef {
	refs := []DocumentRef{}
	for _, d := range docs {
		name := d.Title
		if name == "" {
			name = "Document de la propriété"
		}
		refs = append(refs, DocumentRef{
			Name:      name,
			URL:       d.FileURL,
			Origin:    OriginProperty,
			Category:  d.Category,
			SizeLabel: d.SizeLabel,
			Pages:     d.Pages,
		})
	}
	return refs
}
