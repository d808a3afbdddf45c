package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title   string    `gorm:"not null;column:title" json:"title"`
	Address string    `gorm:"not null;column:address" json:"address"`
	Type    string    `gorm:"column:type" json:"type"`

	// Surface in square meters.
	Surface float64 `gorm:"column:surface" json:"surface"`
	Rooms   int     `gorm:"column:rooms" json:"rooms"`

	Documents []PropertyDocument `gorm:"foreignKey:PropertyID" json:"documents,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Property) TableName() string { return "property" }

// PropertyDocument is a file attached to a property (title deed, floor plan,
// inventory report). The aggregator projects these into the property group.
type PropertyDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index;column:property_id" json:"property_id"`
	Title      string    `gorm:"not null;column:title" json:"title"`
	FileURL    string    `gorm:"not null;column:file_url" json:"file_url"`
	Category   string    `gorm:"column:category" json:"category"`
	SizeLabel  string    `gorm:"column:size_label" json:"size_label"`
	Pages      int       `gorm:"column:pages;default:1" json:"pages"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PropertyDocument) TableName() string { return "property_document" }
