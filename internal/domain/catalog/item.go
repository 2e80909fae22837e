package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Stock maps size -> color -> quantity.
type Stock map[string]map[string]int

// Quantity returns the stocked quantity for a size/color pair.
func (s Stock) Quantity(size, color string) int {
	if s == nil {
		return 0
	}
	return s[size][color]
}

type Item struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string                      `gorm:"not null;column:name" json:"name"`
	Brand           string                      `gorm:"not null;index;column:brand" json:"brand"`
	Description     string                      `gorm:"column:description" json:"description"`
	Category        string                      `gorm:"not null;index;column:category" json:"category"`
	Subcategory     string                      `gorm:"column:subcategory" json:"subcategory"`
	Price           float64                     `gorm:"not null;index;column:price" json:"price"`
	AvailableSizes  datatypes.JSONSlice[string] `gorm:"column:available_sizes" json:"availableSizes"`
	AvailableColors datatypes.JSONSlice[string] `gorm:"column:available_colors" json:"availableColors"`
	Material        string                      `gorm:"column:material" json:"material"`
	Pattern         string                      `gorm:"column:pattern;index" json:"pattern"`
	Style           datatypes.JSONSlice[string] `gorm:"column:style" json:"style"`
	Occasion        datatypes.JSONSlice[string] `gorm:"column:occasion" json:"occasion"`
	Gender          string                      `gorm:"not null;index;column:gender" json:"gender"`
	Fit             string                      `gorm:"column:fit" json:"fit"`
	Images          datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Stock           datatypes.JSONType[Stock]   `gorm:"column:stock" json:"stock"`
	IsActive        bool                        `gorm:"not null;index;column:is_active" json:"isActive"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Item) TableName() string { return "item" }

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.AvailableSizes == nil {
		i.AvailableSizes = datatypes.JSONSlice[string]{}
	}
	if i.AvailableColors == nil {
		i.AvailableColors = datatypes.JSONSlice[string]{}
	}
	if i.Style == nil {
		i.Style = datatypes.JSONSlice[string]{}
	}
	if i.Occasion == nil {
		i.Occasion = datatypes.JSONSlice[string]{}
	}
	if i.Images == nil {
		i.Images = datatypes.JSONSlice[string]{}
	}
	if i.Stock.Data() == nil {
		i.Stock = datatypes.NewJSONType(Stock{})
	}
	return nil
}
