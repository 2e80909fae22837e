package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/styleswipe-backend/internal/domain/catalog"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"gorm.io/gorm"
)

type CartItem struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_line" json:"userId"`
	User      *user.User    `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	ItemID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_line" json:"itemId"`
	Item      *catalog.Item `gorm:"foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Size      string        `gorm:"not null;uniqueIndex:idx_cart_item_line" json:"size"`
	Color     string        `gorm:"not null;uniqueIndex:idx_cart_item_line" json:"color"`
	Quantity  int           `gorm:"not null" json:"quantity"`
	DateAdded time.Time     `gorm:"not null" json:"dateAdded"`
	UpdatedAt time.Time     `gorm:"not null" json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_item" }

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.DateAdded.IsZero() {
		c.DateAdded = time.Now().UTC()
	}
	return nil
}
