package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/airbear/airbear-backend/pkg/types"
)

// BodegaItem is a product sold alongside rides.
type BodegaItem struct {
	ID            uuid.UUID     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string        `gorm:"column:name;not null" json:"name"`
	Description   *string       `gorm:"column:description" json:"description,omitempty"`
	Price         types.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	ImageURL      *string       `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Category      string        `gorm:"column:category;not null;index" json:"category"`
	IsEcoFriendly bool          `gorm:"column:is_eco_friendly;not null" json:"isEcoFriendly"`
	IsAvailable   bool          `gorm:"column:is_available;not null" json:"isAvailable"`
	Stock         int           `gorm:"column:stock;not null" json:"stock"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
