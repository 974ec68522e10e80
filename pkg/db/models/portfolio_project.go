package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioProject is one published past event shown on the marketing
// site, grouped under the same categories as the rental catalog.
type PortfolioProject struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Description *string         `gorm:"column:description"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category    *RentalCategory `gorm:"foreignKey:CategoryID"`
	ImageURLs   []string        `gorm:"column:image_urls;type:jsonb;serializer:json"`
	EventDate   time.Time       `gorm:"column:event_date;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
