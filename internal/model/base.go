package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard audit trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"last_modified_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Audit user tracking
	CreatedBy      string `json:"created_by"`
	LastModifiedBy string `json:"last_modified_by"`
}

// Hook before create to generate a UUID when the caller did not supply one
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}
