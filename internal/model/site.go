package model

// Site is a construction site transactions can be scoped to. Soft
// deactivated like Bank, never removed.
type Site struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`
}

func (Site) TableName() string {
	return "sites"
}
