package model

// Bank is a reference entity transactions point to. Banks are never hard
// deleted; deletion flips IsActive off.
type Bank struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

func (Bank) TableName() string {
	return "banks"
}
