package model

// Branch is one business location or storefront.
type Branch struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Link string `gorm:"type:text" json:"link" validate:"omitempty,url"`
}
