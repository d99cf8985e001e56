package model

// Offering is a service the business sells, e.g. a consultation package.
// Named Offering to avoid clashing with the service layer.
type Offering struct {
	BaseModel
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
}
