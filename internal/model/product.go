package model

type Product struct {
	BaseModel
	SKU        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category   string `gorm:"type:varchar(100)" json:"category"`
	PriceCents int64  `gorm:"not null;default:0" json:"price_cents" validate:"gte=0"`
	StockQty   int    `gorm:"not null;default:0" json:"stock_qty"`
	ImageURL   string `gorm:"type:text" json:"image_url" validate:"omitempty,url"`
	Active     bool   `gorm:"not null;default:true" json:"active"`
}
