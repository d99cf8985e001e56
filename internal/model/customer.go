package model

import "time"

// Customer is a back-office customer record tied to a branch.
type Customer struct {
	BaseModel
	Code            string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	BranchName      string    `gorm:"type:varchar(255)" json:"branch_name"`
	Contact         string    `gorm:"type:varchar(255)" json:"contact" validate:"omitempty,email"`
	JoinedAt        time.Time `json:"joined_at"`
	TotalOrders     int       `gorm:"not null;default:0" json:"total_orders"`
	LifetimeCents   int64     `gorm:"not null;default:0" json:"lifetime_cents"`
	DiscountPercent int       `gorm:"not null;default:0" json:"discount_percent" validate:"gte=0,lte=100"`
	Pages           string    `gorm:"type:text" json:"pages"` // comma-separated social links
}
