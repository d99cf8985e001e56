package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PayCash    PaymentMethod = "CASH"
	PayCard    PaymentMethod = "CARD"
	PayEWallet PaymentMethod = "E_WALLET"
)

// Sale is the durable record of one completed checkout. It is written
// once and never mutated; refunds and edits are out of scope.
type Sale struct {
	BaseModel
	SubtotalCents int64         `gorm:"not null" json:"subtotal_cents"`
	TaxCents      int64         `gorm:"not null" json:"tax_cents"`
	TotalCents    int64         `gorm:"not null" json:"total_cents"` // subtotal + tax
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=CASH CARD E_WALLET"`
	Lines         []SaleLine    `gorm:"foreignKey:SaleID" json:"lines,omitempty"`

	CreatedByUserID *string    `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *AdminUser `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// SaleLine is one product's contribution to a sale. The unit price is a
// snapshot taken at sale time; later catalog price changes must not alter
// historical sales.
type SaleLine struct {
	BaseModel
	SaleID         uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product        *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Quantity       int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	SubtotalCents  int64     `gorm:"not null" json:"subtotal_cents"`
}

// TableName keeps the storage name aligned with the sale_items entity.
func (SaleLine) TableName() string {
	return "sale_items"
}
