package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order starts life as an open cart and becomes immutable once Finalized.
// Price is fixed at settlement time.
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Cashier   string          `gorm:"size:100"`
	Date      time.Time       `gorm:"type:date;index;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(11,2);not null;default:0"`
	Finalized bool            `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one drink line. OrderID stays nil while the item is still being
// configured; attaching it to an order is required before checkout.
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	OrderID    *int64          `gorm:"index"`
	MenuItemID int64           `gorm:"not null"`
	Quantity   int             `gorm:"not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	MenuItem       *MenuItem           `gorm:"foreignKey:MenuItemID"`
	Customizations []ItemCustomization `gorm:"foreignKey:OrderItemID"`
}

// ItemCustomization holds the multiplicity of one customization on one item.
// The unique pair constraint makes repeated attachment additive.
type ItemCustomization struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	OrderItemID     int64 `gorm:"uniqueIndex:idx_item_cust_pair;not null"`
	CustomizationID int64 `gorm:"uniqueIndex:idx_item_cust_pair;not null"`
	Multiplicity    int   `gorm:"not null"`

	Customization *Customization `gorm:"foreignKey:CustomizationID"`
}
