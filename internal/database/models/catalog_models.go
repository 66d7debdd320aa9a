package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a raw material tracked in grams. UnitCost is the restock
// price of one purchase unit; AmountPerUnit is how many grams that unit holds.
type InventoryItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"size:255;not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Stock         float64         `gorm:"not null"`
	Ordered       float64         `gorm:"not null;default:0"`
	AmountPerUnit float64         `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MenuItem is a sellable drink. Rows sharing a Name are size variants of one
// logical product.
type MenuItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:255;not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Size        string          `gorm:"size:50;not null"`
	Type        string          `gorm:"size:100;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Recipe []RecipeIngredient `gorm:"foreignKey:MenuItemID"`
}

// RecipeIngredient links a MenuItem to one raw material draw. At most one row
// per (menu item, inventory item); re-adding replaces the amount.
type RecipeIngredient struct {
	ID              int64   `gorm:"primaryKey;autoIncrement"`
	MenuItemID      int64   `gorm:"uniqueIndex:idx_recipe_pair;not null"`
	InventoryItemID int64   `gorm:"uniqueIndex:idx_recipe_pair;not null"`
	Amount          float64 `gorm:"not null"`

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}

// Customization is a named add-on drawing from exactly one raw material.
type Customization struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Name            string          `gorm:"size:255;not null"`
	Category        string          `gorm:"size:50;not null;index"`
	Cost            decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	InventoryItemID int64           `gorm:"not null"`
	DrawAmount      float64         `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}
