package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryUsage accumulates how much of one raw material was consumed on one
// day. Upserted additively at settlement, never decremented.
type InventoryUsage struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Date            time.Time `gorm:"type:date;uniqueIndex:idx_usage_day;not null"`
	InventoryItemID int64     `gorm:"uniqueIndex:idx_usage_day;not null"`
	Amount          float64   `gorm:"not null"`
}

// SalesPair counts same-order co-purchases of two logical products per day.
// Names are stored with NameA < NameB so (A,B) and (B,A) collapse to one row.
type SalesPair struct {
	ID     int64     `gorm:"primaryKey;autoIncrement"`
	Date   time.Time `gorm:"type:date;uniqueIndex:idx_pair_day;not null"`
	NameA  string    `gorm:"size:255;uniqueIndex:idx_pair_day;not null"`
	NameB  string    `gorm:"size:255;uniqueIndex:idx_pair_day;not null"`
	Amount int       `gorm:"not null"`
}

// Finance is the cached per-day revenue/expense rollup maintained at
// settlement.
type Finance struct {
	Date     time.Time       `gorm:"type:date;primaryKey"`
	Revenue  decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Expenses decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Profit   decimal.Decimal `gorm:"type:decimal(11,2);not null"`
}
