package storefront

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

// Analytics serves the read-only reports over settled orders and the daily
// aggregates written at checkout.
type Analytics struct {
	db *gorm.DB
}

func NewAnalytics(db *gorm.DB) *Analytics {
	return &Analytics{db: db}
}

// FinanceSummary totals the daily finance rows over a window.
type FinanceSummary struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// UsageRow is one inventory item's total consumption in a window.
type UsageRow struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
}

// SalesRow is one menu row's sold-item count, zero included.
type SalesRow struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Size       string `json:"size"`
	Count      int64  `json:"count"`
}

// ExcessRow reports how much of an item's supply a window consumed.
type ExcessRow struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Used            float64 `json:"used"`
	Stock           float64 `json:"stock"`
	PercentUsage    float64 `json:"percent_usage"`
}

// RestockRow is an inventory item running low, measured in restock units.
type RestockRow struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Stock           float64 `json:"stock"`
	AmountPerUnit   float64 `json:"amount_per_unit"`
	UnitsRemaining  float64 `json:"units_remaining"`
}

// PairRow is a co-purchase total for two distinct product names.
type PairRow struct {
	NameA  string `json:"name_a"`
	NameB  string `json:"name_b"`
	Amount int64  `json:"amount"`
}

// FinanceReport sums revenue, expenses and profit over the window. An empty
// window reports zeros.
func (a *Analytics) FinanceReport(ctx context.Context, from, to time.Time) (*FinanceSummary, error) {
	from, to = dateOnly(from), dateOnly(to)

	var rows []models.Finance
	err := a.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sum := FinanceSummary{
		From:     from,
		To:       to,
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
		Profit:   decimal.Zero,
	}
	for _, r := range rows {
		sum.Revenue = sum.Revenue.Add(r.Revenue)
		sum.Expenses = sum.Expenses.Add(r.Expenses)
		sum.Profit = sum.Profit.Add(r.Profit)
	}
	return &sum, nil
}

// UsageReport totals consumption per inventory item over the window. Items
// with no usage rows in range are omitted.
func (a *Analytics) UsageReport(ctx context.Context, from, to time.Time) ([]UsageRow, error) {
	var rows []UsageRow
	err := a.db.WithContext(ctx).
		Model(&models.InventoryUsage{}).
		Select("inventory_usages.inventory_item_id, inventory_items.name, SUM(inventory_usages.amount) AS amount").
		Joins("JOIN inventory_items ON inventory_items.id = inventory_usages.inventory_item_id").
		Where("inventory_usages.date BETWEEN ? AND ?", dateOnly(from), dateOnly(to)).
		Group("inventory_usages.inventory_item_id, inventory_items.name").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}

// SalesByItem counts settled order items per menu row over the window. Every
// menu row appears, zero-sale rows included, sorted by count descending.
func (a *Analytics) SalesByItem(ctx context.Context, from, to time.Time) ([]SalesRow, error) {
	counted := a.db.
		Model(&models.OrderItem{}).
		Select("order_items.menu_item_id, COUNT(order_items.id) AS count").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.finalized AND orders.date BETWEEN ? AND ?", dateOnly(from), dateOnly(to)).
		Group("order_items.menu_item_id")

	var rows []SalesRow
	err := a.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Select("menu_items.id AS menu_item_id, menu_items.name, menu_items.size, COALESCE(sold.count, 0) AS count").
		Joins("LEFT JOIN (?) AS sold ON sold.menu_item_id = menu_items.id", counted).
		Order("count DESC, menu_items.name, menu_items.size").
		Scan(&rows).Error
	return rows, err
}

// ExcessStock lists items whose window consumption stayed at or below pct of
// their supply, where supply is usage plus what remains on the shelf.
func (a *Analytics) ExcessStock(ctx context.Context, from, to time.Time, pct float64) ([]ExcessRow, error) {
	if pct <= 0 || pct >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0, 1): %w", pct, ErrInvalidArgument)
	}

	used, err := a.UsageReport(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]ExcessRow, 0, len(used))
	for _, u := range used {
		var item models.InventoryItem
		if err := a.db.WithContext(ctx).First(&item, u.InventoryItemID).Error; err != nil {
			return nil, err
		}
		supply := u.Amount + item.Stock
		if supply == 0 {
			continue
		}
		share := u.Amount / supply
		if share <= pct {
			rows = append(rows, ExcessRow{
				InventoryItemID: u.InventoryItemID,
				Name:            u.Name,
				Used:            u.Amount,
				Stock:           item.Stock,
				PercentUsage:    share,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PercentUsage > rows[j].PercentUsage
	})
	return rows, nil
}

// RestockReport lists items with fewer than minUnits restock units on the
// shelf.
func (a *Analytics) RestockReport(ctx context.Context, minUnits float64) ([]RestockRow, error) {
	if minUnits <= 0 {
		return nil, fmt.Errorf("min units %v: %w", minUnits, ErrInvalidArgument)
	}

	var items []models.InventoryItem
	err := a.db.WithContext(ctx).
		Where("stock / amount_per_unit < ?", minUnits).
		Order("stock / amount_per_unit").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	rows := make([]RestockRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, RestockRow{
			InventoryItemID: item.ID,
			Name:            item.Name,
			Stock:           item.Stock,
			AmountPerUnit:   item.AmountPerUnit,
			UnitsRemaining:  item.Stock / item.AmountPerUnit,
		})
	}
	return rows, nil
}

// FrequentPairs sums the co-purchase counters across the window, collapsing
// individual days, sorted by total descending and cut to limit.
func (a *Analytics) FrequentPairs(ctx context.Context, from, to time.Time, limit int) ([]PairRow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidArgument)
	}

	var rows []PairRow
	err := a.db.WithContext(ctx).
		Model(&models.SalesPair{}).
		Select("name_a, name_b, SUM(amount) AS amount").
		Where("date BETWEEN ? AND ?", dateOnly(from), dateOnly(to)).
		Group("name_a, name_b").
		Order("amount DESC, name_a, name_b").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
