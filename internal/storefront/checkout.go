package storefront

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

const settleRetries = 3

// Settlement finalizes orders: one serializable transaction that freezes the
// total, draws inventory, and feeds the daily aggregates.
type Settlement struct {
	db  *gorm.DB
	log *zap.Logger

	// run performs one settlement attempt. Indirection so tests can observe
	// the retry loop.
	run func(ctx context.Context, orderID int64) (*models.Order, error)
}

func NewSettlement(db *gorm.DB, log *zap.Logger) *Settlement {
	s := &Settlement{db: db, log: log}
	s.run = s.settleOnce
	return s
}

// Settle finalizes the order exactly once. Serialization failures are retried
// a few times before surfacing as ErrConflict.
func (s *Settlement) Settle(ctx context.Context, orderID int64) (*models.Order, error) {
	var order *models.Order
	var err error
	for attempt := 1; attempt <= settleRetries; attempt++ {
		order, err = s.run(ctx, orderID)
		if !errors.Is(err, ErrConflict) {
			return order, err
		}
		s.log.Warn("settlement conflict, retrying",
			zap.Int64("order_id", orderID),
			zap.Int("attempt", attempt))
	}
	return nil, err
}

func (s *Settlement) settleOnce(ctx context.Context, orderID int64) (*models.Order, error) {
	var settled models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the order first. Zero rows means it is either gone or
		// already finalized; a second look tells us which.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND NOT finalized", orderID).
			UpdateColumn("finalized", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var order models.Order
			if err := tx.First(&order, orderID).Error; err != nil {
				return asNotFound(err, "order", orderID)
			}
			return fmt.Errorf("order %d: %w", orderID, ErrAlreadyFinalized)
		}

		var order models.Order
		if err := tx.
			Preload("Items", func(q *gorm.DB) *gorm.DB {
				return q.Order("order_items.id")
			}).
			First(&order, orderID).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return fmt.Errorf("order %d: %w", orderID, ErrEmptyOrder)
		}

		day := dateOnly(order.Date)
		total := decimal.Zero
		expenses := decimal.Zero
		usage := map[int64]float64{}
		names := map[string]bool{}

		for i := range order.Items {
			item, err := loadOrderItem(tx, order.Items[i].ID)
			if err != nil {
				return err
			}

			cost := priceOf(item)
			if err := tx.Model(&models.OrderItem{}).
				Where("id = ?", item.ID).
				UpdateColumn("cost", cost).Error; err != nil {
				return err
			}
			total = total.Add(cost)
			expenses = expenses.Add(restockCostOf(item))

			qty := float64(item.Quantity)
			for _, ing := range item.MenuItem.Recipe {
				usage[ing.InventoryItemID] += ing.Amount * qty
			}
			for _, ic := range item.Customizations {
				usage[ic.Customization.InventoryItemID] += ic.Customization.DrawAmount * float64(ic.Multiplicity) * qty
			}
			names[item.MenuItem.Name] = true
		}

		invIDs := make([]int64, 0, len(usage))
		for id := range usage {
			invIDs = append(invIDs, id)
		}
		sort.Slice(invIDs, func(i, j int) bool { return invIDs[i] < invIDs[j] })

		for _, id := range invIDs {
			amount := usage[id]
			row := models.InventoryUsage{
				Date:            day,
				InventoryItemID: id,
				Amount:          amount,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "date"}, {Name: "inventory_item_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"amount": gorm.Expr("inventory_usages.amount + excluded.amount"),
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}

			if err := tx.Model(&models.InventoryItem{}).
				Where("id = ?", id).
				UpdateColumn("stock", gorm.Expr("stock - ?", amount)).Error; err != nil {
				return err
			}
		}

		if err := upsertPairs(tx, day, names); err != nil {
			return err
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			UpdateColumn("price", total).Error; err != nil {
			return err
		}

		fin := models.Finance{
			Date:     day,
			Revenue:  total,
			Expenses: expenses,
			Profit:   total.Sub(expenses),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"revenue":  gorm.Expr("finances.revenue + excluded.revenue"),
				"expenses": gorm.Expr("finances.expenses + excluded.expenses"),
				"profit":   gorm.Expr("finances.profit + excluded.profit"),
			}),
		}).Create(&fin).Error
		if err != nil {
			return err
		}

		return tx.First(&settled, orderID).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrConflict)
		}
		return nil, err
	}
	return &settled, nil
}

// upsertPairs bumps the co-purchase counter for every unordered pair of
// distinct menu item names in the order. Quantities do not matter here; each
// checkout counts a pair once.
func upsertPairs(tx *gorm.DB, day time.Time, names map[string]bool) error {
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pair := models.SalesPair{
				Date:   day,
				NameA:  sorted[i],
				NameB:  sorted[j],
				Amount: 1,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "date"}, {Name: "name_a"}, {Name: "name_b"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"amount": gorm.Expr("sales_pairs.amount + excluded.amount"),
				}),
			}).Create(&pair).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// isConflict recognizes postgres serialization failures and deadlocks, which
// are safe to retry.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
