package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

// Carts is the mutable shopping session: open orders and the items being
// configured for them. Every operation takes explicit ids; session lifecycle
// belongs to the caller.
type Carts struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCarts(db *gorm.DB, log *zap.Logger) *Carts {
	return &Carts{db: db, log: log}
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// guardMutable loads an order item and rejects the mutation when its order has
// already been finalized.
func guardMutable(tx *gorm.DB, itemID int64) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, asNotFound(err, "order item", itemID)
	}
	if item.OrderID != nil {
		var order models.Order
		if err := tx.First(&order, *item.OrderID).Error; err != nil {
			return nil, asNotFound(err, "order", *item.OrderID)
		}
		if order.Finalized {
			return nil, fmt.Errorf("order %d: %w", order.ID, ErrAlreadyFinalized)
		}
	}
	return &item, nil
}

// CreateOrder opens an empty cart for the given cashier and date.
func (c *Carts) CreateOrder(ctx context.Context, cashier string, date time.Time) (*models.Order, error) {
	order := models.Order{
		Cashier: cashier,
		Date:    dateOnly(date),
		Price:   decimal.Zero,
	}
	if err := c.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches an order with its items, menu rows and customizations.
func (c *Carts) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := c.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.id")
		}).
		Preload("Items.MenuItem").
		Preload("Items.Customizations", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("item_customizations.id")
		}).
		Preload("Items.Customizations.Customization").
		First(&order, orderID).Error
	if err != nil {
		return nil, asNotFound(err, "order", orderID)
	}
	return &order, nil
}

// CreateOrderItem starts configuring one drink line, unattached to any order.
// A zero quantity defaults to 1; the cost is pre-computed from the menu price
// alone.
func (c *Carts) CreateOrderItem(ctx context.Context, menuItemID int64, quantity int) (*models.OrderItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidArgument)
	}

	var menu models.MenuItem
	if err := c.db.WithContext(ctx).First(&menu, menuItemID).Error; err != nil {
		return nil, asNotFound(err, "menu item", menuItemID)
	}

	item := models.OrderItem{
		MenuItemID: menuItemID,
		Quantity:   quantity,
		Cost:       menu.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	if err := c.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ReassignOrderItem switches an item to another menu row (a size change) and
// quantity, recomputing its cost.
func (c *Carts) ReassignOrderItem(ctx context.Context, itemID, menuItemID int64, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidArgument)
	}

	var cost decimal.Decimal
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guardMutable(tx, itemID); err != nil {
			return err
		}
		if err := tx.First(&models.MenuItem{}, menuItemID).Error; err != nil {
			return asNotFound(err, "menu item", menuItemID)
		}

		err := tx.Model(&models.OrderItem{}).
			Where("id = ?", itemID).
			Updates(map[string]interface{}{
				"menu_item_id": menuItemID,
				"quantity":     quantity,
			}).Error
		if err != nil {
			return err
		}

		cost, err = recomputeItemCost(tx, itemID)
		return err
	})
	return cost, err
}

// AttachOrderItem binds a configured item to an open order. Required before
// checkout.
func (c *Carts) AttachOrderItem(ctx context.Context, itemID, orderID int64) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guardMutable(tx, itemID); err != nil {
			return err
		}

		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return asNotFound(err, "order", orderID)
		}
		if order.Finalized {
			return fmt.Errorf("order %d: %w", orderID, ErrAlreadyFinalized)
		}

		err := tx.Model(&models.OrderItem{}).
			Where("id = ?", itemID).
			UpdateColumn("order_id", orderID).Error
		if err != nil {
			return err
		}

		cost, err = recomputeItemCost(tx, itemID)
		return err
	})
	return cost, err
}

// AddCustomization applies a customization to an item. If the pair already
// exists the multiplicities add on the existing row; the unique constraint
// keeps it to one row per pair. Returns the recomputed item cost.
func (c *Carts) AddCustomization(ctx context.Context, itemID, customizationID int64, multiplicity int) (decimal.Decimal, error) {
	if multiplicity <= 0 {
		return decimal.Zero, fmt.Errorf("multiplicity %d: %w", multiplicity, ErrInvalidArgument)
	}

	var cost decimal.Decimal
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guardMutable(tx, itemID); err != nil {
			return err
		}
		if err := tx.First(&models.Customization{}, customizationID).Error; err != nil {
			return asNotFound(err, "customization", customizationID)
		}

		ic := models.ItemCustomization{
			OrderItemID:     itemID,
			CustomizationID: customizationID,
			Multiplicity:    multiplicity,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_item_id"}, {Name: "customization_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"multiplicity": gorm.Expr("item_customizations.multiplicity + excluded.multiplicity"),
			}),
		}).Create(&ic).Error
		if err != nil {
			return err
		}

		cost, err = recomputeItemCost(tx, itemID)
		return err
	})
	return cost, err
}

// RemoveOrderItem deletes an item and its customizations.
func (c *Carts) RemoveOrderItem(ctx context.Context, itemID int64) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guardMutable(tx, itemID); err != nil {
			return err
		}
		if err := tx.Where("order_item_id = ?", itemID).Delete(&models.ItemCustomization{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OrderItem{}, itemID).Error
	})
}
