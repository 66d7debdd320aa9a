package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

// Catalog owns the static reference data: raw materials, sellable drinks with
// their recipes, and the customization list.
type Catalog struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCatalog(db *gorm.DB, log *zap.Logger) *Catalog {
	return &Catalog{db: db, log: log}
}

// IngredientDraw is one (inventory item, amount) recipe pair used by the bulk
// seeding path.
type IngredientDraw struct {
	InventoryItemID int64
	Amount          float64
}

// MenuSeed pairs a menu row with its recipe for bulk seeding.
type MenuSeed struct {
	Item        models.MenuItem
	Ingredients []IngredientDraw
}

func asNotFound(err error, what string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

func validateInventoryItem(item *models.InventoryItem) error {
	if item.AmountPerUnit <= 0 {
		return fmt.Errorf("inventory item %q: %w", item.Name, ErrDivisionHazard)
	}
	if item.UnitCost.IsNegative() {
		return fmt.Errorf("inventory item %q: negative unit cost: %w", item.Name, ErrInvalidArgument)
	}
	if item.Stock < 0 {
		return fmt.Errorf("inventory item %q: negative stock: %w", item.Name, ErrInvalidArgument)
	}
	return nil
}

// -- Inventory --

func (c *Catalog) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	if err := validateInventoryItem(&item); err != nil {
		return nil, err
	}
	if err := c.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Catalog) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, asNotFound(err, "inventory item", id)
	}
	return &item, nil
}

func (c *Catalog) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// -- Menu --

func (c *Catalog) CreateMenuItem(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	if item.Name == "" || item.Size == "" {
		return nil, fmt.Errorf("menu item needs a name and a size: %w", ErrInvalidArgument)
	}
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("menu item %q: negative price: %w", item.Name, ErrInvalidArgument)
	}
	if err := c.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Catalog) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := c.db.WithContext(ctx).
		Preload("Recipe.InventoryItem").
		First(&item, id).Error
	if err != nil {
		return nil, asNotFound(err, "menu item", id)
	}
	return &item, nil
}

// AddIngredient binds a raw material draw to a menu item's recipe. Re-adding
// the same ingredient replaces the amount instead of duplicating the pair.
func (c *Catalog) AddIngredient(ctx context.Context, menuItemID, inventoryItemID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("ingredient amount %v: %w", amount, ErrInvalidArgument)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.MenuItem{}, menuItemID).Error; err != nil {
			return asNotFound(err, "menu item", menuItemID)
		}
		if err := tx.First(&models.InventoryItem{}, inventoryItemID).Error; err != nil {
			return asNotFound(err, "inventory item", inventoryItemID)
		}

		ing := models.RecipeIngredient{
			MenuItemID:      menuItemID,
			InventoryItemID: inventoryItemID,
			Amount:          amount,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "menu_item_id"}, {Name: "inventory_item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"amount": amount}),
		}).Create(&ing).Error
	})
}

// ListMenu returns menu rows filtered by type and size; empty filters match
// everything.
func (c *Catalog) ListMenu(ctx context.Context, itemType, size string) ([]models.MenuItem, error) {
	query := c.db.WithContext(ctx).Preload("Recipe.InventoryItem").Order("id")
	if itemType != "" {
		query = query.Where("lower(type) = lower(?)", itemType)
	}
	if size != "" {
		query = query.Where("lower(size) = lower(?)", size)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SizeVariants lists every row sharing the given logical product name.
func (c *Catalog) SizeVariants(ctx context.Context, name string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := c.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SearchMenu matches the query against drink names and descriptions,
// case-insensitively.
func (c *Catalog) SearchMenu(ctx context.Context, q string) ([]models.MenuItem, error) {
	pattern := "%" + strings.ToLower(q) + "%"

	var items []models.MenuItem
	err := c.db.WithContext(ctx).
		Where("lower(name) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// -- Customizations --

func (c *Catalog) CreateCustomization(ctx context.Context, cust models.Customization) (*models.Customization, error) {
	if cust.DrawAmount <= 0 {
		return nil, fmt.Errorf("customization %q: draw amount %v: %w", cust.Name, cust.DrawAmount, ErrInvalidArgument)
	}
	if cust.Cost.IsNegative() {
		return nil, fmt.Errorf("customization %q: negative cost: %w", cust.Name, ErrInvalidArgument)
	}
	if err := c.db.WithContext(ctx).First(&models.InventoryItem{}, cust.InventoryItemID).Error; err != nil {
		return nil, asNotFound(err, "inventory item", cust.InventoryItemID)
	}
	if err := c.db.WithContext(ctx).Create(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Catalog) GetCustomization(ctx context.Context, id int64) (*models.Customization, error) {
	var cust models.Customization
	err := c.db.WithContext(ctx).Preload("InventoryItem").First(&cust, id).Error
	if err != nil {
		return nil, asNotFound(err, "customization", id)
	}
	return &cust, nil
}

func (c *Catalog) ListCustomizations(ctx context.Context, category string) ([]models.Customization, error) {
	query := c.db.WithContext(ctx).Order("id")
	if category != "" {
		query = query.Where("lower(category) = lower(?)", category)
	}

	var custs []models.Customization
	if err := query.Find(&custs).Error; err != nil {
		return nil, err
	}
	return custs, nil
}

// -- Bulk seeding --

// ReplaceInventory loads the inventory table from seed data, wiping existing
// rows first unless append is set. Used by the catalog-seeding tool.
func (c *Catalog) ReplaceInventory(ctx context.Context, items []models.InventoryItem, appendOnly bool) error {
	for i := range items {
		if err := validateInventoryItem(&items[i]); err != nil {
			return err
		}
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !appendOnly {
			if err := tx.Where("1 = 1").Delete(&models.InventoryItem{}).Error; err != nil {
				return err
			}
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		// Seed rows carry explicit ids, which postgres identity sequences do
		// not track. Advance the sequence so later creates do not collide.
		if tx.Dialector.Name() == "postgres" {
			return tx.Exec(
				"SELECT setval(pg_get_serial_sequence('inventory_items', 'id'), (SELECT COALESCE(MAX(id), 1) FROM inventory_items))",
			).Error
		}
		return nil
	})
}

func (c *Catalog) ReplaceMenu(ctx context.Context, seeds []MenuSeed, appendOnly bool) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !appendOnly {
			if err := tx.Where("1 = 1").Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
		}

		for _, seed := range seeds {
			item := seed.Item
			if item.Name == "" || item.Size == "" {
				return fmt.Errorf("menu item needs a name and a size: %w", ErrInvalidArgument)
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			for _, draw := range seed.Ingredients {
				if draw.Amount <= 0 {
					return fmt.Errorf("menu item %q: ingredient amount %v: %w", item.Name, draw.Amount, ErrInvalidArgument)
				}
				if err := tx.First(&models.InventoryItem{}, draw.InventoryItemID).Error; err != nil {
					return asNotFound(err, "inventory item", draw.InventoryItemID)
				}
				ing := models.RecipeIngredient{
					MenuItemID:      item.ID,
					InventoryItemID: draw.InventoryItemID,
					Amount:          draw.Amount,
				}
				if err := tx.Create(&ing).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (c *Catalog) ReplaceCustomizations(ctx context.Context, custs []models.Customization, appendOnly bool) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !appendOnly {
			if err := tx.Where("1 = 1").Delete(&models.Customization{}).Error; err != nil {
				return err
			}
		}

		for i := range custs {
			if custs[i].DrawAmount <= 0 {
				return fmt.Errorf("customization %q: draw amount %v: %w", custs[i].Name, custs[i].DrawAmount, ErrInvalidArgument)
			}
			if err := tx.First(&models.InventoryItem{}, custs[i].InventoryItemID).Error; err != nil {
				return asNotFound(err, "inventory item", custs[i].InventoryItemID)
			}
			if err := tx.Create(&custs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
