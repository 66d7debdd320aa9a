package storefront

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

// dedupCategories are the "one billable pump-type per drink" categories: only
// the first customization attached in one of these is charged, every further
// one (including repeats of the same customization) is an included extra.
var dedupCategories = map[string]bool{
	"syrup": true,
	"sauce": true,
	"foam":  true,
}

// Pricing computes customer prices and restock costs from catalog and cart
// state. Recomputing a price persists the item's cached cost; it never touches
// stock.
type Pricing struct {
	db *gorm.DB
}

func NewPricing(db *gorm.DB) *Pricing {
	return &Pricing{db: db}
}

// loadOrderItem fetches an order item with everything pricing needs: the menu
// row with its recipe, and the customizations in attachment order.
func loadOrderItem(db *gorm.DB, id int64) (*models.OrderItem, error) {
	var item models.OrderItem
	err := db.
		Preload("MenuItem.Recipe.InventoryItem").
		Preload("Customizations", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("item_customizations.id")
		}).
		Preload("Customizations.Customization.InventoryItem").
		First(&item, id).Error
	if err != nil {
		return nil, asNotFound(err, "order item", id)
	}
	return &item, nil
}

// customizationSurcharge sums customization costs under the category dedup
// rule. Iteration order is attachment order, which decides who is "first" in
// a deduped category.
func customizationSurcharge(custs []models.ItemCustomization) decimal.Decimal {
	surcharge := decimal.Zero
	billed := make(map[string]bool)

	for _, ic := range custs {
		if ic.Customization == nil {
			continue
		}
		category := strings.ToLower(ic.Customization.Category)
		if dedupCategories[category] {
			if billed[category] {
				continue
			}
			billed[category] = true
		}
		surcharge = surcharge.Add(ic.Customization.Cost)
	}
	return surcharge
}

// priceOf is the customer price of a loaded order item: quantity × (menu price
// + surcharge).
func priceOf(item *models.OrderItem) decimal.Decimal {
	price := decimal.Zero
	if item.MenuItem != nil {
		price = item.MenuItem.Price
	}
	price = price.Add(customizationSurcharge(item.Customizations))
	return price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// restockCostOf is the raw-material cost to replace what a loaded order item
// consumes: recipe draws plus customization draws scaled by multiplicity, all
// scaled by quantity.
func restockCostOf(item *models.OrderItem) decimal.Decimal {
	total := decimal.Zero

	if item.MenuItem != nil {
		for _, ing := range item.MenuItem.Recipe {
			inv := ing.InventoryItem
			if inv == nil || inv.AmountPerUnit <= 0 {
				continue
			}
			total = total.Add(inv.UnitCost.Mul(decimal.NewFromFloat(ing.Amount / inv.AmountPerUnit)))
		}
	}

	for _, ic := range item.Customizations {
		cust := ic.Customization
		if cust == nil || cust.InventoryItem == nil {
			continue
		}
		inv := cust.InventoryItem
		if inv.AmountPerUnit <= 0 {
			continue
		}
		draw := cust.DrawAmount * float64(ic.Multiplicity)
		total = total.Add(inv.UnitCost.Mul(decimal.NewFromFloat(draw / inv.AmountPerUnit)))
	}

	return total.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
}

// ItemPrice recomputes and persists the cached cost of one order item, and
// returns it.
func (p *Pricing) ItemPrice(ctx context.Context, orderItemID int64) (decimal.Decimal, error) {
	return recomputeItemCost(p.db.WithContext(ctx), orderItemID)
}

func recomputeItemCost(db *gorm.DB, orderItemID int64) (decimal.Decimal, error) {
	item, err := loadOrderItem(db, orderItemID)
	if err != nil {
		return decimal.Zero, err
	}

	cost := priceOf(item)
	err = db.Model(&models.OrderItem{}).
		Where("id = ?", orderItemID).
		UpdateColumn("cost", cost).Error
	if err != nil {
		return decimal.Zero, err
	}
	return cost, nil
}

// ItemRestockCost computes the business's raw-material cost for one order
// item. Read-only.
func (p *Pricing) ItemRestockCost(ctx context.Context, orderItemID int64) (decimal.Decimal, error) {
	item, err := loadOrderItem(p.db.WithContext(ctx), orderItemID)
	if err != nil {
		return decimal.Zero, err
	}
	return restockCostOf(item), nil
}
