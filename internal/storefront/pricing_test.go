package storefront

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Latte Grande at $4.00 with 200g of milk at $0.01/g, plus vanilla syrup
// ($0.50, draws 10g at $0.02/g) applied twice: the second pump is free but
// still draws vanilla.
func TestLatteGrandePricing(t *testing.T) {
	f := newFixture(t)

	// Milk works out to $0.01/g, vanilla to $0.02/g.
	milk := f.inventory("Milk", "1.00", 10000, 100)
	vanilla := f.inventory("Vanilla", "2.00", 500, 100)

	latte := f.menu("Latte", "4.00", "grande", "coffee")
	f.ingredient(latte, milk, 200)

	syrup := f.customization("Vanilla Syrup", "syrup", "0.50", vanilla, 10)

	item, err := f.carts.CreateOrderItem(f.ctx, latte.ID, 1)
	require.NoError(t, err)

	cost, err := f.carts.AddCustomization(f.ctx, item.ID, syrup.ID, 2)
	require.NoError(t, err)
	requireDecimal(t, "4.50", cost)

	price, err := f.pricing.ItemPrice(f.ctx, item.ID)
	require.NoError(t, err)
	requireDecimal(t, "4.50", price)

	restock, err := f.pricing.ItemRestockCost(f.ctx, item.ID)
	require.NoError(t, err)
	requireDecimal(t, "2.40", restock)
}

func TestDedupBillsFirstPerCategory(t *testing.T) {
	f := newFixture(t)

	inv := f.inventory("Syrup Base", "1.00", 1000, 100)
	latte := f.menu("Latte", "3.00", "tall", "coffee")

	vanilla := f.customization("Vanilla", "syrup", "0.50", inv, 10)
	caramel := f.customization("Caramel", "syrup", "0.75", inv, 10)
	mocha := f.customization("Mocha Sauce", "sauce", "0.60", inv, 15)

	item, err := f.carts.CreateOrderItem(f.ctx, latte.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.AddCustomization(f.ctx, item.ID, vanilla.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddCustomization(f.ctx, item.ID, caramel.ID, 1)
	require.NoError(t, err)
	cost, err := f.carts.AddCustomization(f.ctx, item.ID, mocha.ID, 1)
	require.NoError(t, err)

	// First syrup (vanilla) billed, second syrup free; sauce is a separate
	// dedup category so its first is billed too.
	requireDecimal(t, "4.10", cost)
}

func TestNonDedupCategoriesChargePerDistinct(t *testing.T) {
	f := newFixture(t)

	inv := f.inventory("Extras", "1.00", 1000, 100)
	latte := f.menu("Latte", "3.00", "tall", "coffee")

	shot := f.customization("Extra Shot", "espresso", "1.00", inv, 20)
	whip := f.customization("Whipped Cream", "topping", "0.50", inv, 15)

	item, err := f.carts.CreateOrderItem(f.ctx, latte.ID, 1)
	require.NoError(t, err)

	// Multiplicity never multiplies the surcharge, only the draw.
	_, err = f.carts.AddCustomization(f.ctx, item.ID, shot.ID, 3)
	require.NoError(t, err)
	cost, err := f.carts.AddCustomization(f.ctx, item.ID, whip.ID, 1)
	require.NoError(t, err)
	requireDecimal(t, "4.50", cost)

	restock, err := f.pricing.ItemRestockCost(f.ctx, item.ID)
	require.NoError(t, err)
	// 3 × 20g + 15g = 75g at $0.01/g.
	requireDecimal(t, "0.75", restock)
}

func TestQuantityScalesPriceAndRestock(t *testing.T) {
	f := newFixture(t)

	milk := f.inventory("Milk", "1.00", 10000, 100)
	latte := f.menu("Latte", "4.00", "grande", "coffee")
	f.ingredient(latte, milk, 200)

	inv := f.inventory("Vanilla", "2.00", 500, 100)
	syrup := f.customization("Vanilla Syrup", "syrup", "0.50", inv, 10)

	item, err := f.carts.CreateOrderItem(f.ctx, latte.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddCustomization(f.ctx, item.ID, syrup.ID, 1)
	require.NoError(t, err)

	price, err := f.pricing.ItemPrice(f.ctx, item.ID)
	require.NoError(t, err)
	requireDecimal(t, "13.50", price)

	restock, err := f.pricing.ItemRestockCost(f.ctx, item.ID)
	require.NoError(t, err)
	// 3 × (200g milk at $0.01 + 10g vanilla at $0.02) = 3 × $2.20.
	requireDecimal(t, "6.60", restock)
}

func TestRepeatedAttachmentAddsMultiplicity(t *testing.T) {
	f := newFixture(t)

	inv := f.inventory("Vanilla", "2.00", 500, 100)
	latte := f.menu("Latte", "4.00", "grande", "coffee")
	syrup := f.customization("Vanilla Syrup", "syrup", "0.50", inv, 10)

	item, err := f.carts.CreateOrderItem(f.ctx, latte.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.AddCustomization(f.ctx, item.ID, syrup.ID, 1)
	require.NoError(t, err)
	cost, err := f.carts.AddCustomization(f.ctx, item.ID, syrup.ID, 2)
	require.NoError(t, err)

	// Still one row, still one billed pump.
	requireDecimal(t, "4.50", cost)

	loaded, err := loadOrderItem(f.db, item.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Customizations, 1)
	require.Equal(t, 3, loaded.Customizations[0].Multiplicity)

	restock, err := f.pricing.ItemRestockCost(f.ctx, item.ID)
	require.NoError(t, err)
	// 30g of vanilla at $0.02/g.
	requireDecimal(t, "0.60", restock)
}

func TestItemPriceUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.pricing.ItemPrice(f.ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)
}
