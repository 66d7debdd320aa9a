package storefront

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

func TestCreateInventoryItemValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.CreateInventoryItem(f.ctx, models.InventoryItem{
		Name: "Milk", UnitCost: dec("1.00"), Stock: 100, AmountPerUnit: 0,
	})
	require.ErrorIs(t, err, ErrDivisionHazard)

	_, err = f.catalog.CreateInventoryItem(f.ctx, models.InventoryItem{
		Name: "Milk", UnitCost: dec("1.00"), Stock: 100, AmountPerUnit: -5,
	})
	require.ErrorIs(t, err, ErrDivisionHazard)

	_, err = f.catalog.CreateInventoryItem(f.ctx, models.InventoryItem{
		Name: "Milk", UnitCost: dec("-1.00"), Stock: 100, AmountPerUnit: 100,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.catalog.CreateInventoryItem(f.ctx, models.InventoryItem{
		Name: "Milk", UnitCost: dec("1.00"), Stock: -1, AmountPerUnit: 100,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateMenuItemValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.CreateMenuItem(f.ctx, models.MenuItem{Price: dec("4.00"), Size: "tall"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.catalog.CreateMenuItem(f.ctx, models.MenuItem{Name: "Latte", Price: dec("4.00")})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.catalog.CreateMenuItem(f.ctx, models.MenuItem{Name: "Latte", Size: "tall", Price: dec("-1")})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddIngredientReplacesAmount(t *testing.T) {
	f := newFixture(t)

	milk := f.inventory("Milk", "1.00", 1000, 100)
	latte := f.menu("Latte", "4.00", "grande", "coffee")

	require.NoError(t, f.catalog.AddIngredient(f.ctx, latte.ID, milk.ID, 150))
	require.NoError(t, f.catalog.AddIngredient(f.ctx, latte.ID, milk.ID, 200))

	got, err := f.catalog.GetMenuItem(f.ctx, latte.ID)
	require.NoError(t, err)
	require.Len(t, got.Recipe, 1)
	require.InDelta(t, 200, got.Recipe[0].Amount, 1e-9)

	require.ErrorIs(t, f.catalog.AddIngredient(f.ctx, latte.ID, milk.ID, 0), ErrInvalidArgument)
	require.ErrorIs(t, f.catalog.AddIngredient(f.ctx, latte.ID, 999, 100), ErrNotFound)
	require.ErrorIs(t, f.catalog.AddIngredient(f.ctx, 999, milk.ID, 100), ErrNotFound)
}

func TestListMenuFilters(t *testing.T) {
	f := newFixture(t)

	f.menu("Latte", "3.50", "tall", "coffee")
	f.menu("Latte", "4.00", "grande", "coffee")
	f.menu("Chai", "3.00", "grande", "tea")

	all, err := f.catalog.ListMenu(f.ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	coffee, err := f.catalog.ListMenu(f.ctx, "Coffee", "")
	require.NoError(t, err)
	require.Len(t, coffee, 2)

	grandeTea, err := f.catalog.ListMenu(f.ctx, "TEA", "Grande")
	require.NoError(t, err)
	require.Len(t, grandeTea, 1)
	require.Equal(t, "Chai", grandeTea[0].Name)
}

func TestSizeVariants(t *testing.T) {
	f := newFixture(t)

	f.menu("Latte", "3.50", "tall", "coffee")
	f.menu("Latte", "4.00", "grande", "coffee")
	f.menu("Chai", "3.00", "grande", "tea")

	variants, err := f.catalog.SizeVariants(f.ctx, "Latte")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	require.Equal(t, "tall", variants[0].Size)
	require.Equal(t, "grande", variants[1].Size)
}

func TestSearchMenuCaseInsensitive(t *testing.T) {
	f := newFixture(t)

	f.menu("Caramel Latte", "4.50", "grande", "coffee")
	chai, err := f.catalog.CreateMenuItem(f.ctx, models.MenuItem{
		Name: "Chai", Description: "Spiced black tea with steamed milk",
		Price: dec("3.00"), Size: "grande", Type: "tea",
	})
	require.NoError(t, err)

	byName, err := f.catalog.SearchMenu(f.ctx, "CARAMEL")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	byDescription, err := f.catalog.SearchMenu(f.ctx, "steamed")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	require.Equal(t, chai.ID, byDescription[0].ID)

	none, err := f.catalog.SearchMenu(f.ctx, "espresso")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestCreateCustomizationValidation(t *testing.T) {
	f := newFixture(t)

	inv := f.inventory("Vanilla", "2.00", 500, 100)

	_, err := f.catalog.CreateCustomization(f.ctx, models.Customization{
		Name: "Vanilla Syrup", Category: "syrup", Cost: dec("0.50"),
		InventoryItemID: inv.ID, DrawAmount: 0,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.catalog.CreateCustomization(f.ctx, models.Customization{
		Name: "Vanilla Syrup", Category: "syrup", Cost: dec("-0.50"),
		InventoryItemID: inv.ID, DrawAmount: 10,
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.catalog.CreateCustomization(f.ctx, models.Customization{
		Name: "Vanilla Syrup", Category: "syrup", Cost: dec("0.50"),
		InventoryItemID: 999, DrawAmount: 10,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCustomizationsByCategory(t *testing.T) {
	f := newFixture(t)

	inv := f.inventory("Base", "1.00", 1000, 100)
	f.customization("Vanilla", "syrup", "0.50", inv, 10)
	f.customization("Caramel", "syrup", "0.75", inv, 10)
	f.customization("Whip", "topping", "0.50", inv, 15)

	all, err := f.catalog.ListCustomizations(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	syrups, err := f.catalog.ListCustomizations(f.ctx, "Syrup")
	require.NoError(t, err)
	require.Len(t, syrups, 2)
}

func TestReplaceInventory(t *testing.T) {
	f := newFixture(t)

	f.inventory("Old Milk", "1.00", 100, 100)

	seed := []models.InventoryItem{
		{ID: 10, Name: "Milk", UnitCost: dec("1.00"), Stock: 1000, AmountPerUnit: 100},
		{ID: 11, Name: "Cocoa", UnitCost: dec("3.00"), Stock: 500, AmountPerUnit: 100},
	}
	require.NoError(t, f.catalog.ReplaceInventory(f.ctx, seed, false))

	items, err := f.catalog.ListInventory(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Appending keeps the existing rows.
	extra := []models.InventoryItem{
		{ID: 12, Name: "Vanilla", UnitCost: dec("2.00"), Stock: 250, AmountPerUnit: 100},
	}
	require.NoError(t, f.catalog.ReplaceInventory(f.ctx, extra, true))

	items, err = f.catalog.ListInventory(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Bad rows reject the whole batch.
	bad := []models.InventoryItem{
		{ID: 13, Name: "Broken", UnitCost: dec("1.00"), Stock: 10, AmountPerUnit: 0},
	}
	require.ErrorIs(t, f.catalog.ReplaceInventory(f.ctx, bad, true), ErrDivisionHazard)
}

func TestCreateAfterSeedAllocatesFreshID(t *testing.T) {
	f := newFixture(t)

	seed := []models.InventoryItem{
		{ID: 10, Name: "Milk", UnitCost: dec("1.00"), Stock: 1000, AmountPerUnit: 100},
		{ID: 11, Name: "Cocoa", UnitCost: dec("3.00"), Stock: 500, AmountPerUnit: 100},
	}
	require.NoError(t, f.catalog.ReplaceInventory(f.ctx, seed, false))

	// The explicit seed ids must not be handed out again.
	created := f.inventory("Vanilla", "2.00", 250, 100)
	require.Greater(t, created.ID, int64(11))
}

func TestReplaceMenuWithRecipes(t *testing.T) {
	f := newFixture(t)

	milk := f.inventory("Milk", "1.00", 1000, 100)

	seeds := []MenuSeed{
		{
			Item:        models.MenuItem{Name: "Latte", Price: dec("4.00"), Size: "grande", Type: "coffee"},
			Ingredients: []IngredientDraw{{InventoryItemID: milk.ID, Amount: 200}},
		},
		{
			Item: models.MenuItem{Name: "Americano", Price: dec("2.50"), Size: "grande", Type: "coffee"},
		},
	}
	require.NoError(t, f.catalog.ReplaceMenu(f.ctx, seeds, false))

	items, err := f.catalog.ListMenu(f.ctx, "", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Len(t, items[0].Recipe, 1)
	require.InDelta(t, 200, items[0].Recipe[0].Amount, 1e-9)
	require.Empty(t, items[1].Recipe)
}
