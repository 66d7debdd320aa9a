package storefront

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CoralRocker/Team73-Project3/internal/database"
	"github.com/CoralRocker/Team73-Project3/internal/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fixture bundles all engine services over one in-memory database.
type fixture struct {
	t          *testing.T
	db         *gorm.DB
	catalog    *Catalog
	carts      *Carts
	pricing    *Pricing
	settlement *Settlement
	analytics  *Analytics
	ctx        context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := zap.NewNop()
	return &fixture{
		t:          t,
		db:         db,
		catalog:    NewCatalog(db, log),
		carts:      NewCarts(db, log),
		pricing:    NewPricing(db),
		settlement: NewSettlement(db, log),
		analytics:  NewAnalytics(db),
		ctx:        context.Background(),
	}
}

func (f *fixture) inventory(name, unitCost string, stock, amountPerUnit float64) *models.InventoryItem {
	f.t.Helper()
	item, err := f.catalog.CreateInventoryItem(f.ctx, models.InventoryItem{
		Name:          name,
		UnitCost:      dec(unitCost),
		Stock:         stock,
		AmountPerUnit: amountPerUnit,
	})
	require.NoError(f.t, err)
	return item
}

func (f *fixture) menu(name, price, size, itemType string) *models.MenuItem {
	f.t.Helper()
	item, err := f.catalog.CreateMenuItem(f.ctx, models.MenuItem{
		Name:  name,
		Price: dec(price),
		Size:  size,
		Type:  itemType,
	})
	require.NoError(f.t, err)
	return item
}

func (f *fixture) ingredient(menuItem *models.MenuItem, inv *models.InventoryItem, amount float64) {
	f.t.Helper()
	require.NoError(f.t, f.catalog.AddIngredient(f.ctx, menuItem.ID, inv.ID, amount))
}

func (f *fixture) customization(name, category, cost string, inv *models.InventoryItem, draw float64) *models.Customization {
	f.t.Helper()
	cust, err := f.catalog.CreateCustomization(f.ctx, models.Customization{
		Name:            name,
		Category:        category,
		Cost:            dec(cost),
		InventoryItemID: inv.ID,
		DrawAmount:      draw,
	})
	require.NoError(f.t, err)
	return cust
}

// order opens a cart and attaches freshly created items for the given menu
// rows and quantities.
func (f *fixture) order(date time.Time, lines map[*models.MenuItem]int) *models.Order {
	f.t.Helper()
	order, err := f.carts.CreateOrder(f.ctx, "test cashier", date)
	require.NoError(f.t, err)
	for menuItem, qty := range lines {
		item, err := f.carts.CreateOrderItem(f.ctx, menuItem.ID, qty)
		require.NoError(f.t, err)
		_, err = f.carts.AttachOrderItem(f.ctx, item.ID, order.ID)
		require.NoError(f.t, err)
	}
	return order
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
