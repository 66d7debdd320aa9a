package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CoralRocker/Team73-Project3/internal/database"
	"github.com/CoralRocker/Team73-Project3/internal/storefront"
)

func newCatalogTestServer(t *testing.T) (*gin.Engine, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log := zap.NewNop()
	h := NewCatalogHandler(storefront.NewCatalog(db, log), client, time.Minute, log)

	r := gin.New()
	r.POST("/inventory", h.CreateInventoryItem)
	r.POST("/menu", h.CreateMenuItem)
	r.GET("/menu", h.ListMenu)
	return r, client
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogWritesInvalidateCaches(t *testing.T) {
	r, client := newCatalogTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, MENU_CACHE_KEY, "[]", 0).Err())
	require.NoError(t, client.Set(ctx, REPORT_CACHE_PREFIX+"sales:from=2023-01-01", "[]", 0).Err())
	require.NoError(t, client.Set(ctx, REPORT_CACHE_PREFIX+"restock:min_units=1", "[]", 0).Err())

	w := postJSON(t, r, "/menu", `{"name":"Latte","price":"4.00","size":"grande","type":"coffee"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// A new menu item must surface in the zero-sale report rows, so the
	// cached reports have to go along with the menu listing.
	require.ErrorIs(t, client.Get(ctx, MENU_CACHE_KEY).Err(), redis.Nil)
	require.ErrorIs(t, client.Get(ctx, REPORT_CACHE_PREFIX+"sales:from=2023-01-01").Err(), redis.Nil)
	require.ErrorIs(t, client.Get(ctx, REPORT_CACHE_PREFIX+"restock:min_units=1").Err(), redis.Nil)
}

func TestInventoryWriteInvalidatesReportCache(t *testing.T) {
	r, client := newCatalogTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, REPORT_CACHE_PREFIX+"restock:min_units=1", "[]", 0).Err())

	w := postJSON(t, r, "/inventory", `{"name":"Milk","unit_cost":"1.00","stock":1000,"amount_per_unit":100}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.ErrorIs(t, client.Get(ctx, REPORT_CACHE_PREFIX+"restock:min_units=1").Err(), redis.Nil)
}

func TestRejectedWriteLeavesCacheAlone(t *testing.T) {
	r, client := newCatalogTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, MENU_CACHE_KEY, "[]", 0).Err())

	w := postJSON(t, r, "/menu", `{"name":"Latte","price":"-1.00","size":"grande","type":"coffee"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, client.Get(ctx, MENU_CACHE_KEY).Err())
}
