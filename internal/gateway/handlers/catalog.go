package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/CoralRocker/Team73-Project3/internal/database/models"
	"github.com/CoralRocker/Team73-Project3/internal/storefront"
)

type CatalogHandler struct {
	catalog  *storefront.Catalog
	redis    *redis.Client
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCatalogHandler(catalog *storefront.Catalog, redisClient *redis.Client, cacheTTL time.Duration, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Request structs
type CreateInventoryItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost" binding:"required"`
	Stock         float64         `json:"stock"`
	AmountPerUnit float64         `json:"amount_per_unit" binding:"required"`
}

type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Size        string          `json:"size" binding:"required"`
	Type        string          `json:"type" binding:"required"`
}

type AddIngredientRequest struct {
	InventoryItemID int64   `json:"inventory_item_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"required"`
}

type CreateCustomizationRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	Cost            decimal.Decimal `json:"cost"`
	InventoryItemID int64           `json:"inventory_item_id" binding:"required"`
	DrawAmount      float64         `json:"draw_amount" binding:"required"`
}

// invalidateCaches drops the menu listing and every cached report. Reports
// depend on catalog rows too: a new menu item must show up as a zero-sale row
// without waiting out the TTL.
func (h *CatalogHandler) invalidateCaches(ctx context.Context) {
	_ = h.redis.Del(ctx, MENU_CACHE_KEY)
	if keys, err := h.redis.Keys(ctx, REPORT_CACHE_PREFIX+"*").Result(); err == nil && len(keys) > 0 {
		_ = h.redis.Del(ctx, keys...)
	}
}

// --- Inventory Handlers ---

func (h *CatalogHandler) CreateInventoryItem(c *gin.Context) {
	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item, err := h.catalog.CreateInventoryItem(c.Request.Context(), models.InventoryItem{
		Name:          req.Name,
		UnitCost:      req.UnitCost,
		Stock:         req.Stock,
		AmountPerUnit: req.AmountPerUnit,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateCaches(c.Request.Context())
	c.JSON(http.StatusCreated, successResponse("Inventory item created successfully", item))
}

func (h *CatalogHandler) GetInventoryItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid inventory item ID"))
		return
	}

	item, err := h.catalog.GetInventoryItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Inventory item retrieved successfully", item))
}

func (h *CatalogHandler) ListInventory(c *gin.Context) {
	items, err := h.catalog.ListInventory(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Inventory retrieved successfully", items, gin.H{"count": len(items)}))
}

// --- Menu Handlers ---

func (h *CatalogHandler) CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item, err := h.catalog.CreateMenuItem(c.Request.Context(), models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Size:        req.Size,
		Type:        req.Type,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateCaches(c.Request.Context())
	c.JSON(http.StatusCreated, successResponse("Menu item created successfully", item))
}

func (h *CatalogHandler) GetMenuItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid menu item ID"))
		return
	}

	item, err := h.catalog.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Menu item retrieved successfully", item))
}

// ListMenu serves the menu listing, caching the unfiltered variant in redis.
func (h *CatalogHandler) ListMenu(c *gin.Context) {
	itemType := c.Query("type")
	size := c.Query("size")
	ctx := c.Request.Context()

	cacheable := itemType == "" && size == ""
	if cacheable {
		if val, err := h.redis.Get(ctx, MENU_CACHE_KEY).Result(); err == nil {
			var items []models.MenuItem
			if err := json.Unmarshal([]byte(val), &items); err == nil {
				c.JSON(http.StatusOK, successWithMetaResponse("Menu retrieved successfully", items, gin.H{"count": len(items)}))
				return
			}
		}
	}

	items, err := h.catalog.ListMenu(ctx, itemType, size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if cacheable {
		if data, err := json.Marshal(items); err == nil {
			if err := h.redis.Set(ctx, MENU_CACHE_KEY, data, h.cacheTTL).Err(); err != nil {
				h.log.Warn("menu cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Menu retrieved successfully", items, gin.H{"count": len(items)}))
}

func (h *CatalogHandler) SizeVariants(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Menu item name required"))
		return
	}

	items, err := h.catalog.SizeVariants(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Size variants retrieved successfully", items))
}

func (h *CatalogHandler) SearchMenu(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Search term required"))
		return
	}

	items, err := h.catalog.SearchMenu(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Search completed successfully", items, gin.H{"count": len(items)}))
}

func (h *CatalogHandler) AddIngredient(c *gin.Context) {
	menuItemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid menu item ID"))
		return
	}

	var req AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if err := h.catalog.AddIngredient(c.Request.Context(), menuItemID, req.InventoryItemID, req.Amount); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.invalidateCaches(c.Request.Context())
	c.JSON(http.StatusOK, successResponse("Ingredient added successfully", nil))
}

// --- Customization Handlers ---

func (h *CatalogHandler) CreateCustomization(c *gin.Context) {
	var req CreateCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	cust, err := h.catalog.CreateCustomization(c.Request.Context(), models.Customization{
		Name:            req.Name,
		Category:        req.Category,
		Cost:            req.Cost,
		InventoryItemID: req.InventoryItemID,
		DrawAmount:      req.DrawAmount,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Customization created successfully", cust))
}

func (h *CatalogHandler) GetCustomization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid customization ID"))
		return
	}

	cust, err := h.catalog.GetCustomization(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Customization retrieved successfully", cust))
}

func (h *CatalogHandler) ListCustomizations(c *gin.Context) {
	custs, err := h.catalog.ListCustomizations(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Customizations retrieved successfully", custs, gin.H{"count": len(custs)}))
}
