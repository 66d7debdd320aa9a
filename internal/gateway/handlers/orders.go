package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/CoralRocker/Team73-Project3/internal/storefront"
)

type OrderHandler struct {
	carts      *storefront.Carts
	pricing    *storefront.Pricing
	settlement *storefront.Settlement
	redis      *redis.Client
	log        *zap.Logger
}

func NewOrderHandler(carts *storefront.Carts, pricing *storefront.Pricing, settlement *storefront.Settlement, redisClient *redis.Client, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		carts:      carts,
		pricing:    pricing,
		settlement: settlement,
		redis:      redisClient,
		log:        log,
	}
}

// Request structs
type CreateOrderRequest struct {
	Cashier string `json:"cashier" binding:"required"`
	Date    string `json:"date"`
}

type CreateOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity"`
}

type ReassignOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,min=1"`
}

type AttachOrderItemRequest struct {
	OrderID int64 `json:"order_id" binding:"required"`
}

type AddCustomizationRequest struct {
	CustomizationID int64 `json:"customization_id" binding:"required"`
	Multiplicity    int   `json:"multiplicity"`
}

// --- Order Handlers ---

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	order, err := h.carts.CreateOrder(c.Request.Context(), req.Cashier, date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order created successfully", order))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	order, err := h.carts.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", order))
}

// Checkout finalizes the order and drops the cached reports, which are stale
// the moment a settlement lands.
func (h *OrderHandler) Checkout(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	ctx := c.Request.Context()
	order, err := h.settlement.Settle(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if keys, err := h.redis.Keys(ctx, REPORT_CACHE_PREFIX+"*").Result(); err == nil && len(keys) > 0 {
		_ = h.redis.Del(ctx, keys...)
	}

	c.JSON(http.StatusOK, successResponse("Order checked out successfully", order))
}

// --- Order Item Handlers ---

func (h *OrderHandler) CreateOrderItem(c *gin.Context) {
	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item, err := h.carts.CreateOrderItem(c.Request.Context(), req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order item created successfully", item))
}

func (h *OrderHandler) ReassignOrderItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	var req ReassignOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	cost, err := h.carts.ReassignOrderItem(c.Request.Context(), id, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order item reassigned successfully", gin.H{"cost": cost}))
}

func (h *OrderHandler) AttachOrderItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	var req AttachOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	cost, err := h.carts.AttachOrderItem(c.Request.Context(), id, req.OrderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order item attached successfully", gin.H{"cost": cost}))
}

func (h *OrderHandler) AddCustomization(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	var req AddCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.Multiplicity == 0 {
		req.Multiplicity = 1
	}

	cost, err := h.carts.AddCustomization(c.Request.Context(), id, req.CustomizationID, req.Multiplicity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Customization added successfully", gin.H{"cost": cost}))
}

func (h *OrderHandler) RemoveOrderItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	if err := h.carts.RemoveOrderItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Order item removed successfully", nil))
}

func (h *OrderHandler) ItemPrice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	price, err := h.pricing.ItemPrice(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Price computed successfully", gin.H{"price": price}))
}

func (h *OrderHandler) ItemRestockCost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order item ID"))
		return
	}

	cost, err := h.pricing.ItemRestockCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Restock cost computed successfully", gin.H{"restock_cost": cost}))
}
