package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/CoralRocker/Team73-Project3/internal/storefront"
)

type ReportHandler struct {
	analytics *storefront.Analytics
	redis     *redis.Client
	cacheTTL  time.Duration
	log       *zap.Logger
}

func NewReportHandler(analytics *storefront.Analytics, redisClient *redis.Client, cacheTTL time.Duration, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		analytics: analytics,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// cached looks up a report by its full query string, computing and storing it
// on a miss. Checkout clears the whole prefix so staleness is bounded by the
// TTL only between settlements.
func (h *ReportHandler) cached(c *gin.Context, name string, compute func(ctx context.Context) (interface{}, error)) {
	ctx := c.Request.Context()
	key := REPORT_CACHE_PREFIX + name + ":" + c.Request.URL.RawQuery

	if val, err := h.redis.Get(ctx, key).Result(); err == nil {
		var data interface{}
		if err := json.Unmarshal([]byte(val), &data); err == nil {
			c.JSON(http.StatusOK, successResponse("Report retrieved successfully", data))
			return
		}
	}

	data, err := compute(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if raw, err := json.Marshal(data); err == nil {
		if err := h.redis.Set(ctx, key, raw, h.cacheTTL).Err(); err != nil {
			h.log.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, successResponse("Report retrieved successfully", data))
}

func (h *ReportHandler) Finance(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	h.cached(c, "finance", func(ctx context.Context) (interface{}, error) {
		return h.analytics.FinanceReport(ctx, from, to)
	})
}

func (h *ReportHandler) Usage(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	h.cached(c, "usage", func(ctx context.Context) (interface{}, error) {
		return h.analytics.UsageReport(ctx, from, to)
	})
}

func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	h.cached(c, "sales", func(ctx context.Context) (interface{}, error) {
		return h.analytics.SalesByItem(ctx, from, to)
	})
}

func (h *ReportHandler) ExcessStock(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	pct, err := strconv.ParseFloat(c.Query("pct"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid pct threshold"))
		return
	}

	h.cached(c, "excess", func(ctx context.Context) (interface{}, error) {
		return h.analytics.ExcessStock(ctx, from, to, pct)
	})
}

func (h *ReportHandler) Restock(c *gin.Context) {
	minUnits, err := strconv.ParseFloat(c.Query("min_units"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid min_units threshold"))
		return
	}

	h.cached(c, "restock", func(ctx context.Context) (interface{}, error) {
		return h.analytics.RestockReport(ctx, minUnits)
	})
}

func (h *ReportHandler) FrequentPairs(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid date, expected YYYY-MM-DD"))
		return
	}

	limit := 10
	if s := c.Query("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid limit"))
			return
		}
		limit = parsed
	}

	h.cached(c, "pairs", func(ctx context.Context) (interface{}, error) {
		return h.analytics.FrequentPairs(ctx, from, to, limit)
	})
}
