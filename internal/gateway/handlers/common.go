package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CoralRocker/Team73-Project3/internal/storefront"
)

const (
	MENU_CACHE_KEY      = "storefront:menu"
	REPORT_CACHE_PREFIX = "storefront:report:"

	dateLayout = "2006-01-02"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// respondError maps engine errors onto HTTP statuses. Anything unrecognized
// is a 500 and gets logged; the client only sees a generic message for those.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, storefront.ErrInvalidArgument),
		errors.Is(err, storefront.ErrDivisionHazard),
		errors.Is(err, storefront.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, storefront.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, storefront.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, errorResponse("checkout contention, retry"))
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}

// parseDateRange reads from/to query params, defaulting both to today.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now, now

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}
