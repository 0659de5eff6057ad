package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

const (
	defaultLimit = 20
	maxLimit     = 200
	maxBodyBytes = 1 << 16
)

type handlers struct {
	deps Deps
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/stats
func (h *handlers) stats(c *gin.Context) {
	st, err := h.deps.Stats.Current(c.Request.Context())
	if errors.Is(err, common.ErrNoStats) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/earnings?limit=20
func (h *handlers) listEarnings(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultLimit, maxLimit)
	if !ok {
		return
	}
	items, err := h.deps.Earnings.Recent(c.Request.Context(), limit)
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

// GET /api/earnings/summary?hours=24
func (h *handlers) earningsSummary(c *gin.Context) {
	hours, ok := queryInt(c, "hours", 24, 24*366)
	if !ok {
		return
	}
	sum, err := h.deps.Earnings.Summary(c.Request.Context(), time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// POST /api/earnings — тело в формате insert-схемы earnings.
func (h *handlers) createEarning(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось прочитать тело запроса"})
		return
	}

	in, err := schema.Decode[schema.InsertEarning](body)
	if err == nil {
		var e *schema.Earning
		if e, err = h.deps.Earnings.Record(c.Request.Context(), in); err == nil {
			c.JSON(http.StatusCreated, e)
			return
		}
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		return
	}
	h.internal(c, err)
}

// GET /api/activity?limit=20
func (h *handlers) listActivity(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultLimit, maxLimit)
	if !ok {
		return
	}
	items, err := h.deps.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

// GET /api/activity/summary?hours=24 — число событий каждого типа за период.
func (h *handlers) activitySummary(c *gin.Context) {
	hours, ok := queryInt(c, "hours", 24, 24*366)
	if !ok {
		return
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	counts, err := h.deps.Activity.CountByType(c.Request.Context(), since)
	if err != nil {
		h.internal(c, err)
		return
	}
	if counts == nil {
		counts = map[string]int64{}
	}
	c.JSON(http.StatusOK, gin.H{"since": since, "counts": counts})
}

// GET /api/income-config
func (h *handlers) listIncomeConfig(c *gin.Context) {
	items, err := h.deps.Income.List(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

func (h *handlers) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка"})
}

// queryInt читает положительный параметр запроса, обрезая его до max.
// При ошибке сам отвечает 400.
func queryInt(c *gin.Context, name string, def, max int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	if n > max {
		n = max
	}
	return n, true
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
