package controllers

import (
	"net/http"
	"strconv"

	"github.com/apela812/server-stat-TG/internal/models"
	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
)

const maxProcessLimit = 100

// GetTopProcesses returns the top processes
// Query params: sort=cpu|memory (default: memory), limit=1..100 (default: 15)
func (mc *MetricsController) GetTopProcesses(c *gin.Context) {
	sortBy := models.ParseSortBy(c.DefaultQuery("sort", string(models.SortByMemory)))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultProcessLimit)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	limit = min(max(limit, 1), maxProcessLimit)

	processes, err := mc.collector.CollectProcesses(c.Request.Context(), sortBy, limit)
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sort":      sortBy,
		"limit":     limit,
		"processes": processes,
	})
}
