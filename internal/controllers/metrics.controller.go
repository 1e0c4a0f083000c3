package controllers

import (
	"net/http"

	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsController serves metric snapshots as JSON
type MetricsController struct {
	collector services.Collector
	log       *zap.Logger
}

func NewMetricsController(collector services.Collector, logger *zap.Logger) *MetricsController {
	return &MetricsController{collector: collector, log: logger}
}

func (mc *MetricsController) fail(c *gin.Context, err error) {
	mc.log.Error("metrics collection failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (mc *MetricsController) GetStatus(c *gin.Context) {
	status, err := mc.collector.CollectStatus(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (mc *MetricsController) GetCPU(c *gin.Context) {
	cpu, err := mc.collector.CollectCPU(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cpu)
}

func (mc *MetricsController) GetMemory(c *gin.Context) {
	memory, err := mc.collector.CollectRAM(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, memory)
}

func (mc *MetricsController) GetDisk(c *gin.Context) {
	disks, err := mc.collector.CollectDisks(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, disks)
}

func (mc *MetricsController) GetNetwork(c *gin.Context) {
	network, err := mc.collector.CollectNetwork(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

func (mc *MetricsController) GetSystem(c *gin.Context) {
	info, err := mc.collector.CollectSystemInfo(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"platform":       info.Platform,
		"hostname":       info.Hostname,
		"uptime_seconds": int64(info.Uptime.Seconds()),
		"uptime":         services.FormatUptime(info.Uptime),
		"temperature_c":  info.TemperatureC,
		"cpu_count":      info.CPUCount,
	})
}

// GetHealth reports liveness
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
