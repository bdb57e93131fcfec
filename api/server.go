// Package api serves the latest snapshot to the local rendering client.
// It only ever reads from the store; the collection loop is never
// blocked by an inbound request.
package api

import (
	"net/http"
	"time"

	"perfmon-agent/models"
	"perfmon-agent/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const serviceName = "Performance Monitor Agent"

// NewRouter builds the HTTP surface: the wallpaper-facing /performance
// and /status endpoints plus the collector's own /metrics. The
// rendering client runs sandboxed on a different origin, so CORS is
// wide open; the listener itself is loopback-only.
func NewRouter(st *store.Store, port int, metrics http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/performance", handlePerformance(st))
	r.GET("/status", handleStatus(st, port))
	r.GET("/metrics", gin.WrapH(metrics))
	return r
}

func handlePerformance(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := st.Read()
		if snap == nil {
			// Nothing published yet; serve the zeroed shape so the
			// client never sees an error it cannot retry from.
			c.JSON(http.StatusOK, models.DefaultPayload(time.Now()))
			return
		}
		c.JSON(http.StatusOK, snap.Payload())
	}
}

func handleStatus(st *store.Store, port int) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := st.Read()
		gpuAvailable := snap != nil && snap.Basic != nil && snap.Basic.GPUUsage != nil
		c.JSON(http.StatusOK, gin.H{
			"status":        "running",
			"service":       serviceName,
			"port":          port,
			"gpu_available": gpuAvailable,
			"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		})
	}
}
