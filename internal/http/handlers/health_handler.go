package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/go-orders-backend/internal/http/middleware"
)

// healthProbeTimeout bounds the remote connectivity check so /health answers
// quickly even when the remote is down.
const healthProbeTimeout = 5 * time.Second

// Health reports service liveness and remote connectivity. The response
// includes the remote organization identity when reachable; when the remote
// probe fails the endpoint still answers 200 with status "degraded" so load
// balancers keep the process in rotation while operators see the problem.
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	org, err := h.catalog.Organization(ctx)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("health probe could not reach the remote api")
		c.JSON(http.StatusOK, Envelope{
			Status:  "degraded",
			Message: "remote inventory service unreachable",
		})
		return
	}

	ok(c, http.StatusOK, gin.H{
		"organization_id":   org.OrganizationID,
		"organization_name": org.Name,
	})
}
