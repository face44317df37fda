// Response envelope utilities shared by all endpoints.
//
// Every endpoint answers with the same JSON shape:
//
//	{ "status": "ok"|"error", "data": ..., "message": "...", "page_context": {...} }
//
// Success carries data (plus page_context on list endpoints); failure carries
// a human-readable message safe for direct display. fail() centralizes error
// formatting and logs 5xx responses with request context.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/http/middleware"
	"github.com/ordersync/go-orders-backend/internal/services"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// Envelope is the standard response body for every endpoint.
type Envelope struct {
	Status      string            `json:"status"`
	Data        any               `json:"data,omitempty"`
	Message     string            `json:"message,omitempty"`
	PageContext *zoho.PageContext `json:"page_context,omitempty"`
}

// ok writes a success envelope.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: "ok", Data: data})
}

// okPage writes a success envelope with pagination context.
func okPage(c *gin.Context, data any, pc *zoho.PageContext) {
	c.JSON(http.StatusOK, Envelope{Status: "ok", Data: data, PageContext: pc})
}

// fail aborts the request with an error envelope and logs server-side errors
// through the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().Int("status", status).Str("message", msg).Msg("api error")
	}
	c.AbortWithStatusJSON(status, Envelope{Status: "error", Message: msg})
}

// Fail is the exported variant of fail(), for router-level fallbacks.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// failQuery maps a read-path error: validation 400, missing resource 404,
// anything the remote rejected 502.
func failQuery(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ve.Error())
	case zoho.IsNotFound(err):
		fail(c, http.StatusNotFound, "resource not found")
	default:
		fail(c, http.StatusBadGateway, remoteMessage(err))
	}
}

// failCreate maps an order-creation error: validation 400, everything else —
// resolution failures, remote rejections, ambiguous or misbound results —
// 422, as the creation may have partially progressed remotely.
func failCreate(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		fail(c, http.StatusBadRequest, ve.Error())
		return
	}

	var ambiguous *services.AmbiguousOrderError
	var mismatch *services.BindingMismatchError
	switch {
	case errors.As(err, &ambiguous):
		fail(c, http.StatusUnprocessableEntity, ambiguous.Error())
	case errors.As(err, &mismatch):
		fail(c, http.StatusUnprocessableEntity, mismatch.Error())
	case errors.Is(err, services.ErrContactResolution):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		fail(c, http.StatusUnprocessableEntity, remoteMessage(err))
	}
}

// remoteMessage extracts a display-safe message from a remote error, hiding
// transport internals behind a generic fallback.
func remoteMessage(err error) string {
	var ae *zoho.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "the inventory service could not be reached, try again shortly"
}
