package handlers

import (
	"errors"
	"net/http"

	"github.com/cyphera/gator-permissions/internal/middleware"
	"github.com/cyphera/gator-permissions/internal/orchestrator"
	"github.com/cyphera/gator-permissions/internal/permissions"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionsHandler runs grant sessions on behalf of HTTP callers
type PermissionsHandler struct {
	orchestrator *orchestrator.Orchestrator
	registry     *permissions.Registry
}

// NewPermissionsHandler creates a new PermissionsHandler
func NewPermissionsHandler(orch *orchestrator.Orchestrator, registry *permissions.Registry) *PermissionsHandler {
	return &PermissionsHandler{orchestrator: orch, registry: registry}
}

// GrantPermissionRequest is the grant endpoint's request body. Origin
// identifies the requesting dApp; when omitted, the Origin header is used.
type GrantPermissionRequest struct {
	Origin  string                  `json:"origin,omitempty"`
	Request types.PermissionRequest `json:"request"`
}

// GrantPermissionResponse is the grant endpoint's response body. A user
// rejection is a successful HTTP exchange with Success false.
type GrantPermissionResponse struct {
	Success  bool                      `json:"success"`
	Reason   string                    `json:"reason,omitempty"`
	Response *types.PermissionResponse `json:"response,omitempty"`
}

// GrantPermission runs one permission request through the confirmation
// flow to a terminal outcome
func (h *PermissionsHandler) GrantPermission(c *gin.Context) {
	var body GrantPermissionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	origin := body.Origin
	if origin == "" {
		origin = c.GetHeader("Origin")
	}
	if origin == "" {
		sendError(c, http.StatusBadRequest, "Missing request origin", nil)
		return
	}

	log := middleware.LogWithCorrelationID(c.Request.Context())
	result, err := h.orchestrator.Orchestrate(c.Request.Context(), body.Request, origin)
	if err != nil {
		var verr *types.RequestValidationError
		if errors.As(err, &verr) {
			sendError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		sendError(c, http.StatusInternalServerError, "Failed to process permission request", err)
		return
	}

	if !result.Success {
		if log != nil {
			log.Info("Permission request rejected", zap.String("origin", origin))
		}
		sendSuccess(c, http.StatusOK, GrantPermissionResponse{Success: false, Reason: result.Reason})
		return
	}
	sendSuccess(c, http.StatusOK, GrantPermissionResponse{Success: true, Response: result.Response})
}

// ListPermissionTypes returns the wire type tags this deployment supports
func (h *PermissionsHandler) ListPermissionTypes(c *gin.Context) {
	sendSuccess(c, http.StatusOK, gin.H{
		"object": "list",
		"data":   h.registry.Types(),
	})
}
