package stats

import (
	"errors"
	"net/http"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetOwnerStats godoc
// @Summary      Owner revenue and member statistics
// @Description  Aggregated over the caller's gyms using active memberships only.
// @Tags         owner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  stats.OwnerStats
// @Failure      404  {object}  api.ErrorResponse
// @Router       /owner/stats [get]
func (h *Handler) GetOwnerStats(c *gin.Context) {
	ownerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	out, err := h.service.OwnerStats(c.Request.Context(), ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOwnerNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Owner not found"})
		case errors.Is(err, ErrNoGyms):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No gyms found for this owner"})
		default:
			logger.Error("owner stats failed", "owner_id", ownerID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, out)
}

// ListMembers godoc
// @Summary      Members across all of the caller's gyms
// @Tags         owner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   stats.MemberSummary
// @Failure      404  {object}  api.ErrorResponse
// @Router       /owner/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	ownerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	out, err := h.service.MembersByGym(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Owner not found"})
			return
		}
		logger.Error("owner members failed", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, out)
}
