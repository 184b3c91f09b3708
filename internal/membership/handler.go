package membership

import (
	"errors"
	"net/http"
	"strconv"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func intParam(c *gin.Context, name, label string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + label})
		return 0, false
	}
	return v, true
}

func respondError(c *gin.Context, op string, err error) {
	var dup *DuplicateActiveMembershipError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:   dup.Error(),
			Details: gin.H{"existing_tier": dup.Tier},
		})
	case errors.Is(err, ErrDuplicateActiveMembership):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, goer.ErrNotGoer):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Goer profile not found"})
	case errors.Is(err, gym.ErrGymNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
	case errors.Is(err, ErrMembershipNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Membership not found"})
	default:
		logger.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// @Summary      Enroll in a gym
// @Description  Goer-only: buy a membership tier. Tier accepts "monthly", "half_yearly", "yearly" in any casing or spacing.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID   path int true "Gym ID"
// @Param        request body membership.EnrollRequest true "Enrollment"
// @Success      201 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/memberships [post]
func (h *Handler) Enroll(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := intParam(c, "gymID", "gym ID")
	if !ok {
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingError(err))
		return
	}

	m, err := h.service.Enroll(c.Request.Context(), userID, gymID, req.Tier, req.EndDate)
	if err != nil {
		respondError(c, "enroll", err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// @Summary      List my memberships
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} membership.Membership
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list memberships", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary      Invoice data for a membership
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        membershipID path int true "Membership ID"
// @Success      200 {object} membership.Invoice
// @Failure      404 {object} api.ErrorResponse
// @Router       /memberships/{membershipID}/invoice [get]
func (h *Handler) Invoice(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	membershipID, ok := intParam(c, "membershipID", "membership ID")
	if !ok {
		return
	}

	inv, err := h.service.Invoice(c.Request.Context(), userID, membershipID)
	if err != nil {
		respondError(c, "invoice", err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// @Summary      Gym roster
// @Description  Owner-only: every membership of one of the caller's gyms, active or not.
// @Tags         owner,memberships
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} membership.MemberRecord
// @Failure      404 {object} api.ErrorResponse
// @Router       /owner/gyms/{gymID}/members [get]
func (h *Handler) ListMembersOfGym(c *gin.Context) {
	ownerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := intParam(c, "gymID", "gym ID")
	if !ok {
		return
	}

	members, err := h.service.ListMembersOfOwnedGym(c.Request.Context(), ownerID, gymID)
	if err != nil {
		respondError(c, "list gym members", err)
		return
	}

	c.JSON(http.StatusOK, members)
}
