package goer

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

func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotGoer):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Goer profile not found"})
	case errors.Is(err, ErrDashboardNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Dashboard not found"})
	case errors.Is(err, ErrDashboardExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Dashboard already created"})
	default:
		logger.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process dashboard"})
	}
}

// @Summary      Create my dashboard
// @Description  Goer-only: submit the fitness profile. Can be done once.
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body goer.CreateDashboardRequest true "Profile"
// @Success      201 {object} goer.Dashboard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /dashboard [post]
func (h *Handler) CreateDashboard(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingError(err))
		return
	}

	d, err := h.service.CreateDashboard(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "create dashboard", err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// @Summary      Get my dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} goer.Dashboard
// @Failure      404 {object} api.ErrorResponse
// @Router       /dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	d, err := h.service.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "get dashboard", err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Record a weight sample
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body goer.WeightRequest true "Weight sample"
// @Success      200 {object} goer.Dashboard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /dashboard/weights [post]
func (h *Handler) AddWeight(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req WeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	d, err := h.service.AddWeight(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "add weight", err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Mark attendance
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body goer.AttendanceRequest true "Month label and day"
// @Success      200 {object} goer.Dashboard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /dashboard/attendance [post]
func (h *Handler) MarkAttendance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	d, err := h.service.MarkAttendance(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "mark attendance", err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Update targets
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body goer.TargetsRequest true "Targets"
// @Success      200 {object} goer.Dashboard
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /dashboard/targets [patch]
func (h *Handler) UpdateTargets(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req TargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	d, err := h.service.UpdateTargets(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, "update targets", err)
		return
	}

	c.JSON(http.StatusOK, d)
}
