package gym

import (
	"errors"
	"net/http"
	"strconv"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func gymIDParam(c *gin.Context) (int, bool) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil || gymID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return 0, false
	}
	return gymID, true
}

// @Summary      Create a gym
// @Description  Owner-only: list a new gym
// @Tags         owner,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /owner/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	ownerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindingError(err))
		return
	}

	g, err := h.service.CreateGym(c.Request.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrDuplicateGymName):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "You already have a gym with this name"})
		default:
			logger.Error("create gym failed", "owner_id", ownerID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gym"})
		}
		return
	}

	c.JSON(http.StatusCreated, g)
}

// @Summary      Search gyms
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        q         query string false "Substring of name, address or description"
// @Param        facility  query string false "Facility the gym must offer"
// @Success      200 {array} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms [get]
func (h *Handler) SearchGyms(c *gin.Context) {
	gyms, err := h.service.SearchGyms(c.Request.Context(), c.Query("q"), c.Query("facility"))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("search gyms failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Get a gym
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{gymID} [get]
func (h *Handler) GetGym(c *gin.Context) {
	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}

	g, err := h.service.GetGymByID(c.Request.Context(), gymID)
	if err != nil {
		if errors.Is(err, ErrGymNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
			return
		}
		logger.Error("get gym failed", "gym_id", gymID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gym"})
		return
	}

	c.JSON(http.StatusOK, g)
}

// @Summary      List my gyms
// @Tags         owner,gyms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} gym.Gym
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /owner/gyms [get]
func (h *Handler) ListOwnerGyms(c *gin.Context) {
	ownerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gyms, err := h.service.ListOwnerGyms(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("list owner gyms failed", "owner_id", ownerID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Rate a gym
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID   path int true "Gym ID"
// @Param        request body gym.RateGymRequest true "Rating payload"
// @Success      201 {object} gym.Rating
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/ratings [post]
func (h *Handler) RateGym(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	gymID, ok := gymIDParam(c)
	if !ok {
		return
	}

	var req RateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rating, err := h.service.RateGym(c.Request.Context(), gymID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		case errors.Is(err, ErrDuplicateRating):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "You have already rated this gym"})
		default:
			logger.Error("rate gym failed", "gym_id", gymID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to save rating"})
		}
		return
	}

	c.JSON(http.StatusCreated, rating)
}
