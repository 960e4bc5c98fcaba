package handler

import (
	"growfi-backend/internal/adapter/http/dto"
	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// GoalHandler handles savings goal endpoints.
type GoalHandler struct {
	goalSvc ports.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalSvc ports.GoalService) *GoalHandler {
	return &GoalHandler{goalSvc: goalSvc}
}

// List handles GET /api/v1/goals.
func (h *GoalHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	goals, err := h.goalSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.GoalResponse, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResponse(&goals[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/goals/:id.
func (h *GoalHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	goalID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	goal, err := h.goalSvc.Get(c.Request.Context(), userID, goalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toGoalResponse(goal))
}

// Create handles POST /api/v1/goals.
func (h *GoalHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := bindGoal(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	goal, err := h.goalSvc.Create(c.Request.Context(), userID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toGoalResponse(goal))
}

// Update handles PUT /api/v1/goals/:id. current_amount is not writable here.
func (h *GoalHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	goalID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := bindGoal(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	goal, err := h.goalSvc.Update(c.Request.Context(), userID, goalID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toGoalResponse(goal))
}

// Delete handles DELETE /api/v1/goals/:id.
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	goalID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	goal, err := h.goalSvc.Delete(c.Request.Context(), userID, goalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toGoalResponse(goal))
}

func bindGoal(c *gin.Context) (domain.GoalInput, error) {
	var req dto.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.GoalInput{}, dto.BindError(err)
	}
	dto.SanitizeStruct(&req)

	return domain.GoalInput{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Icon:         req.Icon,
		Color:        req.Color,
		Currency:     req.Currency,
	}, nil
}
