package handler

import (
	"growfi-backend/internal/adapter/http/dto"
	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense category endpoints.
type ExpenseHandler struct {
	expenseSvc ports.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseSvc ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseSvc: expenseSvc}
}

// List handles GET /api/v1/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	expenses, err := h.expenseSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, toExpenseResponse(&expenses[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	expenseID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	expense, err := h.expenseSvc.Get(c.Request.Context(), userID, expenseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toExpenseResponse(expense))
}

// Create handles POST /api/v1/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := bindExpense(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	expense, err := h.expenseSvc.Create(c.Request.Context(), userID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toExpenseResponse(expense))
}

// Update handles PUT /api/v1/expenses/:id. The accumulated amount is not writable here.
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	expenseID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	in, err := bindExpense(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	expense, err := h.expenseSvc.Update(c.Request.Context(), userID, expenseID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toExpenseResponse(expense))
}

// Delete handles DELETE /api/v1/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	expenseID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	expense, err := h.expenseSvc.Delete(c.Request.Context(), userID, expenseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toExpenseResponse(expense))
}

func bindExpense(c *gin.Context) (domain.ExpenseInput, error) {
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.ExpenseInput{}, dto.BindError(err)
	}
	dto.SanitizeStruct(&req)

	return domain.ExpenseInput{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
	}, nil
}
