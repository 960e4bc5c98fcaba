package handler

import (
	"encoding/json"

	"growfi-backend/internal/adapter/http/dto"
	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet CRUD and fund allocation endpoints.
type WalletHandler struct {
	walletSvc   ports.WalletService
	transferSvc ports.TransferService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, transferSvc ports.TransferService) *WalletHandler {
	return &WalletHandler{
		walletSvc:   walletSvc,
		transferSvc: transferSvc,
	}
}

// List handles GET /api/v1/wallet/.
func (h *WalletHandler) List(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallets, err := h.walletSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, toWalletResponse(&wallets[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/wallet/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	walletID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.walletSvc.Get(c.Request.Context(), userID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// Create handles POST /api/v1/wallet/.
func (h *WalletHandler) Create(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.WalletCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	in := domain.WalletCreate{
		Name:     req.Name,
		Balance:  decimal.Zero,
		Currency: req.Currency,
		IconName: req.IconName,
		ColorHex: req.ColorHex,
	}
	if req.Balance != nil {
		in.Balance = *req.Balance
	}

	wallet, err := h.walletSvc.Create(c.Request.Context(), userID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toWalletResponse(wallet))
}

// Update handles PUT /api/v1/wallet/:id. Only the fields present in the
// body are changed; explicit nulls clear icon_name and color_hex.
func (h *WalletHandler) Update(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	walletID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	patch, err := domain.ParseWalletPatch(fields)
	if err != nil {
		response.Error(c, domainError(err))
		return
	}

	wallet, err := h.walletSvc.Update(c.Request.Context(), userID, walletID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// Delete handles DELETE /api/v1/wallet/:id and returns the removed wallet.
func (h *WalletHandler) Delete(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	walletID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.walletSvc.Delete(c.Request.Context(), userID, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// AssignGoal handles PATCH /api/v1/wallet/:id/assign-goal.
func (h *WalletHandler) AssignGoal(c *gin.Context) {
	var req dto.AssignGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	h.transfer(c, domain.DestinationGoal, req.GoalID, req.Amount, req.Date, req.Comment)
}

// AssignExpense handles PATCH /api/v1/wallet/:id/assign-expense.
func (h *WalletHandler) AssignExpense(c *gin.Context) {
	var req dto.AssignExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	h.transfer(c, domain.DestinationExpense, req.ExpenseID, req.Amount, req.Date, req.Comment)
}

func (h *WalletHandler) transfer(c *gin.Context, kind domain.DestinationKind, destID int64, amount decimal.Decimal, date string, comment *string) {
	userID, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	walletID, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.transferSvc.Transfer(c.Request.Context(), domain.TransferRequest{
		UserID:          userID,
		WalletID:        walletID,
		DestinationKind: kind,
		DestinationID:   destID,
		Amount:          amount,
		Date:            date,
		Comment:         comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}
