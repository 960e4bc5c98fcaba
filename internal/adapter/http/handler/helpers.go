package handler

import (
	"errors"
	"strconv"

	"growfi-backend/internal/adapter/http/dto"
	"growfi-backend/internal/adapter/http/middleware"
	"growfi-backend/internal/core/domain"
	"growfi-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// currentUser returns the user resolved by JWTAuth.
func currentUser(c *gin.Context) (int64, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return 0, apperror.ErrInvalidToken()
	}
	return uid, nil
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ErrValidation("id", "must be a positive integer")
	}
	return id, nil
}

// domainError turns a *domain.FieldError into VAL_001 and passes anything else through.
func domainError(err error) error {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return apperror.ErrValidation(fe.Field, fe.Reason)
	}
	return err
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID,
		Name:      w.Name,
		Balance:   dto.Money(w.Balance),
		Currency:  w.Currency,
		IconName:  w.IconName,
		ColorHex:  w.ColorHex,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toGoalResponse(g *domain.Goal) dto.GoalResponse {
	return dto.GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  dto.Money(g.TargetAmount),
		CurrentAmount: dto.Money(g.CurrentAmount),
		GrowthStage:   g.GrowthStage(),
		IsReached:     g.IsReached(),
		Icon:          g.Icon,
		Color:         g.Color,
		Currency:      g.Currency,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func toExpenseResponse(e *domain.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID,
		Name:        e.Name,
		Icon:        e.Icon,
		Color:       e.Color,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		WalletID:    e.WalletID,
		Amount:      dto.Money(e.Amount),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
