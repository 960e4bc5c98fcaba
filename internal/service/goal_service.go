package service

import (
	"context"
	"fmt"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// GoalServiceImpl implements ports.GoalService.
type GoalServiceImpl struct {
	goalRepo ports.GoalRepository
	log      zerolog.Logger
}

// NewGoalService creates a new GoalServiceImpl.
func NewGoalService(goalRepo ports.GoalRepository, log zerolog.Logger) *GoalServiceImpl {
	return &GoalServiceImpl{goalRepo: goalRepo, log: log}
}

func (s *GoalServiceImpl) List(ctx context.Context, userID int64) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list goals: %w", err))
	}
	return goals, nil
}

func (s *GoalServiceImpl) Get(ctx context.Context, userID, goalID int64) (*domain.Goal, error) {
	g, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get goal: %w", err))
	}
	if g == nil || g.UserID != userID {
		return nil, apperror.ErrNotFound("goal", goalID)
	}
	return g, nil
}

// Create adds a goal with nothing saved towards it yet.
func (s *GoalServiceImpl) Create(ctx context.Context, userID int64, in domain.GoalInput) (*domain.Goal, error) {
	if err := in.Normalize(); err != nil {
		return nil, validationError(err)
	}

	g := &domain.Goal{
		UserID:        userID,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Icon:          in.Icon,
		Color:         in.Color,
		Currency:      in.Currency,
	}
	if err := s.goalRepo.Create(ctx, g); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create goal: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("goal_id", g.ID).Msg("goal created")
	return g, nil
}

// Update replaces the editable fields. The saved amount is left alone.
func (s *GoalServiceImpl) Update(ctx context.Context, userID, goalID int64, in domain.GoalInput) (*domain.Goal, error) {
	if err := in.Normalize(); err != nil {
		return nil, validationError(err)
	}
	g, err := s.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	g.Name = in.Name
	g.TargetAmount = in.TargetAmount
	g.Icon = in.Icon
	g.Color = in.Color
	g.Currency = in.Currency
	if err := s.goalRepo.Update(ctx, g); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update goal: %w", err))
	}
	return g, nil
}

func (s *GoalServiceImpl) Delete(ctx context.Context, userID, goalID int64) (*domain.Goal, error) {
	g, err := s.Get(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.goalRepo.Delete(ctx, goalID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete goal: %w", err))
	}

	s.log.Info().Int64("user_id", userID).Int64("goal_id", goalID).Msg("goal deleted")
	return g, nil
}
