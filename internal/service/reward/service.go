package reward

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/email"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

type RewardServiceImpl struct {
	db             *database.DB
	rewardRepo     reward.RewardRepository
	redemptionRepo reward.RedemptionRepository
	ledgerRepo     gamification.LedgerRepository
	employeeRepo   employee.EmployeeRepository
	emailService   email.EmailService
	hub            *sse.Hub
}

func NewRewardService(
	db *database.DB,
	rewardRepo reward.RewardRepository,
	redemptionRepo reward.RedemptionRepository,
	ledgerRepo gamification.LedgerRepository,
	employeeRepo employee.EmployeeRepository,
	emailService email.EmailService,
	hub *sse.Hub,
) reward.RewardService {
	return &RewardServiceImpl{
		db:             db,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		ledgerRepo:     ledgerRepo,
		employeeRepo:   employeeRepo,
		emailService:   emailService,
		hub:            hub,
	}
}

// CreateReward implements reward.RewardService.
func (s *RewardServiceImpl) CreateReward(ctx context.Context, req reward.CreateRequest) (reward.Response, error) {
	if err := req.Validate(); err != nil {
		return reward.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.Response{}, err
	}

	rw := reward.Reward{
		CompanyID:   claims.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Currency:    gamification.Currency(req.Currency),
		Cost:        req.Cost,
		Stock:       req.Stock,
		Active:      true,
	}
	if req.CashValue != nil {
		// Validated above, cannot fail here.
		value, _ := decimal.NewFromString(*req.CashValue)
		rw.CashValue = &value
	}

	created, err := s.rewardRepo.Create(ctx, rw)
	if err != nil {
		return reward.Response{}, err
	}

	return reward.ToResponse(created), nil
}

// UpdateReward implements reward.RewardService.
func (s *RewardServiceImpl) UpdateReward(ctx context.Context, id string, req reward.UpdateRequest) (reward.Response, error) {
	if err := req.Validate(); err != nil {
		return reward.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.Response{}, err
	}

	rw, err := s.rewardRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return reward.Response{}, err
	}

	if req.Name != nil {
		rw.Name = *req.Name
	}
	if req.Description != nil {
		rw.Description = *req.Description
	}
	if req.Cost != nil {
		rw.Cost = *req.Cost
	}
	if req.Stock != nil {
		rw.Stock = req.Stock
	}
	if req.Active != nil {
		rw.Active = *req.Active
	}

	if err := s.rewardRepo.Update(ctx, rw); err != nil {
		return reward.Response{}, err
	}

	return reward.ToResponse(rw), nil
}

// GetReward implements reward.RewardService.
func (s *RewardServiceImpl) GetReward(ctx context.Context, id string) (reward.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.Response{}, err
	}

	rw, err := s.rewardRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return reward.Response{}, err
	}
	return reward.ToResponse(rw), nil
}

// ListRewards implements reward.RewardService.
func (s *RewardServiceImpl) ListRewards(ctx context.Context, activeOnly bool) ([]reward.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rewards, err := s.rewardRepo.List(ctx, claims.CompanyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}

	resp := make([]reward.Response, 0, len(rewards))
	for _, rw := range rewards {
		resp = append(resp, reward.ToResponse(rw))
	}
	return resp, nil
}

// Redeem implements reward.RewardService. Everything that can fail runs
// inside one transaction: the locked balance check, the ledger debit, the
// stock decrement and the redemption row.
func (s *RewardServiceImpl) Redeem(ctx context.Context, rewardID string) (reward.RedemptionResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.RedemptionResponse{}, err
	}

	var rd reward.Redemption
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		rw, err := s.rewardRepo.GetByIDForUpdate(txCtx, rewardID, claims.CompanyID)
		if err != nil {
			return err
		}
		if !rw.Active {
			return reward.ErrRewardInactive
		}
		if rw.Stock != nil && *rw.Stock <= 0 {
			return reward.ErrOutOfStock
		}

		available, err := s.ledgerRepo.GetBalanceForUpdate(txCtx, claims.EmployeeID, rw.Currency, claims.CompanyID)
		if err != nil {
			return err
		}
		if available < rw.Cost {
			return &gamification.InsufficientBalanceError{
				Currency:  rw.Currency,
				Required:  rw.Cost,
				Available: available,
			}
		}

		rd, err = s.redemptionRepo.Create(txCtx, reward.Redemption{
			RewardID:   rw.ID,
			EmployeeID: claims.EmployeeID,
			CompanyID:  claims.CompanyID,
			Currency:   rw.Currency,
			Cost:       rw.Cost,
			Status:     reward.StatusPending,
		})
		if err != nil {
			return err
		}

		corrType := gamification.CorrelationRedemption
		if _, err := s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID:      claims.EmployeeID,
			CompanyID:       claims.CompanyID,
			Currency:        rw.Currency,
			Amount:          -rw.Cost,
			Category:        gamification.CategoryRedemption,
			Reason:          fmt.Sprintf("Redeemed: %s", rw.Name),
			CorrelationType: &corrType,
			CorrelationID:   &rd.ID,
		}); err != nil {
			return err
		}

		if rw.Stock != nil {
			if err := s.rewardRepo.DecrementStock(txCtx, rw.ID, claims.CompanyID); err != nil {
				return err
			}
		}

		rd.RewardName = &rw.Name
		return nil
	})
	if err != nil {
		return reward.RedemptionResponse{}, err
	}

	s.hub.Publish(claims.EmployeeID, sse.Event{
		Event: sse.EventBalanceChanged,
		Data: map[string]interface{}{
			"currency": string(rd.Currency),
			"amount":   -rd.Cost,
		},
	})

	return reward.ToRedemptionResponse(rd), nil
}

// ApproveRedemption implements reward.RewardService.
func (s *RewardServiceImpl) ApproveRedemption(ctx context.Context, id string, req reward.ProcessRequest) (reward.RedemptionResponse, error) {
	return s.process(ctx, id, req.Note, reward.StatusApproved)
}

// RejectRedemption implements reward.RewardService.
func (s *RewardServiceImpl) RejectRedemption(ctx context.Context, id string, req reward.ProcessRequest) (reward.RedemptionResponse, error) {
	return s.process(ctx, id, req.Note, reward.StatusRejected)
}

// process decides a PENDING redemption. A rejection refunds the ledger and
// restores stock inside the same transaction as the status flip.
func (s *RewardServiceImpl) process(ctx context.Context, id string, note *string, status reward.RedemptionStatus) (reward.RedemptionResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.RedemptionResponse{}, err
	}

	var rd reward.Redemption
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		rd, err = s.redemptionRepo.GetByID(txCtx, id, claims.CompanyID)
		if err != nil {
			return err
		}
		if rd.Status != reward.StatusPending {
			return reward.ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		rd.Status = status
		rd.Note = note
		rd.ProcessedBy = &claims.EmployeeID
		rd.ProcessedAt = &now

		if err := s.redemptionRepo.UpdateStatus(txCtx, rd); err != nil {
			return err
		}

		if status == reward.StatusRejected {
			corrType := gamification.CorrelationRedemption
			if _, err := s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
				EmployeeID:      rd.EmployeeID,
				CompanyID:       rd.CompanyID,
				Currency:        rd.Currency,
				Amount:          rd.Cost,
				Category:        gamification.CategoryRedemptionRefund,
				Reason:          fmt.Sprintf("Redemption rejected: refund of %d %s", rd.Cost, rd.Currency),
				CorrelationType: &corrType,
				CorrelationID:   &rd.ID,
			}); err != nil {
				return err
			}
			if err := s.rewardRepo.IncrementStock(txCtx, rd.RewardID, claims.CompanyID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return reward.RedemptionResponse{}, err
	}

	s.notifyProcessed(ctx, rd)

	return reward.ToRedemptionResponse(rd), nil
}

// FulfillRedemption implements reward.RewardService.
func (s *RewardServiceImpl) FulfillRedemption(ctx context.Context, id string) (reward.RedemptionResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.RedemptionResponse{}, err
	}

	rd, err := s.redemptionRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return reward.RedemptionResponse{}, err
	}
	if rd.Status != reward.StatusApproved {
		return reward.RedemptionResponse{}, reward.ErrNotApproved
	}

	now := time.Now().UTC()
	rd.Status = reward.StatusFulfilled
	rd.ProcessedBy = &claims.EmployeeID
	rd.ProcessedAt = &now

	if err := s.redemptionRepo.UpdateStatus(ctx, rd); err != nil {
		return reward.RedemptionResponse{}, err
	}

	return reward.ToRedemptionResponse(rd), nil
}

// ListRedemptions implements reward.RewardService.
func (s *RewardServiceImpl) ListRedemptions(ctx context.Context, filter reward.RedemptionFilter) (reward.ListRedemptionsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.ListRedemptionsResponse{}, err
	}
	return s.listRedemptions(ctx, filter, claims.CompanyID)
}

// ListMyRedemptions implements reward.RewardService.
func (s *RewardServiceImpl) ListMyRedemptions(ctx context.Context, filter reward.RedemptionFilter) (reward.ListRedemptionsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return reward.ListRedemptionsResponse{}, err
	}

	filter.EmployeeID = &claims.EmployeeID
	return s.listRedemptions(ctx, filter, claims.CompanyID)
}

func (s *RewardServiceImpl) listRedemptions(ctx context.Context, filter reward.RedemptionFilter, companyID string) (reward.ListRedemptionsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	redemptions, total, err := s.redemptionRepo.List(ctx, filter, companyID)
	if err != nil {
		return reward.ListRedemptionsResponse{}, fmt.Errorf("failed to list redemptions: %w", err)
	}

	resp := reward.ListRedemptionsResponse{
		Redemptions: make([]reward.RedemptionResponse, 0, len(redemptions)),
		Total:       total,
		Page:        filter.Page,
		Limit:       filter.Limit,
	}
	for _, rd := range redemptions {
		resp.Redemptions = append(resp.Redemptions, reward.ToRedemptionResponse(rd))
	}
	return resp, nil
}

// notifyProcessed pushes the SSE event and sends the email. Neither failure
// affects the already-committed decision.
func (s *RewardServiceImpl) notifyProcessed(ctx context.Context, rd reward.Redemption) {
	s.hub.Publish(rd.EmployeeID, sse.Event{
		Event: sse.EventRedemptionProcessed,
		Data: map[string]interface{}{
			"redemption_id": rd.ID,
			"status":        string(rd.Status),
		},
	})

	emp, err := s.employeeRepo.GetByID(ctx, rd.EmployeeID, rd.CompanyID)
	if err != nil {
		slog.Error("Failed to load employee for redemption email", "employee_id", rd.EmployeeID, "error", err)
		return
	}

	rewardName := ""
	if rd.RewardName != nil {
		rewardName = *rd.RewardName
	}
	if err := s.emailService.SendRedemptionProcessed(emp.Email, emp.FullName, rewardName, string(rd.Status), rd.Note); err != nil {
		slog.Error("Failed to send redemption email", "employee_id", rd.EmployeeID, "error", err)
	}
}
