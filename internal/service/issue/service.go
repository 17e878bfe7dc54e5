package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/issue"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

type IssueServiceImpl struct {
	db         *database.DB
	issueRepo  issue.IssueRepository
	ledgerRepo gamification.LedgerRepository
	hub        *sse.Hub
}

func NewIssueService(
	db *database.DB,
	issueRepo issue.IssueRepository,
	ledgerRepo gamification.LedgerRepository,
	hub *sse.Hub,
) issue.IssueService {
	return &IssueServiceImpl{
		db:         db,
		issueRepo:  issueRepo,
		ledgerRepo: ledgerRepo,
		hub:        hub,
	}
}

// Create implements issue.IssueService. The penalty deduction is clamped to
// the available balance so the ledger never goes negative; the issue keeps
// the full penalty for the record.
func (s *IssueServiceImpl) Create(ctx context.Context, req issue.CreateRequest) (issue.Response, error) {
	if err := req.Validate(); err != nil {
		return issue.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return issue.Response{}, err
	}

	var iss issue.Issue
	deducted := 0
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		iss, err = s.issueRepo.Create(txCtx, issue.Issue{
			CompanyID:     claims.CompanyID,
			EmployeeID:    req.EmployeeID,
			Type:          issue.Type(req.Type),
			Severity:      issue.Severity(req.Severity),
			Title:         req.Title,
			Description:   req.Description,
			PenaltyPoints: req.PenaltyPoints,
			Status:        issue.StatusOpen,
			RaisedBy:      claims.EmployeeID,
		})
		if err != nil {
			return err
		}

		if iss.Type != issue.TypePenalty || iss.PenaltyPoints == nil {
			return nil
		}

		available, err := s.ledgerRepo.GetBalanceForUpdate(
			txCtx, req.EmployeeID, gamification.CurrencyPoints, claims.CompanyID)
		if err != nil {
			return err
		}

		deducted = *iss.PenaltyPoints
		if deducted > available {
			deducted = available
		}
		if deducted == 0 {
			return nil
		}

		corrType := gamification.CorrelationIssue
		_, err = s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID:      req.EmployeeID,
			CompanyID:       claims.CompanyID,
			Currency:        gamification.CurrencyPoints,
			Amount:          -deducted,
			Category:        gamification.CategoryPenalty,
			Reason:          fmt.Sprintf("Penalty: %s", iss.Title),
			CorrelationType: &corrType,
			CorrelationID:   &iss.ID,
		})
		return err
	})
	if err != nil {
		return issue.Response{}, err
	}

	if deducted > 0 {
		s.hub.Publish(req.EmployeeID, sse.Event{
			Event: sse.EventBalanceChanged,
			Data: map[string]interface{}{
				"currency": string(gamification.CurrencyPoints),
				"amount":   -deducted,
			},
		})
	}

	return issue.ToResponse(iss), nil
}

// Resolve implements issue.IssueService.
func (s *IssueServiceImpl) Resolve(ctx context.Context, id string, req issue.ResolveRequest) (issue.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return issue.Response{}, err
	}

	iss, err := s.issueRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return issue.Response{}, err
	}

	now := time.Now().UTC()
	iss.Status = issue.StatusResolved
	iss.ResolvedBy = &claims.EmployeeID
	iss.ResolvedAt = &now
	iss.ResolutionNote = req.Note

	if err := s.issueRepo.Resolve(ctx, iss); err != nil {
		return issue.Response{}, err
	}

	return issue.ToResponse(iss), nil
}

// Get implements issue.IssueService.
func (s *IssueServiceImpl) Get(ctx context.Context, id string) (issue.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return issue.Response{}, err
	}

	iss, err := s.issueRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return issue.Response{}, err
	}
	return issue.ToResponse(iss), nil
}

// List implements issue.IssueService.
func (s *IssueServiceImpl) List(ctx context.Context, filter issue.Filter) (issue.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return issue.ListResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	issues, total, err := s.issueRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return issue.ListResponse{}, fmt.Errorf("failed to list issues: %w", err)
	}

	resp := issue.ListResponse{
		Issues: make([]issue.Response, 0, len(issues)),
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	for _, iss := range issues {
		resp.Issues = append(resp.Issues, issue.ToResponse(iss))
	}
	return resp, nil
}
