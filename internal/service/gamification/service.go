package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/paycycle"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

type GamificationServiceImpl struct {
	db              *database.DB
	ledgerRepo      gamification.LedgerRepository
	achievementRepo gamification.AchievementRepository
	attendanceRepo  attendance.AttendanceRepository
	hub             *sse.Hub
	bonusPoints     int
	loc             *time.Location
	clock           paycycle.Clock
}

func NewGamificationService(
	db *database.DB,
	ledgerRepo gamification.LedgerRepository,
	achievementRepo gamification.AchievementRepository,
	attendanceRepo attendance.AttendanceRepository,
	hub *sse.Hub,
	bonusPoints int,
	loc *time.Location,
	clock paycycle.Clock,
) gamification.Service {
	if clock == nil {
		clock = time.Now
	}
	return &GamificationServiceImpl{
		db:              db,
		ledgerRepo:      ledgerRepo,
		achievementRepo: achievementRepo,
		attendanceRepo:  attendanceRepo,
		hub:             hub,
		bonusPoints:     bonusPoints,
		loc:             loc,
		clock:           clock,
	}
}

// Award implements gamification.Service.
func (s *GamificationServiceImpl) Award(ctx context.Context, req gamification.AwardRequest) (gamification.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return gamification.LedgerEntryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.LedgerEntryResponse{}, err
	}

	category := gamification.Category(req.Category)
	if category == "" {
		category = gamification.CategoryManualAdjustment
	}

	var entry gamification.LedgerEntry
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		entry, err = s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID: req.EmployeeID,
			CompanyID:  claims.CompanyID,
			Currency:   gamification.Currency(req.Currency),
			Amount:     req.Amount,
			Category:   category,
			Reason:     req.Reason,
		})
		return err
	})
	if err != nil {
		return gamification.LedgerEntryResponse{}, fmt.Errorf("failed to award: %w", err)
	}

	s.hub.Publish(req.EmployeeID, sse.Event{
		Event: sse.EventPointsAwarded,
		Data: map[string]interface{}{
			"currency": req.Currency,
			"amount":   req.Amount,
			"reason":   req.Reason,
		},
	})

	return gamification.ToLedgerEntryResponse(entry), nil
}

// Spend implements gamification.Service. The balance row is locked before
// the check so two concurrent spends cannot both pass.
func (s *GamificationServiceImpl) Spend(ctx context.Context, req gamification.SpendRequest) (gamification.LedgerEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return gamification.LedgerEntryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.LedgerEntryResponse{}, err
	}

	category := gamification.Category(req.Category)
	if category == "" {
		category = gamification.CategoryManualAdjustment
	}
	currency := gamification.Currency(req.Currency)

	var entry gamification.LedgerEntry
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		available, err := s.ledgerRepo.GetBalanceForUpdate(txCtx, req.EmployeeID, currency, claims.CompanyID)
		if err != nil {
			return err
		}
		if available < req.Amount {
			return &gamification.InsufficientBalanceError{
				Currency:  currency,
				Required:  req.Amount,
				Available: available,
			}
		}

		entry, err = s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID: req.EmployeeID,
			CompanyID:  claims.CompanyID,
			Currency:   currency,
			Amount:     -req.Amount,
			Category:   category,
			Reason:     req.Reason,
		})
		return err
	})
	if err != nil {
		return gamification.LedgerEntryResponse{}, err
	}

	s.hub.Publish(req.EmployeeID, sse.Event{
		Event: sse.EventBalanceChanged,
		Data: map[string]interface{}{
			"currency": req.Currency,
			"amount":   -req.Amount,
		},
	})

	return gamification.ToLedgerEntryResponse(entry), nil
}

// GetBalance implements gamification.Service.
func (s *GamificationServiceImpl) GetBalance(ctx context.Context, employeeID string) (gamification.BalanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.BalanceResponse{}, err
	}
	return s.balances(ctx, employeeID, claims.CompanyID)
}

// GetMyBalance implements gamification.Service.
func (s *GamificationServiceImpl) GetMyBalance(ctx context.Context) (gamification.BalanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.BalanceResponse{}, err
	}
	return s.balances(ctx, claims.EmployeeID, claims.CompanyID)
}

func (s *GamificationServiceImpl) balances(ctx context.Context, employeeID, companyID string) (gamification.BalanceResponse, error) {
	points, err := s.ledgerRepo.GetBalance(ctx, employeeID, gamification.CurrencyPoints, companyID)
	if err != nil {
		return gamification.BalanceResponse{}, fmt.Errorf("failed to get points balance: %w", err)
	}
	coins, err := s.ledgerRepo.GetBalance(ctx, employeeID, gamification.CurrencyCoins, companyID)
	if err != nil {
		return gamification.BalanceResponse{}, fmt.Errorf("failed to get coins balance: %w", err)
	}
	return gamification.BalanceResponse{
		EmployeeID: employeeID,
		Points:     points,
		Coins:      coins,
	}, nil
}

// ListLedger implements gamification.Service.
func (s *GamificationServiceImpl) ListLedger(ctx context.Context, employeeID string, filter gamification.LedgerFilter) (gamification.ListLedgerResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.ListLedgerResponse{}, err
	}

	// An empty employeeID means "the caller".
	if employeeID == "" {
		employeeID = claims.EmployeeID
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	entries, total, err := s.ledgerRepo.List(ctx, employeeID, filter, claims.CompanyID)
	if err != nil {
		return gamification.ListLedgerResponse{}, fmt.Errorf("failed to list ledger: %w", err)
	}

	resp := gamification.ListLedgerResponse{
		Entries: make([]gamification.LedgerEntryResponse, 0, len(entries)),
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, gamification.ToLedgerEntryResponse(e))
	}
	return resp, nil
}

// EvaluateAttendance implements gamification.Service. Called on check-out,
// after admin edits, and by the nightly sweep; the correlation guard makes
// every path idempotent per attendance record.
func (s *GamificationServiceImpl) EvaluateAttendance(ctx context.Context, att attendance.Attendance) error {
	if !IsPunctualDay(att.CheckIn, att.CheckOut, s.loc) {
		return nil
	}

	awarded := false
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		corrType := gamification.CorrelationAttendance
		exists, err := s.ledgerRepo.HasEntryForCorrelation(
			txCtx, att.EmployeeID, gamification.CurrencyPoints, corrType, att.ID, att.CompanyID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		_, err = s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID:      att.EmployeeID,
			CompanyID:       att.CompanyID,
			Currency:        gamification.CurrencyPoints,
			Amount:          s.bonusPoints,
			Category:        gamification.CategoryPunctualityBonus,
			Reason:          fmt.Sprintf("Punctuality bonus for %s", att.Date.Format("2006-01-02")),
			CorrelationType: &corrType,
			CorrelationID:   &att.ID,
		})
		if err != nil {
			return err
		}
		awarded = true
		return nil
	})
	if errors.Is(err, gamification.ErrBonusAlreadyAwarded) {
		// Lost the race against another evaluation path (check-out vs the
		// nightly sweep); the bonus is already on the ledger.
		err = nil
	}
	if err != nil {
		return fmt.Errorf("failed to award punctuality bonus: %w", err)
	}

	if awarded {
		s.hub.Publish(att.EmployeeID, sse.Event{
			Event: sse.EventPointsAwarded,
			Data: map[string]interface{}{
				"currency": string(gamification.CurrencyPoints),
				"amount":   s.bonusPoints,
				"reason":   "punctuality bonus",
			},
		})
	}

	// A new punctual day can tip a streak achievement over its threshold.
	achievements, err := s.achievementRepo.List(ctx, att.CompanyID, true)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}
	for _, a := range achievements {
		if a.Metric != gamification.MetricPunctualDays {
			continue
		}
		if _, err := s.evaluateAchievement(ctx, att.EmployeeID, att.CompanyID, a); err != nil {
			slog.Error("Failed to evaluate achievement",
				"achievement_id", a.ID,
				"employee_id", att.EmployeeID,
				"error", err)
		}
	}

	return nil
}

// CreateAchievement implements gamification.Service.
func (s *GamificationServiceImpl) CreateAchievement(ctx context.Context, req gamification.CreateAchievementRequest) (gamification.AchievementResponse, error) {
	if err := req.Validate(); err != nil {
		return gamification.AchievementResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return gamification.AchievementResponse{}, err
	}

	a, err := s.achievementRepo.Create(ctx, gamification.Achievement{
		CompanyID:   claims.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PointReward: req.PointReward,
		Metric:      gamification.Metric(req.Metric),
		Threshold:   req.Threshold,
		PeriodDays:  req.PeriodDays,
		Active:      true,
	})
	if err != nil {
		return gamification.AchievementResponse{}, err
	}

	return gamification.ToAchievementResponse(a), nil
}

// ListAchievements implements gamification.Service.
func (s *GamificationServiceImpl) ListAchievements(ctx context.Context, activeOnly bool) ([]gamification.AchievementResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	achievements, err := s.achievementRepo.List(ctx, claims.CompanyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	resp := make([]gamification.AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, gamification.ToAchievementResponse(a))
	}
	return resp, nil
}

// SetAchievementActive implements gamification.Service.
func (s *GamificationServiceImpl) SetAchievementActive(ctx context.Context, id string, active bool) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.achievementRepo.SetActive(ctx, id, claims.CompanyID, active)
}

// GetMyAchievements implements gamification.Service.
func (s *GamificationServiceImpl) GetMyAchievements(ctx context.Context) ([]gamification.AchievementProgressResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.achievementProgress(ctx, claims.EmployeeID, claims.CompanyID)
}

// EvaluateEmployee implements gamification.Service.
func (s *GamificationServiceImpl) EvaluateEmployee(ctx context.Context, employeeID string) ([]gamification.AchievementProgressResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.achievementProgress(ctx, employeeID, claims.CompanyID)
}

// achievementProgress evaluates every active achievement for one employee,
// unlocking (and paying) any that crossed their threshold.
func (s *GamificationServiceImpl) achievementProgress(ctx context.Context, employeeID, companyID string) ([]gamification.AchievementProgressResponse, error) {
	achievements, err := s.achievementRepo.List(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	unlocked, err := s.achievementRepo.ListUnlocked(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	unlockedAt := make(map[string]time.Time, len(unlocked))
	for _, u := range unlocked {
		unlockedAt[u.AchievementID] = u.UnlockedAt
	}

	resp := make([]gamification.AchievementProgressResponse, 0, len(achievements))
	for _, a := range achievements {
		result, err := s.evaluateAchievement(ctx, employeeID, companyID, a)
		if err != nil {
			return nil, err
		}

		row := gamification.AchievementProgressResponse{
			Achievement: gamification.ToAchievementResponse(a),
			Progress:    result.Progress,
			Unlocked:    result.Unlocked,
		}
		if ts, ok := unlockedAt[a.ID]; ok {
			formatted := ts.Format("2006-01-02 15:04:05")
			row.UnlockedAt = &formatted
		}
		resp = append(resp, row)
	}
	return resp, nil
}

// evaluateAchievement computes the employee's metric value over the trailing
// window, unlocks the achievement when the threshold is met and pays the
// reward exactly once.
func (s *GamificationServiceImpl) evaluateAchievement(ctx context.Context, employeeID, companyID string, a gamification.Achievement) (gamification.EvaluationResult, error) {
	result := gamification.EvaluationResult{AchievementID: a.ID}

	value, err := s.metricValue(ctx, employeeID, companyID, a)
	if err != nil {
		return result, err
	}

	progress := value * 100 / a.Threshold
	if progress > 100 {
		progress = 100
	}
	result.Progress = progress

	if value < a.Threshold {
		unlocked, err := s.achievementRepo.IsUnlocked(ctx, employeeID, a.ID)
		if err != nil {
			return result, err
		}
		result.Unlocked = unlocked
		return result, nil
	}

	result.Unlocked = true

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		unlockedNow, err := s.achievementRepo.InsertUnlockOnce(txCtx, employeeID, a.ID)
		if err != nil {
			return err
		}
		if !unlockedNow {
			return nil
		}
		result.UnlockedNow = true

		corrType := gamification.CorrelationAchievement
		_, err = s.ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID:      employeeID,
			CompanyID:       companyID,
			Currency:        gamification.CurrencyPoints,
			Amount:          a.PointReward,
			Category:        gamification.CategoryAchievementBonus,
			Reason:          fmt.Sprintf("Achievement unlocked: %s", a.Name),
			CorrelationType: &corrType,
			CorrelationID:   &a.ID,
		})
		return err
	})
	if err != nil {
		return result, fmt.Errorf("failed to unlock achievement: %w", err)
	}

	if result.UnlockedNow {
		s.hub.Publish(employeeID, sse.Event{
			Event: sse.EventAchievementUnlocked,
			Data: map[string]interface{}{
				"achievement_id": a.ID,
				"name":           a.Name,
				"point_reward":   a.PointReward,
			},
		})
	}

	return result, nil
}

// metricValue measures one achievement metric over the trailing PeriodDays
// window ending today (portal time), both days inclusive.
func (s *GamificationServiceImpl) metricValue(ctx context.Context, employeeID, companyID string, a gamification.Achievement) (int, error) {
	nowLocal := s.clock().In(s.loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(a.PeriodDays - 1))

	switch a.Metric {
	case gamification.MetricPunctualDays, gamification.MetricPresentDays:
		records, err := s.attendanceRepo.ListForEmployeeInRange(ctx, employeeID, from, today, companyID)
		if err != nil {
			return 0, err
		}
		count := 0
		for _, rec := range records {
			switch a.Metric {
			case gamification.MetricPunctualDays:
				if IsPunctualDay(rec.CheckIn, rec.CheckOut, s.loc) {
					count++
				}
			case gamification.MetricPresentDays:
				if rec.Status != attendance.StatusAbsent && rec.CheckIn != nil {
					count++
				}
			}
		}
		return count, nil

	case gamification.MetricPointsEarned:
		return s.ledgerRepo.SumEarnedInRange(ctx, employeeID, gamification.CurrencyPoints,
			from, today.AddDate(0, 0, 1), companyID)

	default:
		return 0, fmt.Errorf("unknown achievement metric: %s", a.Metric)
	}
}
