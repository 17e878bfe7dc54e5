package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/asset"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/issue"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/report"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/team"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overdrawn spends carry the shortfall so the client can surface it.
	var insufficient *gamification.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		UnprocessableEntity(w, "Insufficient balance", map[string]string{
			"currency":  string(insufficient.Currency),
			"required":  fmt.Sprintf("%d", insufficient.Required),
			"available": fmt.Sprintf("%d", insufficient.Available),
		})
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is deactivated")
	case errors.Is(err, employee.ErrIdentityAlreadyLinked):
		Conflict(w, "An external identity is already linked to this employee")
	case errors.Is(err, employee.ErrPINNotSet):
		BadRequest(w, "Kiosk PIN has not been set", nil)
	case errors.Is(err, employee.ErrInvalidPIN):
		Unauthorized(w, "Invalid kiosk PIN")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You have not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out")
	case errors.Is(err, attendance.ErrBreakAlreadyActive):
		Conflict(w, "A break is already active")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No active break to end", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "An attendance record already exists for this employee and date")
	case errors.Is(err, attendance.ErrNothingToEdit):
		BadRequest(w, "No fields changed", nil)

	// Gamification domain errors
	case errors.Is(err, gamification.ErrAchievementNotFound):
		NotFound(w, "Achievement not found")
	case errors.Is(err, gamification.ErrAchievementNameTaken):
		Conflict(w, "Achievement name already exists")
	case errors.Is(err, gamification.ErrAchievementInactive):
		BadRequest(w, "Achievement is inactive", nil)
	case errors.Is(err, gamification.ErrInvalidAmount):
		BadRequest(w, "Amount must be a positive integer", nil)
	case errors.Is(err, gamification.ErrInvalidCurrency):
		BadRequest(w, "Currency must be POINTS or COINS", nil)
	case errors.Is(err, gamification.ErrBonusAlreadyAwarded):
		Conflict(w, "Bonus has already been awarded for this record")

	// Reward domain errors
	case errors.Is(err, reward.ErrRewardNotFound):
		NotFound(w, "Reward not found")
	case errors.Is(err, reward.ErrRewardInactive):
		BadRequest(w, "Reward is not active", nil)
	case errors.Is(err, reward.ErrOutOfStock):
		Conflict(w, "Reward is out of stock")
	case errors.Is(err, reward.ErrRedemptionNotFound):
		NotFound(w, "Redemption not found")
	case errors.Is(err, reward.ErrAlreadyProcessed):
		Conflict(w, "Redemption has already been processed")
	case errors.Is(err, reward.ErrNotApproved):
		BadRequest(w, "Redemption must be approved before fulfillment", nil)

	// Issue domain errors
	case errors.Is(err, issue.ErrIssueNotFound):
		NotFound(w, "Issue not found")
	case errors.Is(err, issue.ErrAlreadyResolved):
		Conflict(w, "Issue has already been resolved")

	// Asset domain errors
	case errors.Is(err, asset.ErrAssetNotFound):
		NotFound(w, "Asset not found")
	case errors.Is(err, asset.ErrTagExists):
		Conflict(w, "Asset tag already exists")
	case errors.Is(err, asset.ErrNotAvailable):
		Conflict(w, "Asset is not available for assignment")
	case errors.Is(err, asset.ErrNotAssigned):
		BadRequest(w, "Asset is not currently assigned", nil)
	case errors.Is(err, asset.ErrAssetRetired):
		Conflict(w, "Asset has been retired")

	// Team domain errors
	case errors.Is(err, team.ErrTeamNotFound):
		NotFound(w, "Team not found")
	case errors.Is(err, team.ErrTeamNameExists):
		Conflict(w, "Team name already exists")
	case errors.Is(err, team.ErrLeaderNotTeamLeader):
		BadRequest(w, "Team leader must hold the TEAMLEADER role", nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidDate):
		BadRequest(w, "Date must be formatted as YYYY-MM-DD", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
