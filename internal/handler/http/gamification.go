package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/response"
)

type GamificationHandler interface {
	Award(w http.ResponseWriter, r *http.Request)
	Spend(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	ListLedger(w http.ResponseWriter, r *http.Request)
	ListMyLedger(w http.ResponseWriter, r *http.Request)
	CreateAchievement(w http.ResponseWriter, r *http.Request)
	ListAchievements(w http.ResponseWriter, r *http.Request)
	SetAchievementActive(w http.ResponseWriter, r *http.Request)
	GetMyAchievements(w http.ResponseWriter, r *http.Request)
	EvaluateEmployee(w http.ResponseWriter, r *http.Request)
}

type gamificationHandlerImpl struct {
	gamificationService gamification.Service
}

func NewGamificationHandler(gamificationService gamification.Service) GamificationHandler {
	return &gamificationHandlerImpl{
		gamificationService: gamificationService,
	}
}

// Award implements GamificationHandler.
func (h *gamificationHandlerImpl) Award(w http.ResponseWriter, r *http.Request) {
	var req gamification.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.gamificationService.Award(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Points awarded", result)
}

// Spend implements GamificationHandler.
func (h *gamificationHandlerImpl) Spend(w http.ResponseWriter, r *http.Request) {
	var req gamification.SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.gamificationService.Spend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Points spent", result)
}

// GetBalance implements GamificationHandler.
func (h *gamificationHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.gamificationService.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyBalance implements GamificationHandler.
func (h *gamificationHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.gamificationService.GetMyBalance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func ledgerFilterFromQuery(r *http.Request) gamification.LedgerFilter {
	return gamification.LedgerFilter{
		Currency:  queryStringPtr(r, "currency"),
		Category:  queryStringPtr(r, "category"),
		StartDate: queryStringPtr(r, "start_date"),
		EndDate:   queryStringPtr(r, "end_date"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 20),
	}
}

// ListLedger implements GamificationHandler.
func (h *gamificationHandlerImpl) ListLedger(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.gamificationService.ListLedger(r.Context(), employeeID, ledgerFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries,
		response.PageMeta(result.Page, result.Limit, int(result.Total)))
}

// ListMyLedger implements GamificationHandler.
func (h *gamificationHandlerImpl) ListMyLedger(w http.ResponseWriter, r *http.Request) {
	result, err := h.gamificationService.ListLedger(r.Context(), "", ledgerFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries,
		response.PageMeta(result.Page, result.Limit, int(result.Total)))
}

// CreateAchievement implements GamificationHandler.
func (h *gamificationHandlerImpl) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req gamification.CreateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.gamificationService.CreateAchievement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Achievement created", result)
}

// ListAchievements implements GamificationHandler.
func (h *gamificationHandlerImpl) ListAchievements(w http.ResponseWriter, r *http.Request) {
	result, err := h.gamificationService.ListAchievements(r.Context(), queryBool(r, "active_only"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetAchievementActive implements GamificationHandler.
func (h *gamificationHandlerImpl) SetAchievementActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.gamificationService.SetAchievementActive(r.Context(), id, req.Active); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Achievement updated", nil)
}

// EvaluateEmployee implements GamificationHandler.
func (h *gamificationHandlerImpl) EvaluateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.gamificationService.EvaluateEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAchievements implements GamificationHandler.
func (h *gamificationHandlerImpl) GetMyAchievements(w http.ResponseWriter, r *http.Request) {
	result, err := h.gamificationService.GetMyAchievements(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
