package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/response"
)

type RewardHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
	ApproveRedemption(w http.ResponseWriter, r *http.Request)
	RejectRedemption(w http.ResponseWriter, r *http.Request)
	FulfillRedemption(w http.ResponseWriter, r *http.Request)
	ListRedemptions(w http.ResponseWriter, r *http.Request)
	ListMyRedemptions(w http.ResponseWriter, r *http.Request)
}

type rewardHandlerImpl struct {
	rewardService reward.RewardService
}

func NewRewardHandler(rewardService reward.RewardService) RewardHandler {
	return &rewardHandlerImpl{
		rewardService: rewardService,
	}
}

// Create implements RewardHandler.
func (h *rewardHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req reward.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.rewardService.CreateReward(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reward created", result)
}

// Update implements RewardHandler.
func (h *rewardHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req reward.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.rewardService.UpdateReward(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reward updated", result)
}

// Get implements RewardHandler.
func (h *rewardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rewardService.GetReward(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements RewardHandler.
func (h *rewardHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.rewardService.ListRewards(r.Context(), queryBool(r, "active_only"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Redeem implements RewardHandler.
func (h *rewardHandlerImpl) Redeem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rewardService.Redeem(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Redemption requested", result)
}

func decodeProcessRequest(r *http.Request) reward.ProcessRequest {
	// The note body is optional; an empty or malformed body is treated as
	// "no note" rather than an error.
	var req reward.ProcessRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	return req
}

// ApproveRedemption implements RewardHandler.
func (h *rewardHandlerImpl) ApproveRedemption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rewardService.ApproveRedemption(r.Context(), id, decodeProcessRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Redemption approved", result)
}

// RejectRedemption implements RewardHandler.
func (h *rewardHandlerImpl) RejectRedemption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rewardService.RejectRedemption(r.Context(), id, decodeProcessRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Redemption rejected", result)
}

// FulfillRedemption implements RewardHandler.
func (h *rewardHandlerImpl) FulfillRedemption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.rewardService.FulfillRedemption(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Redemption fulfilled", result)
}

func redemptionFilterFromQuery(r *http.Request) reward.RedemptionFilter {
	return reward.RedemptionFilter{
		EmployeeID: queryStringPtr(r, "employee_id"),
		Status:     queryStringPtr(r, "status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
}

// ListRedemptions implements RewardHandler.
func (h *rewardHandlerImpl) ListRedemptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.rewardService.ListRedemptions(r.Context(), redemptionFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Redemptions,
		response.PageMeta(result.Page, result.Limit, int(result.Total)))
}

// ListMyRedemptions implements RewardHandler.
func (h *rewardHandlerImpl) ListMyRedemptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.rewardService.ListMyRedemptions(r.Context(), redemptionFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Redemptions,
		response.PageMeta(result.Page, result.Limit, int(result.Total)))
}
