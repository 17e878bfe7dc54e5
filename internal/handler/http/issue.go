package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/issue"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/response"
)

type IssueHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type issueHandlerImpl struct {
	issueService issue.IssueService
}

func NewIssueHandler(issueService issue.IssueService) IssueHandler {
	return &issueHandlerImpl{
		issueService: issueService,
	}
}

// Create implements IssueHandler.
func (h *issueHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req issue.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.issueService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Issue recorded", result)
}

// Resolve implements IssueHandler.
func (h *issueHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req issue.ResolveRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.issueService.Resolve(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Issue resolved", result)
}

// Get implements IssueHandler.
func (h *issueHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.issueService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements IssueHandler.
func (h *issueHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := issue.Filter{
		EmployeeID: queryStringPtr(r, "employee_id"),
		Type:       queryStringPtr(r, "type"),
		Status:     queryStringPtr(r, "status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	result, err := h.issueService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Issues,
		response.PageMeta(result.Page, result.Limit, int(result.Total)))
}
