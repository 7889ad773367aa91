package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/laterequest"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/response"
)

type LateRequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type LateRequestHandlerImpl struct {
	requestService laterequest.Service
}

func NewLateRequestHandler(requestService laterequest.Service) LateRequestHandler {
	return &LateRequestHandlerImpl{requestService: requestService}
}

// Create implements LateRequestHandler.
func (h *LateRequestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.CurrentUser(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req laterequest.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = identity.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreateLateRequest service error", "user_id", identity.UserID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Late request submitted", result)
}

// List implements LateRequestHandler.
func (h *LateRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.CurrentUser(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := laterequest.ListFilter{
		UserID: queryParam(r, "user_id"),
		Status: queryParam(r, "status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	// Non-admins only see their own requests
	if identity.Role != user.RoleAdmin {
		filter.UserID = &identity.UserID
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.List(r.Context(), filter)
	if err != nil {
		slog.Error("ListLateRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements LateRequestHandler.
func (h *LateRequestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.CurrentUser(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.requestService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if identity.Role != user.RoleAdmin && result.UserID != identity.UserID {
		response.HandleError(w, laterequest.ErrRequestNotFound)
		return
	}

	response.Success(w, result)
}

// Approve implements LateRequestHandler. Reached from the email link,
// authenticated by the per-request decision token.
func (h *LateRequestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// Reject implements LateRequestHandler.
func (h *LateRequestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *LateRequestHandlerImpl) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	id := chi.URLParam(r, "id")
	token := r.URL.Query().Get("token")
	decidedBy := r.URL.Query().Get("decided_by")
	if decidedBy == "" {
		decidedBy = "email-link"
	}

	var result laterequest.LateRequestResponse
	var err error
	if approve {
		result, err = h.requestService.Approve(r.Context(), id, token, decidedBy)
	} else {
		result, err = h.requestService.Reject(r.Context(), id, token, decidedBy)
	}
	if err != nil {
		slog.Error("Late request decision error", "request_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Late request rejected"
	if approve {
		message = "Late request approved"
	}
	response.SuccessWithMessage(w, message, result)
}
