package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/response"
)

type OverrideHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type OverrideHandlerImpl struct {
	overrideService override.Service
}

func NewOverrideHandler(overrideService override.Service) OverrideHandler {
	return &OverrideHandlerImpl{overrideService: overrideService}
}

// Upsert implements OverrideHandler. Writing twice for the same user and
// shift date replaces the earlier override.
func (h *OverrideHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.CurrentUser(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req override.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CreatedBy = &identity.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overrideService.Upsert(r.Context(), req)
	if err != nil {
		slog.Error("UpsertOverride service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Override saved", result)
}

// List implements OverrideHandler.
func (h *OverrideHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := override.ListFilter{
		UserID:    queryParam(r, "user_id"),
		StartDate: queryParam(r, "start_date"),
		EndDate:   queryParam(r, "end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overrideService.List(r.Context(), filter)
	if err != nil {
		slog.Error("ListOverrides service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements OverrideHandler.
func (h *OverrideHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.overrideService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Override deleted", nil)
}
