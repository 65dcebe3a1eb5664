package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	// Shift definitions
	CreateShift(w http.ResponseWriter, r *http.Request)
	GetShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	UpdateShift(w http.ResponseWriter, r *http.Request)
	DeleteShift(w http.ResponseWriter, r *http.Request)

	// Rolling rules
	CreateRollingRule(w http.ResponseWriter, r *http.Request)
	GetRollingRule(w http.ResponseWriter, r *http.Request)
	ListRollingRules(w http.ResponseWriter, r *http.Request)
	UpdateRollingRule(w http.ResponseWriter, r *http.Request)
	DeleteRollingRule(w http.ResponseWriter, r *http.Request)
	SetPatternSlot(w http.ResponseWriter, r *http.Request)
	GetRotationPlan(w http.ResponseWriter, r *http.Request)

	// Resolution and assignments
	ResolveEmployeeShift(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
	SwitchAssignments(w http.ResponseWriter, r *http.Request)
	RemoveAssignments(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// ==================== SHIFT HANDLERS ====================

func (h *shiftHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", result)
}

func (h *shiftHandlerImpl) GetShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.shiftService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{}

	if name := r.URL.Query().Get("name"); name != "" {
		filter.Name = &name
	}
	if activeStr := r.URL.Query().Get("is_active"); activeStr != "" {
		active := activeStr == "true"
		filter.IsActive = &active
	}

	filter.Page, filter.Limit = parsePagination(r)
	filter.SortBy = r.URL.Query().Get("sort_by")
	filter.SortOrder = r.URL.Query().Get("sort_order")

	result, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.shiftService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

func (h *shiftHandlerImpl) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.shiftService.DeleteShift(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// ==================== ROLLING RULE HANDLERS ====================

func (h *shiftHandlerImpl) CreateRollingRule(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateRollingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.CreateRollingRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rolling rule created successfully", result)
}

func (h *shiftHandlerImpl) GetRollingRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.shiftService.GetRollingRule(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListRollingRules(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	result, err := h.shiftService.ListRollingRules(r.Context(), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) UpdateRollingRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req shift.UpdateRollingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.shiftService.UpdateRollingRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rolling rule updated successfully", result)
}

func (h *shiftHandlerImpl) DeleteRollingRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.shiftService.DeleteRollingRule(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rolling rule deleted successfully", nil)
}

func (h *shiftHandlerImpl) SetPatternSlot(w http.ResponseWriter, r *http.Request) {
	var req shift.SetPatternSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RuleID = chi.URLParam(r, "id")

	order, err := strconv.Atoi(chi.URLParam(r, "order"))
	if err != nil {
		response.BadRequest(w, "Pattern order must be a number", nil)
		return
	}
	req.Order = order

	result, err := h.shiftService.SetPatternSlot(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pattern slot updated successfully", result)
}

func (h *shiftHandlerImpl) GetRotationPlan(w http.ResponseWriter, r *http.Request) {
	filter := shift.RotationPlanFilter{
		RuleID:     chi.URLParam(r, "id"),
		EmployeeID: r.URL.Query().Get("employee_id"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}

	result, err := h.shiftService.GetRotationPlan(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== RESOLUTION AND ASSIGNMENT HANDLERS ====================

func (h *shiftHandlerImpl) ResolveEmployeeShift(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")

	result, err := h.shiftService.ResolveShift(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	var shiftID *string
	if s := r.URL.Query().Get("shift_id"); s != "" {
		shiftID = &s
	}

	result, err := h.shiftService.ListAssignments(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) SwitchAssignments(w http.ResponseWriter, r *http.Request) {
	var req shift.SwitchAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.SwitchAssignments(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignments switched successfully", result)
}

func (h *shiftHandlerImpl) RemoveAssignments(w http.ResponseWriter, r *http.Request) {
	var req shift.RemoveAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.shiftService.RemoveAssignments(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignments removed successfully", nil)
}

func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	limit = 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	return page, limit
}
