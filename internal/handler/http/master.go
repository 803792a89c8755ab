package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintai-works/kintai-backend-go/internal/domain/master"
	"github.com/kintai-works/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-works/kintai-backend-go/internal/handler/http/response"
)

type MasterHandler interface {
	CreateAllowance(w http.ResponseWriter, r *http.Request)
	UpdateAllowance(w http.ResponseWriter, r *http.Request)
	ListAllowances(w http.ResponseWriter, r *http.Request)
	CreateDeduction(w http.ResponseWriter, r *http.Request)
	UpdateDeduction(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// CreateAllowance implements MasterHandler.
func (h *masterHandlerImpl) CreateAllowance(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req master.CreateAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Allowance create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.masterService.CreateAllowance(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Allowance master created", "allowance_master_id", result.ID)
	response.Created(w, "Allowance master created successfully", result)
}

// UpdateAllowance implements MasterHandler.
func (h *masterHandlerImpl) UpdateAllowance(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req master.UpdateAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Allowance update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.masterService.UpdateAllowance(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Allowance master updated successfully", result)
}

// ListAllowances implements MasterHandler.
func (h *masterHandlerImpl) ListAllowances(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") != "false"
	result, err := h.masterService.ListAllowances(r.Context(), actor, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateDeduction implements MasterHandler.
func (h *masterHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req master.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Deduction create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.masterService.CreateDeduction(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Deduction master created", "deduction_master_id", result.ID)
	response.Created(w, "Deduction master created successfully", result)
}

// UpdateDeduction implements MasterHandler.
func (h *masterHandlerImpl) UpdateDeduction(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req master.UpdateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Deduction update decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.masterService.UpdateDeduction(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction master updated successfully", result)
}

// ListDeductions implements MasterHandler.
func (h *masterHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") != "false"
	result, err := h.masterService.ListDeductions(r.Context(), actor, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
