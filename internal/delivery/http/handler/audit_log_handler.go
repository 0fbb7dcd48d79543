package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
	"lab-appointment-web/pkg/validator"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AuditLogListRequest{
		Action: query.Get("action"),
		Actor:  query.Get("actor"),
	}

	var err error
	if raw := query.Get("page"); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid page", nil)
			return
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	auditLogs, page, err := h.auditLogUsecase.ListAuditLogs(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditDisabled) {
			response.Error(w, http.StatusServiceUnavailable, "Audit trail is not configured", nil)
			return
		}
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, response.MetaFromPage(page))
}
