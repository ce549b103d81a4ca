package handler

import (
	"net/http"
	"strings"

	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetEntityHistory lists the audit trail of an appointment id, user id or service:<id>
func (h *AuditLogHandler) GetEntityHistory(w http.ResponseWriter, r *http.Request) {
	entityID := strings.TrimSpace(mux.Vars(r)["entityId"])
	if entityID == "" {
		response.BadRequest(w, "Invalid entity ID")
		return
	}

	history, err := h.auditLogUsecase.GetEntityHistory(r.Context(), entityID)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", history)
}
