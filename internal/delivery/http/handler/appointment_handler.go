package handler

import (
	"errors"
	"net/http"
	"strings"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/response"
	"medcenter-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment handles the booking form
// @Summary Submit an appointment
// @Description Register the patient and appointment and open a checkout session
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentInPast),
			errors.Is(err, usecase.ErrDepartmentRequired),
			errors.Is(err, usecase.ErrDepartmentNotFound),
			errors.Is(err, usecase.ErrServiceNotFound):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.Error(w, http.StatusBadGateway, "Failed to initialize payment", nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", result)
}

// GetMyAppointments lists the signed in user's appointments
// @Summary List my appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param mine query string true "must be true"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("mine") != "true" {
		response.BadRequest(w, "Query parameter mine=true is required")
		return
	}

	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotInContext):
			response.Unauthorized(w, "Invalid token")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetPaymentStatus returns the payment status of the appointment holding txRef
// @Summary Payment status by tx_ref
// @Tags Appointments
// @Produce json
// @Param txRef path string true "Transaction reference"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/status-by-tx/{txRef} [get]
func (h *AppointmentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	txRef := strings.TrimSpace(mux.Vars(r)["txRef"])
	if txRef == "" {
		response.BadRequest(w, "Invalid tx_ref")
		return
	}

	status, err := h.appointmentUsecase.GetPaymentStatusByTxRef(r.Context(), txRef)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get payment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment status retrieved successfully", status)
}
