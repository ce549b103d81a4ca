package handler

import (
	"errors"
	"net/http"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/service"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/response"
	"medcenter-booking/pkg/validator"

	"github.com/goccy/go-json"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	validator      *validator.CustomValidator
}

func NewContactHandler(contactUsecase usecase.ContactUsecase, validator *validator.CustomValidator) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		validator:      validator,
	}
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeContact(w, r)
	if !ok {
		return
	}

	message, err := h.contactUsecase.SubmitContact(r.Context(), req)
	if err != nil {
		response.InternalServerError(w, "Failed to submit message")
		return
	}

	response.Success(w, http.StatusCreated, "Message received", message)
}

func (h *ContactHandler) GetContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactUsecase.GetContactMessages(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get messages")
		return
	}

	response.Success(w, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeContact(w, r)
	if !ok {
		return
	}

	message, err := h.contactUsecase.SendEmail(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailDelivery):
			response.Error(w, http.StatusBadGateway, "Failed to send email", nil)
		default:
			response.InternalServerError(w, "Failed to submit message")
		}
		return
	}

	response.Success(w, http.StatusOK, "Email sent successfully", message)
}

func (h *ContactHandler) SendBookingEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendBookingEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.contactUsecase.SendBookingEmail(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNotification):
			response.BadRequest(w, "Invalid booking details")
		case errors.Is(err, usecase.ErrEmailDelivery):
			response.Error(w, http.StatusBadGateway, "Failed to send booking email", nil)
		default:
			response.InternalServerError(w, "Failed to send booking email")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking email sent successfully", nil)
}

func (h *ContactHandler) decodeContact(w http.ResponseWriter, r *http.Request) (*dto.ContactRequest, bool) {
	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}

	return &req, true
}
