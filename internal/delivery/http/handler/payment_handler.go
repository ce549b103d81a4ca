package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/response"
	"medcenter-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
	webhookSecret  string
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator, log *logrus.Logger, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
		log:            log,
		webhookSecret:  webhookSecret,
	}
}

// InitiatePayment opens a new checkout for a pending appointment
// @Summary Initiate payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.InitiatePaymentRequest true "Initiate Payment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payment/initiate [post]
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.paymentUsecase.InitiatePayment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotPending), errors.Is(err, usecase.ErrTxRefInUse), errors.Is(err, usecase.ErrAmountMismatch):
			response.Conflict(w, err.Error())
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.Error(w, http.StatusBadGateway, "Failed to initialize payment", nil)
		default:
			response.InternalServerError(w, "Failed to initiate payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment initialized", result)
}

// Webhook reconciles a gateway callback. The gateway always gets a 200 with a
// plain text acknowledgement so it does not retry on our own errors.
// @Summary Payment webhook
// @Tags Payment
// @Accept json
// @Produce plain
// @Success 200 {string} string
// @Router /payment/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.log.Warnf("Failed to read webhook body: %+v", err)
		response.Text(w, http.StatusOK, "Webhook ignored")
		return
	}

	if !h.signatureValid(r, body) {
		h.log.WithField("remote", r.RemoteAddr).Warn("Webhook signature mismatch")
		response.Text(w, http.StatusOK, "Webhook ignored")
		return
	}

	payload := webhookPayload(r, body)
	if payload == nil {
		h.log.Warn("Webhook body is not valid JSON")
		response.Text(w, http.StatusOK, "Webhook ignored")
		return
	}

	result, err := h.paymentUsecase.HandleWebhook(r.Context(), payload)
	if err != nil {
		h.log.WithField("tx_ref", result.TxRef).Errorf("Webhook processing failed: %+v", err)
	}

	response.Text(w, http.StatusOK, result.Acknowledgement())
}

// signatureValid checks the hex HMAC-SHA256 of the raw body. Without a
// configured secret every delivery is accepted.
func (h *PaymentHandler) signatureValid(r *http.Request, body []byte) bool {
	if h.webhookSecret == "" {
		return true
	}

	signature := r.Header.Get("Chapa-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Chapa-Signature")
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// webhookPayload reads the reference from the JSON body, falling back to the
// query string used by the gateway's GET callback. Returns nil for a body
// that is not JSON.
func webhookPayload(r *http.Request, body []byte) *dto.WebhookPayload {
	payload := &dto.WebhookPayload{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, payload); err != nil {
			return nil
		}
	}

	query := r.URL.Query()
	if payload.TxRef == "" {
		payload.TxRef = query.Get("tx_ref")
	}
	if payload.TrxRef == "" {
		payload.TrxRef = query.Get("trx_ref")
	}
	if payload.Status == "" {
		payload.Status = query.Get("status")
	}
	return payload
}
