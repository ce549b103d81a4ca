package handler

import (
	"fmt"
	"net/http"
	"testing"

	"medcenter-booking/internal/service"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/validator"

	"github.com/stretchr/testify/assert"
)

func contactBody() map[string]interface{} {
	return map[string]interface{}{
		"full_name": "Hanna Girma",
		"email":     "hanna@example.com",
		"message":   "Do you offer weekend appointments?",
	}
}

func TestSubmitContact(t *testing.T) {
	uc := &fakeContactUsecase{}
	h := NewContactHandler(uc, validator.NewValidator())

	rec := serve(http.MethodPost, "/contact", "/contact", jsonBody(t, contactBody()), h.SubmitContact)
	assert.Equal(t, http.StatusCreated, rec.Code)

	bad := contactBody()
	bad["email"] = "nope"
	rec = serve(http.MethodPost, "/contact", "/contact", jsonBody(t, bad), h.SubmitContact)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, uc.calls)
}

func TestSendEmail_DeliveryFailure(t *testing.T) {
	h := NewContactHandler(&fakeContactUsecase{sendErr: fmt.Errorf("%w: smtp down", usecase.ErrEmailDelivery)}, validator.NewValidator())

	rec := serve(http.MethodPost, "/send-email", "/send-email", jsonBody(t, contactBody()), h.SendEmail)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSendBookingEmail(t *testing.T) {
	body := map[string]interface{}{
		"name":          "Abebe Kebede",
		"email":         "abebe@example.com",
		"totalAmount":   650,
		"appointmentId": "booking-1",
	}

	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: email", service.ErrInvalidNotification), http.StatusBadRequest},
		{fmt.Errorf("%w: smtp", usecase.ErrEmailDelivery), http.StatusBadGateway},
	}

	for _, tt := range tests {
		h := NewContactHandler(&fakeContactUsecase{bookingErr: tt.err}, validator.NewValidator())
		rec := serve(http.MethodPost, "/send-booking-email", "/send-booking-email", jsonBody(t, body), h.SendBookingEmail)
		assert.Equal(t, tt.status, rec.Code, "error %v", tt.err)
	}

	uc := &fakeContactUsecase{}
	h := NewContactHandler(uc, validator.NewValidator())
	body["totalAmount"] = 0
	rec := serve(http.MethodPost, "/send-booking-email", "/send-booking-email", jsonBody(t, body), h.SendBookingEmail)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.calls)
}
