package handler

import (
	"errors"
	"net/http"
	"testing"

	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/validator"

	"github.com/stretchr/testify/assert"
)

func validAppointmentBody() map[string]interface{} {
	return map[string]interface{}{
		"full_name":        "Abebe Kebede",
		"age":              34,
		"sex":              "male",
		"phone":            "+251911223344",
		"email":            "abebe@example.com",
		"department_id":    1,
		"service_ids":      []int{1, 2},
		"appointment_date": "2099-03-10",
		"appointment_time": "09:30",
		"appointment_mode": "center",
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"age over limit", "age", 121},
		{"bad sex", "sex", "unknown"},
		{"bad date", "appointment_date", "10/03/2099"},
		{"bad time", "appointment_time", "25:00"},
		{"bad mode", "appointment_mode", "online"},
		{"missing name", "full_name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAppointmentUsecase{}
			h := NewAppointmentHandler(uc, validator.NewValidator())
			body := validAppointmentBody()
			body[tt.field] = tt.value

			rec := serve(http.MethodPost, "/appointments", "/appointments", jsonBody(t, body), h.CreateAppointment)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeEnvelope(t, rec).Error, tt.field)
			assert.Zero(t, uc.createCalls)
		})
	}
}

func TestCreateAppointment_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusCreated},
		{usecase.ErrAppointmentInPast, http.StatusBadRequest},
		{usecase.ErrDepartmentRequired, http.StatusBadRequest},
		{usecase.ErrServiceNotFound, http.StatusBadRequest},
		{usecase.ErrPaymentGateway, http.StatusBadGateway},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		h := NewAppointmentHandler(&fakeAppointmentUsecase{createErr: tt.err}, validator.NewValidator())
		rec := serve(http.MethodPost, "/appointments", "/appointments", jsonBody(t, validAppointmentBody()), h.CreateAppointment)
		assert.Equal(t, tt.status, rec.Code, "error %v", tt.err)
	}
}

func TestGetMyAppointments_RequiresMineFlag(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	rec := serve(http.MethodGet, "/appointments", "/appointments", nil, h.GetMyAppointments)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodGet, "/appointments", "/appointments?mine=true", nil, h.GetMyAppointments)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetPaymentStatus(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())
	rec := serve(http.MethodGet, "/appointments/status-by-tx/{txRef}", "/appointments/status-by-tx/TX-1", nil, h.GetPaymentStatus)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"payment_status":"Completed"}`, string(decodeEnvelope(t, rec).Data))

	h = NewAppointmentHandler(&fakeAppointmentUsecase{statusErr: usecase.ErrAppointmentNotFound}, validator.NewValidator())
	rec = serve(http.MethodGet, "/appointments/status-by-tx/{txRef}", "/appointments/status-by-tx/TX-x", nil, h.GetPaymentStatus)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
