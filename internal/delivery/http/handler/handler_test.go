package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/usecase"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// serve routes a single request through a mux router so path variables resolve
func serve(method, pattern, target string, body io.Reader, h http.HandlerFunc, headers ...string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(pattern, h).Methods(method)

	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakePaymentUsecase struct {
	initiateCalls int
	initiateErr   error
	webhooks      []*dto.WebhookPayload
	result        *usecase.ReconcileResult
	webhookErr    error
}

func (f *fakePaymentUsecase) InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	f.initiateCalls++
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return &dto.InitiatePaymentResponse{CheckoutURL: "https://checkout.test/" + req.TxRef}, nil
}

func (f *fakePaymentUsecase) HandleWebhook(ctx context.Context, payload *dto.WebhookPayload) (*usecase.ReconcileResult, error) {
	f.webhooks = append(f.webhooks, payload)
	if f.result != nil {
		return f.result, f.webhookErr
	}
	return &usecase.ReconcileResult{TxRef: payload.Reference(), Outcome: usecase.OutcomeTransitioned}, f.webhookErr
}

type fakeAppointmentUsecase struct {
	createCalls int
	createErr   error
	mineErr     error
	statusErr   error
}

func (f *fakeAppointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.CreateAppointmentResponse{
		Appointment: dto.AppointmentResponse{TxRef: "TX-1", PaymentStatus: "Pending"},
		CheckoutURL: "https://checkout.test/TX-1",
	}, nil
}

func (f *fakeAppointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 0}, nil
}

func (f *fakeAppointmentUsecase) GetPaymentStatusByTxRef(ctx context.Context, txRef string) (*dto.PaymentStatusResponse, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &dto.PaymentStatusResponse{PaymentStatus: "Completed"}, nil
}

type fakeContactUsecase struct {
	sendErr    error
	bookingErr error
	calls      int
}

func (f *fakeContactUsecase) SubmitContact(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error) {
	f.calls++
	return &dto.ContactMessageResponse{FullName: req.FullName, Email: req.Email}, nil
}

func (f *fakeContactUsecase) SendEmail(ctx context.Context, req *dto.ContactRequest) (*dto.ContactMessageResponse, error) {
	f.calls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &dto.ContactMessageResponse{FullName: req.FullName, Email: req.Email}, nil
}

func (f *fakeContactUsecase) SendBookingEmail(ctx context.Context, req *dto.SendBookingEmailRequest) error {
	f.calls++
	return f.bookingErr
}

func (f *fakeContactUsecase) GetContactMessages(ctx context.Context) (*dto.ContactMessageListResponse, error) {
	return &dto.ContactMessageListResponse{Messages: []dto.ContactMessageResponse{}}, nil
}
