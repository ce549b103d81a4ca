package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medcenter-booking/config"
	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/delivery/http/handler"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/jwt"
	"medcenter-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type noTokens struct{}

func (noTokens) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(0, nil)
}

type stubPayment struct{}

func (stubPayment) InitiatePayment(ctx context.Context, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	return &dto.InitiatePaymentResponse{}, nil
}

func (stubPayment) HandleWebhook(ctx context.Context, payload *dto.WebhookPayload) (*usecase.ReconcileResult, error) {
	return &usecase.ReconcileResult{TxRef: payload.Reference(), Outcome: usecase.OutcomeNotFound}, nil
}

type stubCatalog struct{ usecase.CatalogUsecase }

func (stubCatalog) GetDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	return []dto.DepartmentResponse{{ID: 1, Name: "Cardiology"}}, nil
}

type stubAppointments struct{ usecase.AppointmentUsecase }

func (stubAppointments) GetPaymentStatusByTxRef(ctx context.Context, txRef string) (*dto.PaymentStatusResponse, error) {
	return &dto.PaymentStatusResponse{PaymentStatus: "Pending"}, nil
}

func newTestRouter() http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	v := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})

	return NewRouter(
		log,
		handler.NewAuthHandler(nil, v, log, jwtService),
		handler.NewAppointmentHandler(stubAppointments{}, v),
		handler.NewPaymentHandler(stubPayment{}, v, log, ""),
		handler.NewCatalogHandler(stubCatalog{}, v),
		handler.NewContactHandler(nil, v),
		handler.NewAuditLogHandler(nil),
		middleware.NewAuthMiddleware(jwtService, noTokens{}),
		middleware.NewCORSMiddleware([]string{"https://clinic.test"}),
		middleware.NewRateLimiter(0),
	).Setup()
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/departments", http.StatusOK},
		{http.MethodGet, "/api/v1/appointments/status-by-tx/TX-1", http.StatusOK},
		{http.MethodGet, "/api/v1/payment/webhook?trx_ref=TX-1", http.StatusOK},
		{http.MethodGet, "/api/v1/appointments?mine=true", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/contact", http.StatusUnauthorized},
		{http.MethodPut, "/api/v1/service-categories/3", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/audit-logs/" + uuid.NewString(), http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_WebhookAcknowledgesInText(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook", strings.NewReader(`{"tx_ref":"TX-404"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Webhook ignored", rec.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	req.Header.Set("Origin", "https://clinic.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "https://clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
