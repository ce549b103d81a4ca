package usecase

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"medcenter-booking/config"
	"medcenter-booking/internal/domain/entity"
	"medcenter-booking/internal/infrastructure/invoice"
	"medcenter-booking/internal/infrastructure/mailer"
	"medcenter-booking/internal/infrastructure/payment"
	"medcenter-booking/internal/repository"
	"medcenter-booking/internal/service"
	"medcenter-booking/pkg/validator"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "booking.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Patient{},
		&entity.Department{},
		&entity.Service{},
		&entity.Appointment{},
		&entity.AppointmentService{},
		&entity.ContactMessage{},
		&entity.AuditLog{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Timezone: "UTC"},
		Payment: config.PaymentConfig{
			Currency:    "ETB",
			CallbackURL: "https://api.clinic.test/api/v1/payment/webhook",
			ReturnURL:   "https://clinic.test/payment-success",
		},
		Booking: config.BookingConfig{
			RegistrationFee: decimal.NewFromInt(300),
			ClinicName:      "Clinic",
		},
	}
}

type catalogFixture struct {
	cardiology entity.Department
	lab100     entity.Service
	lab150     entity.Service
	xray200    entity.Service
	inactive   entity.Service
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()

	f := catalogFixture{
		cardiology: entity.Department{Name: "Cardiology", Price: decimal.NewFromInt(200), IsActive: true},
		lab100:     entity.Service{Code: "LAB-GLU", Name: "Blood Glucose", Type: entity.ServiceTypeLab, Category: "Chemistry", Price: decimal.NewFromInt(100), IsActive: true},
		lab150:     entity.Service{Code: "LAB-CBC", Name: "Complete Blood Count", Type: entity.ServiceTypeLab, Category: "Hematology", Price: decimal.NewFromInt(150), IsActive: true},
		xray200:    entity.Service{Code: "XR-CHEST", Name: "Chest X-ray", Type: entity.ServiceTypeXray, Category: "Radiology", Price: decimal.NewFromInt(200), IsActive: true},
		inactive:   entity.Service{Code: "LAB-OLD", Name: "Retired Test", Type: entity.ServiceTypeLab, Category: "Chemistry", Price: decimal.NewFromInt(50), IsActive: true},
	}

	require.NoError(t, db.Create(&f.cardiology).Error)
	require.NoError(t, db.Create(&f.lab100).Error)
	require.NoError(t, db.Create(&f.lab150).Error)
	require.NoError(t, db.Create(&f.xray200).Error)
	require.NoError(t, db.Create(&f.inactive).Error)
	// is_active has a database default, so false must be written explicitly
	require.NoError(t, db.Model(&f.inactive).Update("is_active", false).Error)

	return f
}

type fakeGateway struct {
	mu           sync.Mutex
	initCalls    []*payment.InitializeRequest
	initErr      error
	verifyCalls  []string
	verifyStatus map[string]payment.Status
	verifyErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{verifyStatus: map[string]payment.Status{}}
}

func (g *fakeGateway) Initialize(ctx context.Context, req *payment.InitializeRequest) (*payment.InitializeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls = append(g.initCalls, req)
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &payment.InitializeResult{CheckoutURL: "https://checkout.test/" + req.TxRef}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, txRef string) (*payment.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls = append(g.verifyCalls, txRef)
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	status, ok := g.verifyStatus[txRef]
	if !ok {
		status = payment.StatusFailed
	}
	return &payment.VerifyResult{TxRef: txRef, Status: status}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type stubRenderer struct{}

func (stubRenderer) Render(inv *invoice.Invoice) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

var errSMTPDown = errors.New("smtp down")

func newNotificationService(m mailer.Mailer) service.NotificationService {
	return service.NewNotificationService(newTestLogger(), validator.NewValidator(), service.NewMemoryDedupStore(), m, stubRenderer{}, service.NotificationOptions{
		AdminEmail: "admin@clinic.test",
		Currency:   "ETB",
		ClinicName: "Clinic",
	})
}

func newAuditService() service.AuditService {
	return service.NewAuditService(newTestLogger(), repository.NewAuditLogRepository())
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
